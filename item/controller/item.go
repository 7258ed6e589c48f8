package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/yenkart/yenkart/internal/constants"
	inErrors "github.com/yenkart/yenkart/internal/errors"
	commonHttp "github.com/yenkart/yenkart/internal/http"
	inOtel "github.com/yenkart/yenkart/internal/otel"
	"github.com/yenkart/yenkart/item/otel"
	"github.com/yenkart/yenkart/item/service"
	"github.com/yenkart/yenkart/item/pkg/request"
)

type ItemController struct {
	service *service.ItemService
}

func AttachItemController(mux *mux.Router, service *service.ItemService) {
	controller := ItemController{service: service}

	router := mux.PathPrefix("/items").Subrouter()
	router.HandleFunc("", controller.FindItems).Methods(http.MethodGet)
	router.HandleFunc("/{itemId}", controller.FindItemById).Methods(http.MethodGet)
}

// priceBound parses an inclusive price filter. An absent parameter means
// unbounded; a present but non-integer one is a validation error, not a no-op.
func priceBound(values map[string][]string, field string) (*int64, error) {
	raw, ok := values[field]
	if !ok || len(raw) == 0 || raw[0] == "" {
		return nil, nil
	}
	bound, err := strconv.ParseInt(raw[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed parsing %s=%s as integer with error=%w", field, raw[0], err)
	}
	return &bound, nil
}

func (t ItemController) FindItems(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ItemController FindItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ItemController FindItems").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing query params").Logger()
	logger.Info().Msg("parsing query params")
	query := r.URL.Query()
	minPrice, err := priceBound(query, "min_price")
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	maxPrice, err := priceBound(query, "max_price")
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("parsed query params")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding items").Logger()
	logger.Info().Msg("finding items")
	c = logger.WithContext(c)
	items, err := t.service.FindItems(c, request.FindItems{
		Name:     query.Get("name"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	})
	if err != nil {
		err = fmt.Errorf("failed finding items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    inErrors.ErrTransientStorage.Error(),
		})
		return
	}
	logger.Info().Msg("found items")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found items",
		"data": map[string]interface{}{
			"items": items,
		},
	})
}

func (t ItemController) FindItemById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ItemController FindItemById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ItemController FindItemById").
		Str(constants.KEY_PROCESS, "validating uuid").
		Logger()

	logger.Info().Msg("validating uuid")
	pathValues := mux.Vars(r)
	itemId, err := uuid.Parse(pathValues["itemId"])
	if err != nil {
		err = fmt.Errorf("failed validating itemId=%s with error=%w", pathValues["itemId"], err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_ITEM_ID, itemId.String()).Logger()
	logger.Info().Msgf("validated uuid itemId=%s", itemId.String())

	logger = logger.With().Str(constants.KEY_PROCESS, "finding item by id").Logger()
	logger.Info().Msg("finding item by id")
	c = logger.WithContext(c)
	item, err := t.service.FindItemById(c, itemId)
	if err != nil {
		err = fmt.Errorf("failed finding itemId=%s with error=%w", itemId.String(), err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusNotFound,
			"message":    inErrors.ErrItemNotFound.Error(),
		})
		return
	}
	logger.Info().Msg("found item by id")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found item",
		"data": map[string]interface{}{
			"item": item,
		},
	})
}
