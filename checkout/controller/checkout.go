package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/yenkart/yenkart/checkout/otel"
	"github.com/yenkart/yenkart/checkout/service"
	"github.com/yenkart/yenkart/checkout/pkg/request"
	"github.com/yenkart/yenkart/internal"
	"github.com/yenkart/yenkart/internal/constants"
	inErrors "github.com/yenkart/yenkart/internal/errors"
	commonHttp "github.com/yenkart/yenkart/internal/http"
	inOtel "github.com/yenkart/yenkart/internal/otel"
)

type CheckoutController struct {
	validate *validator.Validate
	service  *service.CheckoutService
}

func AttachCheckoutController(
	mux *mux.Router,
	service *service.CheckoutService,
	validate *validator.Validate,
) {
	controller := CheckoutController{validate: validate, service: service}

	mux.HandleFunc("/checkout", controller.Purchase).Methods(http.MethodPost)
	mux.HandleFunc("/purchases", controller.FindPurchaseRecords).Methods(http.MethodGet)
}

func (t CheckoutController) Purchase(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController Purchase")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CheckoutController Purchase").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId").Logger()
	logger.Info().Msg("getting userId from jwtToken")
	c = logger.WithContext(c)
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()
	logger.Info().Msg("got userId from jwtToken")

	logger = logger.With().Str(constants.KEY_PROCESS, "getting idempotency key").Logger()
	logger.Info().Msg("getting idempotency key header")
	idempotencyKey := r.Header.Get(constants.HEADER_IDEMPOTENCY_KEY)
	if idempotencyKey == "" {
		err = fmt.Errorf("failed getting idempotency key with error=%w", inErrors.ErrKeyRequired)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_IDEMPOTENCY_KEY, idempotencyKey).Logger()
	logger.Info().Msg("got idempotency key header")

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.Purchase{}
	err = json.NewDecoder(r.Body).Decode(&reqBody)
	if err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	reqBody.UserId = userId
	reqBody.IdempotencyKey = idempotencyKey
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	err = t.validate.StructCtx(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "purchasing cart").Logger()
	logger.Info().Msg("purchasing cart")
	c = logger.WithContext(c)
	purchase, err := t.service.Purchase(c, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		message := inErrors.ErrTransientStorage.Error()
		switch {
		case errors.Is(err, inErrors.ErrCartNotFound):
			statusCode = http.StatusNotFound
			message = err.Error()
		case errors.Is(err, inErrors.ErrOutOfStock), errors.Is(err, inErrors.ErrEmptyCart):
			statusCode = http.StatusBadRequest
			message = err.Error()
		}
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    message,
		})
		return
	}
	logger = logger.With().Str(constants.KEY_IDEMPOTENCY_STATUS, purchase.Status).Logger()
	logger.Info().Msg("purchased cart")

	if purchase.Status == "failed" {
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    "checkout already failed for this idempotency key",
			"data": map[string]interface{}{
				"purchase": purchase,
			},
		})
		return
	}

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully checked out cart",
		"data": map[string]interface{}{
			"purchase": purchase,
		},
	})
}

func (t CheckoutController) FindPurchaseRecords(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController FindPurchaseRecords")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CheckoutController FindPurchaseRecords").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId").Logger()
	logger.Info().Msg("getting userId from jwtToken")
	c = logger.WithContext(c)
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()
	logger.Info().Msg("got userId from jwtToken")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding purchase records").Logger()
	logger.Info().Msg("finding purchase records")
	c = logger.WithContext(c)
	records, err := t.service.FindPurchaseRecords(c, request.FindPurchaseRecords{UserId: userId})
	if err != nil {
		err = fmt.Errorf("failed finding purchase records with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    inErrors.ErrTransientStorage.Error(),
		})
		return
	}
	logger.Info().Msg("found purchase records")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found purchase records",
		"data": map[string]interface{}{
			"purchaseRecords": records,
		},
	})
}
