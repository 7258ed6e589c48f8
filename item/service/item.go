package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yenkart/yenkart/internal/constants"
	inErrors "github.com/yenkart/yenkart/internal/errors"
	inOtel "github.com/yenkart/yenkart/internal/otel"
	"github.com/yenkart/yenkart/internal/cache"
	"github.com/yenkart/yenkart/internal/repository"
	"github.com/yenkart/yenkart/item/otel"
	"github.com/yenkart/yenkart/item/pkg/request"
	"github.com/yenkart/yenkart/item/pkg/response"
)

type ItemService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewItemService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
) ItemService {
	return ItemService{pool: pool, queries: queries, cache: cache}
}

func (svc ItemService) FindItems(
	c context.Context,
	param request.FindItems,
) ([]response.Item, error) {
	c, span := otel.Tracer.Start(c, "ItemService FindItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "ItemService FindItems").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding items in database").Logger()
	logger.Trace().Msg("finding items in database")
	span.AddEvent("finding items in database")
	items, err := svc.queries.FindItems(c, repository.FindItemsParams{
		Name:     param.Name,
		MinPrice: param.MinPrice,
		MaxPrice: param.MaxPrice,
	})
	if err != nil {
		err = fmt.Errorf("failed finding items in database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger = logger.With().Int(constants.KEY_ITEMS, len(items)).Logger()
	span.AddEvent("found items in database")
	logger.Info().Msg("found items in database")

	res := make([]response.Item, 0, len(items))
	for _, item := range items {
		res = append(res, item.Response())
	}
	return res, nil
}

func (svc ItemService) FindItemById(
	c context.Context,
	id uuid.UUID,
) (response.Item, error) {
	c, span := otel.Tracer.Start(c, "ItemService FindItemById")
	defer span.End()

	cacheKey := cache.KEY_ITEMS + id.String()
	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "ItemService FindItemById").
		Str(constants.KEY_ITEM_ID, id.String()).
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding item in cache").Logger()
	logger.Trace().Msg("finding item in cache")
	jsonString, err := svc.cache.Get(c, cacheKey).Result()
	if err == nil {
		item := response.Item{}
		err = json.Unmarshal([]byte(jsonString), &item)
		if err == nil {
			logger.Info().Msg("found item in cache")
			return item, nil
		}
		err = fmt.Errorf("failed unmarshaling cached item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("item not found in cache")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding item in database").Logger()
	logger.Trace().Msg("finding item in database")
	item, err := svc.queries.FindItemById(c, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed finding itemId=%s with error=%w", id, inErrors.ErrItemNotFound)
		} else {
			err = fmt.Errorf("failed finding itemId=%s with error=%w", id, err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}
	logger.Info().Msg("found item in database")

	res := item.Response()

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting item to cache").Logger()
	logger.Trace().Msg("inserting item to cache")
	itemJson, err := json.Marshal(res)
	if err != nil {
		err = fmt.Errorf("failed marshaling item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return res, nil
	}
	err = svc.cache.Set(c, cacheKey, itemJson, time.Hour*1).Err()
	if err != nil {
		err = fmt.Errorf("failed inserting item to cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return res, nil
	}
	logger.Info().Msg("inserted item to cache")

	return res, nil
}
