package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yenkart/yenkart/checkout/otel"
	"github.com/yenkart/yenkart/checkout/pkg/request"
	"github.com/yenkart/yenkart/checkout/pkg/response"
	"github.com/yenkart/yenkart/internal/cache"
	"github.com/yenkart/yenkart/internal/constants"
	inErrors "github.com/yenkart/yenkart/internal/errors"
	inOtel "github.com/yenkart/yenkart/internal/otel"
	"github.com/yenkart/yenkart/internal/repository"
)

const (
	uniqueViolationCode = "23505"

	pendingPollInterval = 100 * time.Millisecond
	pendingPollAttempts = 50
)

type CheckoutService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewCheckoutService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
) CheckoutService {
	return CheckoutService{pool: pool, queries: queries, cache: cache}
}

// Purchase settles the cart exactly once per idempotency key. A key already
// settled replays its stored outcome verbatim. A pending key belongs to an
// earlier attempt that died before the atomic phase, so the caller may retry
// it; a key reserved concurrently by another request is waited out instead.
func (svc CheckoutService) Purchase(
	c context.Context,
	param request.Purchase,
) (response.Purchase, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService Purchase")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CheckoutService Purchase").
		Str(constants.KEY_USER_ID, param.UserId.String()).
		Str(constants.KEY_CART_ID, param.CartId.String()).
		Str(constants.KEY_IDEMPOTENCY_KEY, param.IdempotencyKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding idempotency key").Logger()
	logger.Info().Msg("finding idempotency key")
	ledger, err := svc.queries.FindIdempotencyKey(c, param.IdempotencyKey)
	switch {
	case err == nil && ledger.Status != repository.IdempotencyKeyStatusPending:
		logger = logger.With().
			Str(constants.KEY_IDEMPOTENCY_STATUS, string(ledger.Status)).
			Logger()
		logger.Info().Msg("idempotency key already settled, replaying stored response")
		return response.Purchase{
			Status: string(ledger.Status),
			Data:   json.RawMessage(ledger.ResponseData),
		}, nil
	case err == nil:
		logger.Info().Msg("idempotency key pending, retrying checkout")
	case errors.Is(err, pgx.ErrNoRows):
		logger = logger.With().Str(constants.KEY_PROCESS, "inserting idempotency key").Logger()
		logger.Info().Msg("idempotency key not found, inserting idempotency key")
		_, err = svc.queries.InsertIdempotencyKey(c, repository.InsertIdempotencyKeyParams{
			Key:    param.IdempotencyKey,
			UserID: param.UserId,
		})
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				logger.Info().Msg("idempotency key reserved concurrently, awaiting resolution")
				c = logger.WithContext(c)
				return svc.awaitResolution(c, param.IdempotencyKey)
			}
			err = fmt.Errorf("failed inserting idempotency key with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Purchase{}, err
		}
		logger.Info().Msg("inserted idempotency key")
	default:
		err = fmt.Errorf("failed finding idempotency key with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Purchase{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart by id").Logger()
	logger.Info().Msg("finding cart by id")
	_, err = svc.queries.FindCartByIdAndUserId(c, repository.FindCartByIdAndUserIdParams{
		ID:     param.CartId,
		UserID: param.UserId,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The cart may be gone because another request with the same key
			// already settled it. Replay the stored outcome in that case.
			ledger, ledgerErr := svc.queries.FindIdempotencyKey(c, param.IdempotencyKey)
			if ledgerErr == nil && ledger.Status != repository.IdempotencyKeyStatusPending {
				logger.Info().Msg("idempotency key settled concurrently, replaying stored response")
				return response.Purchase{
					Status: string(ledger.Status),
					Data:   json.RawMessage(ledger.ResponseData),
				}, nil
			}
			err = fmt.Errorf(
				"failed finding cartId=%s with error=%w",
				param.CartId,
				inErrors.ErrCartNotFound,
			)
		} else {
			err = fmt.Errorf("failed finding cartId=%s with error=%w", param.CartId, err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Purchase{}, err
	}
	logger.Info().Msg("found cart by id")

	c = logger.WithContext(c)
	return svc.settle(c, param)
}

// settle runs the atomic phase. Every write it makes, including the ledger
// success update, commits or rolls back as one unit. Any failure inside the
// phase rolls everything back and then burns the key outside the transaction,
// so the failed marker survives the rollback and retries replay the failure
// instead of mutating again.
func (svc CheckoutService) settle(
	c context.Context,
	param request.Purchase,
) (response.Purchase, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService settle")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CheckoutService settle").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "beginning transaction").Logger()
	logger.Info().Msg("beginning transaction")
	tx, err := svc.pool.Begin(c)
	if err != nil {
		err = fmt.Errorf("failed beginning transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Purchase{}, err
	}
	defer tx.Rollback(c)
	qtx := svc.queries.WithTx(tx)
	logger.Info().Msg("began transaction")

	logger = logger.With().Str(constants.KEY_PROCESS, "locking cart items").Logger()
	logger.Info().Msg("locking cart items")
	lines, err := qtx.FindCartItemsForUpdate(c, param.CartId)
	if err != nil {
		err = fmt.Errorf("failed locking cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		tx.Rollback(c)
		c = logger.WithContext(c)
		return svc.burn(c, param.IdempotencyKey, err)
	}
	logger = logger.With().Int(constants.KEY_CART_ITEMS, len(lines)).Logger()
	logger.Info().Msg("locked cart items")

	if len(lines) == 0 {
		// The cart emptied between the pre-phase lookup and the lock, which
		// also happens when a duplicate request loses the settle race. If the
		// key resolved in the meantime, replay it instead of failing.
		tx.Rollback(c)
		ledger, ledgerErr := svc.queries.FindIdempotencyKey(c, param.IdempotencyKey)
		if ledgerErr == nil && ledger.Status != repository.IdempotencyKeyStatusPending {
			logger.Info().Msg("idempotency key settled concurrently, replaying stored response")
			return response.Purchase{
				Status: string(ledger.Status),
				Data:   json.RawMessage(ledger.ResponseData),
			}, nil
		}
		err = fmt.Errorf(
			"failed checking out cartId=%s with error=%w",
			param.CartId,
			inErrors.ErrEmptyCart,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Purchase{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "validating stock").Logger()
	logger.Info().Msg("validating stock")
	for _, line := range lines {
		if line.ItemQuantity < line.Quantity {
			stockErr := inErrors.InsufficientStockError{
				ItemID:   line.ItemID,
				ItemName: line.ItemName,
			}
			inOtel.RecordError(stockErr, span)
			logger.Error().Err(stockErr).Msg(stockErr.Error())
			tx.Rollback(c)
			c = logger.WithContext(c)
			return svc.burn(c, param.IdempotencyKey, stockErr)
		}
	}
	logger.Info().Msg("validated stock")

	logger = logger.With().Str(constants.KEY_PROCESS, "recording purchases").Logger()
	logger.Info().Msg("recording purchases")
	purchased := make([]response.PurchasedItem, 0, len(lines))
	for _, line := range lines {
		_, err = qtx.InsertPurchaseRecord(c, repository.InsertPurchaseRecordParams{
			UserID:   param.UserId,
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
		})
		if err != nil {
			err = fmt.Errorf(
				"failed inserting purchase record for itemId=%s with error=%w",
				line.ItemID,
				err,
			)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			tx.Rollback(c)
			c = logger.WithContext(c)
			return svc.burn(c, param.IdempotencyKey, err)
		}
		_, err = qtx.DecrementItemQuantity(c, repository.DecrementItemQuantityParams{
			ID:       line.ItemID,
			Quantity: line.Quantity,
		})
		if err != nil {
			err = fmt.Errorf(
				"failed decrementing quantity for itemId=%s with error=%w",
				line.ItemID,
				err,
			)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			tx.Rollback(c)
			c = logger.WithContext(c)
			return svc.burn(c, param.IdempotencyKey, err)
		}
		purchased = append(purchased, response.PurchasedItem{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
		})
	}
	logger.Info().Msg("recorded purchases")

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting cart").Logger()
	logger.Info().Msg("deleting cart")
	_, err = qtx.DeleteCartById(c, param.CartId)
	if err != nil {
		err = fmt.Errorf("failed deleting cartId=%s with error=%w", param.CartId, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		tx.Rollback(c)
		c = logger.WithContext(c)
		return svc.burn(c, param.IdempotencyKey, err)
	}
	logger.Info().Msg("deleted cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "settling idempotency key").Logger()
	logger.Info().Msg("settling idempotency key")
	payload, err := json.Marshal(purchased)
	if err != nil {
		err = fmt.Errorf("failed marshaling purchased items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		tx.Rollback(c)
		c = logger.WithContext(c)
		return svc.burn(c, param.IdempotencyKey, err)
	}
	_, err = qtx.UpdateIdempotencyKey(c, repository.UpdateIdempotencyKeyParams{
		Key:          param.IdempotencyKey,
		Status:       repository.IdempotencyKeyStatusSuccess,
		ResponseData: payload,
	})
	if err != nil {
		err = fmt.Errorf("failed settling idempotency key with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		tx.Rollback(c)
		c = logger.WithContext(c)
		return svc.burn(c, param.IdempotencyKey, err)
	}
	logger.Info().Msg("settled idempotency key")

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		c = logger.WithContext(c)
		return svc.burn(c, param.IdempotencyKey, err)
	}
	logger.Info().Msg("committed transaction")

	logger = logger.With().Str(constants.KEY_PROCESS, "invalidating item cache").Logger()
	logger.Trace().Msg("invalidating item cache")
	for _, line := range purchased {
		cacheErr := svc.cache.Del(c, cache.KEY_ITEMS+line.ItemID.String()).Err()
		if cacheErr != nil {
			cacheErr = fmt.Errorf(
				"failed invalidating cache for itemId=%s with error=%w",
				line.ItemID,
				cacheErr,
			)
			inOtel.RecordError(cacheErr, span)
			logger.Error().Err(cacheErr).Msg(cacheErr.Error())
		}
	}
	logger.Info().Msg("invalidated item cache")

	return response.Purchase{
		Status: string(repository.IdempotencyKeyStatusSuccess),
		Data:   json.RawMessage(payload),
	}, nil
}

// burn marks the key failed and stores the error so retries replay it. Runs
// after rollback: the failed marker must outlive the discarded transaction.
func (svc CheckoutService) burn(
	c context.Context,
	key string,
	cause error,
) (response.Purchase, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService burn")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CheckoutService burn").
		Str(constants.KEY_PROCESS, "burning idempotency key").
		Logger()

	logger.Info().Msg("burning idempotency key")
	payload, err := json.Marshal(map[string]string{"error": cause.Error()})
	if err != nil {
		err = fmt.Errorf("failed marshaling failure payload with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Purchase{}, err
	}
	burned, err := svc.queries.BurnIdempotencyKey(c, repository.BurnIdempotencyKeyParams{
		Key:          key,
		ResponseData: payload,
	})
	if err != nil {
		err = fmt.Errorf("failed burning idempotency key with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Purchase{}, err
	}
	if burned == 0 {
		// Another request settled the key first; its outcome wins.
		ledger, ledgerErr := svc.queries.FindIdempotencyKey(c, key)
		if ledgerErr == nil && ledger.Status != repository.IdempotencyKeyStatusPending {
			logger.Info().Msg("idempotency key settled concurrently, replaying stored response")
			return response.Purchase{
				Status: string(ledger.Status),
				Data:   json.RawMessage(ledger.ResponseData),
			}, nil
		}
		return response.Purchase{}, cause
	}
	logger.Info().Msg("burned idempotency key")

	return response.Purchase{}, cause
}

// awaitResolution is the loser side of a concurrent reservation. It re-reads
// the ledger until the winner settles the key, then replays the stored
// outcome. Losing the race is never an error for the caller.
func (svc CheckoutService) awaitResolution(
	c context.Context,
	key string,
) (response.Purchase, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService awaitResolution")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CheckoutService awaitResolution").
		Str(constants.KEY_PROCESS, "awaiting idempotency key resolution").
		Logger()

	logger.Info().Msg("awaiting idempotency key resolution")
	ticker := time.NewTicker(pendingPollInterval)
	defer ticker.Stop()
	for attempt := 0; attempt < pendingPollAttempts; attempt++ {
		ledger, err := svc.queries.FindIdempotencyKey(c, key)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed finding idempotency key with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Purchase{}, err
		}
		if err == nil && ledger.Status != repository.IdempotencyKeyStatusPending {
			logger = logger.With().
				Str(constants.KEY_IDEMPOTENCY_STATUS, string(ledger.Status)).
				Logger()
			logger.Info().Msg("idempotency key resolved, replaying stored response")
			return response.Purchase{
				Status: string(ledger.Status),
				Data:   json.RawMessage(ledger.ResponseData),
			}, nil
		}

		select {
		case <-c.Done():
			err = fmt.Errorf("failed awaiting idempotency key resolution with error=%w", c.Err())
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Purchase{}, err
		case <-ticker.C:
		}
	}

	err := fmt.Errorf(
		"failed awaiting idempotency key resolution with error=%w",
		inErrors.ErrTransientStorage,
	)
	inOtel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	return response.Purchase{}, err
}

func (svc CheckoutService) FindPurchaseRecords(
	c context.Context,
	param request.FindPurchaseRecords,
) ([]response.PurchaseRecord, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService FindPurchaseRecords")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CheckoutService FindPurchaseRecords").
		Str(constants.KEY_USER_ID, param.UserId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding purchase records").Logger()
	logger.Info().Msg("finding purchase records")
	records, err := svc.queries.FindPurchaseRecordsByUserId(c, param.UserId)
	if err != nil {
		err = fmt.Errorf("failed finding purchase records with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger = logger.With().Int(constants.KEY_PURCHASE_RECORDS, len(records)).Logger()
	logger.Info().Msg("found purchase records")

	res := make([]response.PurchaseRecord, 0, len(records))
	for _, record := range records {
		res = append(res, record.Response())
	}
	return res, nil
}
