package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yenkart/yenkart/checkout/pkg/request"
	"github.com/yenkart/yenkart/checkout/pkg/response"
	"github.com/yenkart/yenkart/internal/errors"
	"github.com/yenkart/yenkart/internal/repository"
)

var (
	userAlice = uuid.MustParse("11111111-1111-1111-1111-111111111111")

	itemKeyboard = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	itemMouse    = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	itemHub      = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")

	cartAlice = uuid.MustParse("dddddddd-dddd-dddd-dddd-dddddddddddd")
)

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func TestPurchaseSettlesCart(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, queries, checkoutService := setup(t)(
		c,
		filepath.Join("seed", "cart.seed.sql"),
	)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	actual, err := checkoutService.Purchase(c, request.Purchase{
		UserId:         userAlice,
		CartId:         cartAlice,
		IdempotencyKey: "checkout-settles-cart",
	})
	require.NoError(t, err)
	assert.Equal(t, string(repository.IdempotencyKeyStatusSuccess), actual.Status)

	purchased := []response.PurchasedItem{}
	require.NoError(t, json.Unmarshal(actual.Data, &purchased))
	assert.Equal(
		t,
		[]response.PurchasedItem{{ItemID: itemKeyboard, Quantity: 3}},
		purchased,
	)

	item, err := queries.FindItemById(c, itemKeyboard)
	require.NoError(t, err)
	assert.EqualValues(t, 2, item.Quantity, "stock should be decremented by the purchased quantity")

	_, err = queries.FindCartByIdAndUserId(c, repository.FindCartByIdAndUserIdParams{
		ID:     cartAlice,
		UserID: userAlice,
	})
	assert.ErrorIs(t, err, pgx.ErrNoRows, "cart should be deleted after checkout")

	records, err := queries.FindPurchaseRecordsByUserId(c, userAlice)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, itemKeyboard, records[0].ItemID)
	assert.EqualValues(t, 3, records[0].Quantity)
}

func TestPurchaseReplaysStoredResponse(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, queries, checkoutService := setup(t)(
		c,
		filepath.Join("seed", "cart.seed.sql"),
	)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	param := request.Purchase{
		UserId:         userAlice,
		CartId:         cartAlice,
		IdempotencyKey: "checkout-replay",
	}

	first, err := checkoutService.Purchase(c, param)
	require.NoError(t, err)

	second, err := checkoutService.Purchase(c, param)
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(
		t,
		[]byte(first.Data),
		[]byte(second.Data),
		"replayed payload should be byte identical",
	)

	item, err := queries.FindItemById(c, itemKeyboard)
	require.NoError(t, err)
	assert.EqualValues(t, 2, item.Quantity, "replay should not decrement stock again")

	records, err := queries.FindPurchaseRecordsByUserId(c, userAlice)
	require.NoError(t, err)
	assert.Len(t, records, 1, "replay should not create another purchase record")
}

func TestPurchaseInsufficientStockBurnsKey(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, queries, checkoutService := setup(t)(
		c,
		filepath.Join("seed", "cart_insufficient.seed.sql"),
	)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	param := request.Purchase{
		UserId:         userAlice,
		CartId:         cartAlice,
		IdempotencyKey: "checkout-out-of-stock",
	}

	_, err := checkoutService.Purchase(c, param)
	assert.ErrorIs(t, err, errors.ErrOutOfStock)

	hub, err := queries.FindItemById(c, itemHub)
	require.NoError(t, err)
	assert.EqualValues(t, 10, hub.Quantity, "satisfiable line should not be decremented")

	mouse, err := queries.FindItemById(c, itemMouse)
	require.NoError(t, err)
	assert.EqualValues(t, 0, mouse.Quantity)

	records, err := queries.FindPurchaseRecordsByUserId(c, userAlice)
	require.NoError(t, err)
	assert.Empty(t, records, "no purchase record should survive a failed checkout")

	lines, err := queries.FindCartItemsByCartId(c, cartAlice)
	require.NoError(t, err)
	assert.Len(t, lines, 2, "the cart should keep both lines after a failed checkout")

	ledger, err := queries.FindIdempotencyKey(c, param.IdempotencyKey)
	require.NoError(t, err)
	assert.Equal(t, repository.IdempotencyKeyStatusFailed, ledger.Status)

	replay, err := checkoutService.Purchase(c, param)
	require.NoError(t, err, "a burned key replays its failure instead of retrying")
	assert.Equal(t, string(repository.IdempotencyKeyStatusFailed), replay.Status)
	assert.Equal(t, []byte(ledger.ResponseData), []byte(replay.Data))
}

func TestPurchaseUnknownCartLeavesKeyRetryable(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, queries, checkoutService := setup(t)(c)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	param := request.Purchase{
		UserId:         userAlice,
		CartId:         uuid.New(),
		IdempotencyKey: "checkout-unknown-cart",
	}

	_, err := checkoutService.Purchase(c, param)
	assert.ErrorIs(t, err, errors.ErrCartNotFound)

	ledger, err := queries.FindIdempotencyKey(c, param.IdempotencyKey)
	require.NoError(t, err)
	assert.Equal(
		t,
		repository.IdempotencyKeyStatusPending,
		ledger.Status,
		"a pre-checkout failure must not burn the key",
	)
}

func TestPurchaseEmptyCartLeavesKeyRetryable(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, queries, checkoutService := setup(t)(
		c,
		filepath.Join("seed", "empty_cart.seed.sql"),
	)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	param := request.Purchase{
		UserId:         userAlice,
		CartId:         cartAlice,
		IdempotencyKey: "checkout-empty-cart",
	}

	_, err := checkoutService.Purchase(c, param)
	assert.ErrorIs(t, err, errors.ErrEmptyCart)

	ledger, err := queries.FindIdempotencyKey(c, param.IdempotencyKey)
	require.NoError(t, err)
	assert.Equal(t, repository.IdempotencyKeyStatusPending, ledger.Status)
}

func TestPurchaseConcurrentSameKeySettlesOnce(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, queries, checkoutService := setup(t)(
		c,
		filepath.Join("seed", "cart.seed.sql"),
	)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	param := request.Purchase{
		UserId:         userAlice,
		CartId:         cartAlice,
		IdempotencyKey: "checkout-concurrent",
	}

	workers := 4
	results := make([]response.Purchase, workers)
	errs := make([]error, workers)
	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = checkoutService.Purchase(c, param)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, string(repository.IdempotencyKeyStatusSuccess), results[i].Status)
		assert.Equal(
			t,
			[]byte(results[0].Data),
			[]byte(results[i].Data),
			"every caller should observe the same stored payload",
		)
	}

	item, err := queries.FindItemById(c, itemKeyboard)
	require.NoError(t, err)
	assert.EqualValues(t, 2, item.Quantity, "stock should be decremented exactly once")

	records, err := queries.FindPurchaseRecordsByUserId(c, userAlice)
	require.NoError(t, err)
	assert.Len(t, records, 1, "checkout should settle exactly once")
}
