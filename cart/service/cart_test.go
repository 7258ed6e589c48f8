package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yenkart/yenkart/cart/pkg/request"
	"github.com/yenkart/yenkart/internal/errors"
	"github.com/yenkart/yenkart/internal/repository"
)

var (
	userAlice = uuid.MustParse("11111111-1111-1111-1111-111111111111")

	itemKeyboard = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	itemMouse    = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
)

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func TestAddItemCreatesCartAndLine(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, _, cartService := setup(t)(c)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	cart, err := cartService.AddItem(c, userAlice, request.AddCartItem{
		ItemId:   itemKeyboard,
		Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, userAlice, cart.UserID)
	require.Len(t, cart.CartItems, 1)
	assert.Equal(t, itemKeyboard, cart.CartItems[0].ItemID)
	assert.EqualValues(t, 2, cart.CartItems[0].Quantity)
	assert.True(
		t,
		cart.Total.Equal(decimal.NewFromInt(24000)),
		"total should be price times quantity, got %s",
		cart.Total,
	)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, _, cartService := setup(t)(c)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	_, err := cartService.AddItem(c, userAlice, request.AddCartItem{
		ItemId:   itemKeyboard,
		Quantity: 2,
	})
	require.NoError(t, err)

	cart, err := cartService.AddItem(c, userAlice, request.AddCartItem{
		ItemId:   itemKeyboard,
		Quantity: 1,
	})
	require.NoError(t, err)
	require.Len(t, cart.CartItems, 1, "adding the same item should merge into one line")
	assert.EqualValues(t, 3, cart.CartItems[0].Quantity)
}

func TestAddItemRejectsOverStock(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, queries, cartService := setup(t)(c)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	_, err := cartService.AddItem(c, userAlice, request.AddCartItem{
		ItemId:   itemMouse,
		Quantity: 1,
	})
	assert.ErrorIs(t, err, errors.ErrOutOfStock)

	_, err = queries.FindCartByUserId(c, userAlice)
	assert.ErrorIs(t, err, pgx.ErrNoRows, "a rejected add should not create a cart")
}

func TestAddItemRejectsMergedTotalOverStock(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, queries, cartService := setup(t)(c)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	_, err := cartService.AddItem(c, userAlice, request.AddCartItem{
		ItemId:   itemKeyboard,
		Quantity: 4,
	})
	require.NoError(t, err)

	_, err = cartService.AddItem(c, userAlice, request.AddCartItem{
		ItemId:   itemKeyboard,
		Quantity: 2,
	})
	assert.ErrorIs(
		t,
		err,
		errors.ErrOutOfStock,
		"merged quantity above stock should be rejected",
	)

	cart, err := queries.FindCartByUserId(c, userAlice)
	require.NoError(t, err)
	line, err := queries.FindCartItemByCartIdAndItemId(
		c,
		repository.FindCartItemByCartIdAndItemIdParams{CartID: cart.ID, ItemID: itemKeyboard},
	)
	require.NoError(t, err)
	assert.EqualValues(t, 4, line.Quantity, "a rejected merge should not change the line")
}

func TestAddItemUnknownItem(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, _, cartService := setup(t)(c)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	_, err := cartService.AddItem(c, userAlice, request.AddCartItem{
		ItemId:   uuid.New(),
		Quantity: 1,
	})
	assert.ErrorIs(t, err, errors.ErrItemNotFound)
}

func TestRemoveCartItem(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, queries, cartService := setup(t)(c)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	cart, err := cartService.AddItem(c, userAlice, request.AddCartItem{
		ItemId:   itemKeyboard,
		Quantity: 1,
	})
	require.NoError(t, err)
	require.Len(t, cart.CartItems, 1)

	err = cartService.RemoveCartItem(c, request.RemoveCartItem{
		ID:     cart.CartItems[0].ID,
		CartId: cart.ID,
		UserId: userAlice,
	})
	require.NoError(t, err)

	lines, err := queries.FindCartItemsByCartId(c, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	err = cartService.RemoveCartItem(c, request.RemoveCartItem{
		ID:     cart.CartItems[0].ID,
		CartId: cart.ID,
		UserId: userAlice,
	})
	assert.ErrorIs(t, err, errors.ErrCartItemNotFound)
}

func TestRemoveCartItemUnknownCart(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, _, cartService := setup(t)(c)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	err := cartService.RemoveCartItem(c, request.RemoveCartItem{
		ID:     uuid.New(),
		CartId: uuid.New(),
		UserId: userAlice,
	})
	assert.ErrorIs(t, err, errors.ErrCartNotFound)
}

func TestFindCartByUserIdNotFound(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, _, cartService := setup(t)(c)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	_, err := cartService.FindCartByUserId(c, userAlice)
	assert.ErrorIs(t, err, errors.ErrCartNotFound)
}
