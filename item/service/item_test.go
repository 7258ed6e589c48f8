package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yenkart/yenkart/internal/cache"
	"github.com/yenkart/yenkart/internal/errors"
	"github.com/yenkart/yenkart/item/pkg/request"
)

var (
	itemKeyboard = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	itemMouse    = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	itemHub      = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
)

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestFindItems(t *testing.T) {
	tests := []struct {
		name     string
		param    request.FindItems
		expected []uuid.UUID
	}{
		{
			name:     "given no filter should return all items",
			param:    request.FindItems{},
			expected: []uuid.UUID{itemKeyboard, itemMouse, itemHub},
		},
		{
			name:     "given name substring should match case insensitively",
			param:    request.FindItems{Name: "keyboard"},
			expected: []uuid.UUID{itemKeyboard},
		},
		{
			name:     "given min price should return items at or above it",
			param:    request.FindItems{MinPrice: int64Ptr(8000)},
			expected: []uuid.UUID{itemKeyboard, itemMouse},
		},
		{
			name:     "given max price should return items at or below it",
			param:    request.FindItems{MaxPrice: int64Ptr(8000)},
			expected: []uuid.UUID{itemMouse, itemHub},
		},
		{
			name: "given combined filters should intersect",
			param: request.FindItems{
				Name:     "o",
				MinPrice: int64Ptr(3000),
				MaxPrice: int64Ptr(9000),
			},
			expected: []uuid.UUID{itemMouse},
		},
		{
			name:     "given non matching name should return empty",
			param:    request.FindItems{Name: "no-such-item"},
			expected: []uuid.UUID{},
		},
	}

	c := testContext()
	redis, pool, pgContainer, redisContainer, _, itemService := setup(t)(c)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := itemService.FindItems(c, tt.param)
			require.NoError(t, err)

			actual := make([]uuid.UUID, 0, len(items))
			for _, item := range items {
				actual = append(actual, item.ID)
			}
			assert.ElementsMatch(t, tt.expected, actual)
		})
	}
}

func TestFindItemById(t *testing.T) {
	c := testContext()
	redis, pool, pgContainer, redisContainer, _, itemService := setup(t)(c)
	defer teardown(t)(redis, pool, pgContainer, redisContainer)

	item, err := itemService.FindItemById(c, itemKeyboard)
	require.NoError(t, err)
	assert.Equal(t, itemKeyboard, item.ID)
	assert.Equal(t, "Mechanical Keyboard", item.Name)
	assert.EqualValues(t, 12000, item.Price)
	assert.EqualValues(t, 5, item.Quantity)

	cached, err := redis.Exists(c, cache.KEY_ITEMS+itemKeyboard.String()).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, cached, "item should be cached after the first read")

	_, err = itemService.FindItemById(c, uuid.New())
	assert.ErrorIs(t, err, errors.ErrItemNotFound)
}
