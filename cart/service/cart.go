package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/yenkart/yenkart/cart/otel"
	"github.com/yenkart/yenkart/cart/pkg/request"
	"github.com/yenkart/yenkart/cart/pkg/response"
	"github.com/yenkart/yenkart/internal/constants"
	inErrors "github.com/yenkart/yenkart/internal/errors"
	inOtel "github.com/yenkart/yenkart/internal/otel"
	"github.com/yenkart/yenkart/internal/repository"
)

type CartService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewCartService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
) CartService {
	return CartService{pool: pool, queries: queries, cache: cache}
}

// AddItem creates or grows the (cart, item) line for the user's active cart.
// The stock check here is best-effort: checkout re-validates under row locks,
// so a concurrent purchase can still win the stock between here and checkout.
func (svc CartService) AddItem(
	c context.Context,
	userID uuid.UUID,
	param request.AddCartItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService AddItem").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_ITEM_ID, param.ItemId.String()).
		Int32(constants.KEY_QUANTITY, param.Quantity).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding user by id").Logger()
	logger.Info().Msg("finding user by id")
	_, err := svc.queries.FindUserById(c, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed finding userId=%s with error=%w", userID, inErrors.ErrUserNotFound)
		} else {
			err = fmt.Errorf("failed finding userId=%s with error=%w", userID, err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("found user by id")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding item by id").Logger()
	logger.Info().Msg("finding item by id")
	item, err := svc.queries.FindItemById(c, param.ItemId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed finding itemId=%s with error=%w", param.ItemId, inErrors.ErrItemNotFound)
		} else {
			err = fmt.Errorf("failed finding itemId=%s with error=%w", param.ItemId, err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("found item by id")

	logger = logger.With().Str(constants.KEY_PROCESS, "checking item quantity").Logger()
	logger.Info().Msg("checking item quantity")
	if item.Quantity < param.Quantity {
		err = inErrors.InsufficientStockError{ItemID: item.ID, ItemName: item.Name}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("checked item quantity")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart by userId").Logger()
	logger.Info().Msg("finding cart by userId")
	cart, err := svc.queries.FindCartByUserId(c, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed finding cart by userId=%s with error=%w", userID, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}

		logger = logger.With().Str(constants.KEY_PROCESS, "inserting cart").Logger()
		logger.Info().Msg("cart not found, inserting cart")
		cart, err = svc.queries.InsertCart(c, userID)
		if err != nil {
			err = fmt.Errorf("failed inserting cart for userId=%s with error=%w", userID, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		logger.Info().Msg("inserted cart")
	}
	logger = logger.With().Str(constants.KEY_CART_ID, cart.ID.String()).Logger()
	logger.Info().Msg("found cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "upserting cart item").Logger()
	logger.Info().Msg("finding existing cart item")
	line, err := svc.queries.FindCartItemByCartIdAndItemId(
		c,
		repository.FindCartItemByCartIdAndItemIdParams{CartID: cart.ID, ItemID: item.ID},
	)
	switch {
	case err == nil:
		newTotal := line.Quantity + param.Quantity
		logger = logger.With().Int32("newTotal", newTotal).Logger()
		logger.Info().Msg("cart item exists, checking merged quantity")
		if item.Quantity < newTotal {
			err = inErrors.InsufficientStockError{ItemID: item.ID, ItemName: item.Name}
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		_, err = svc.queries.UpdateCartItemQuantity(
			c,
			repository.UpdateCartItemQuantityParams{ID: line.ID, Quantity: newTotal},
		)
		if err != nil {
			err = fmt.Errorf("failed updating cart item quantity with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		logger.Info().Msg("updated cart item quantity")
	case errors.Is(err, pgx.ErrNoRows):
		logger.Info().Msg("cart item not found, inserting cart item")
		_, err = svc.queries.InsertCartItem(
			c,
			repository.InsertCartItemParams{CartID: cart.ID, ItemID: item.ID, Quantity: param.Quantity},
		)
		if err != nil {
			err = fmt.Errorf("failed inserting cart item with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		logger.Info().Msg("inserted cart item")
	default:
		err = fmt.Errorf("failed finding cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "mapping cart").Logger()
	logger.Info().Msg("mapping cart")
	c = logger.WithContext(c)
	res, err := svc.cartResponse(c, cart)
	if err != nil {
		err = fmt.Errorf("failed mapping cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("mapped cart")

	return res, nil
}

func (svc CartService) FindCartByUserId(
	c context.Context,
	userID uuid.UUID,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCartByUserId")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService FindCartByUserId").
		Str(constants.KEY_USER_ID, userID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart by userId").Logger()
	logger.Info().Msg("finding cart by userId")
	cart, err := svc.queries.FindCartByUserId(c, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed finding cart for userId=%s with error=%w", userID, inErrors.ErrCartNotFound)
		} else {
			err = fmt.Errorf("failed finding cart for userId=%s with error=%w", userID, err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("found cart by userId")

	logger = logger.With().Str(constants.KEY_PROCESS, "mapping cart").Logger()
	logger.Info().Msg("mapping cart")
	c = logger.WithContext(c)
	res, err := svc.cartResponse(c, cart)
	if err != nil {
		err = fmt.Errorf("failed mapping cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("mapped cart")

	return res, nil
}

func (svc CartService) RemoveCartItem(c context.Context, param request.RemoveCartItem) error {
	c, span := otel.Tracer.Start(c, "CartService RemoveCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService RemoveCartItem").
		Str(constants.KEY_CART_ID, param.CartId.String()).
		Str(constants.KEY_CART_ITEM_ID, param.ID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart by id").Logger()
	logger.Info().Msg("finding cart by id")
	_, err := svc.queries.FindCartByIdAndUserId(
		c,
		repository.FindCartByIdAndUserIdParams{ID: param.CartId, UserID: param.UserId},
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed finding cartId=%s with error=%w", param.CartId, inErrors.ErrCartNotFound)
		} else {
			err = fmt.Errorf("failed finding cartId=%s with error=%w", param.CartId, err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("found cart by id")

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting cart item").Logger()
	logger.Info().Msg("deleting cart item")
	deleted, err := svc.queries.DeleteCartItemById(
		c,
		repository.DeleteCartItemByIdParams{ID: param.ID, CartID: param.CartId},
	)
	if err != nil {
		err = fmt.Errorf(
			"failed deleting cartItemId=%s in cartId=%s with error=%w",
			param.ID,
			param.CartId,
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if deleted == 0 {
		err = fmt.Errorf(
			"failed deleting cartItemId=%s with error=%w",
			param.ID,
			inErrors.ErrCartItemNotFound,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted cart item")

	return nil
}

func (svc CartService) cartResponse(
	c context.Context,
	cart repository.Cart,
) (response.Cart, error) {
	rows, err := svc.queries.FindCartItemsWithItem(c, cart.ID)
	if err != nil {
		return response.Cart{}, err
	}

	cartItems := make([]response.CartItem, 0, len(rows))
	total := decimal.Zero
	for _, row := range rows {
		item := row.Response()
		total = total.Add(item.Subtotal)
		cartItems = append(cartItems, item)
	}

	return response.Cart{
		ID:        cart.ID,
		UserID:    cart.UserID,
		CartItems: cartItems,
		Total:     total,
		CreatedAt: cart.CreatedAt.Time,
		UpdatedAt: cart.UpdatedAt.Time,
	}, nil
}
