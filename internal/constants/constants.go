package constants

const (
	APP_YENKART   = "yenkart"
	AUDIENCE_USER = "audience-user"
)

const (
	KEY_APP_NAME           = "app"
	KEY_TAG                = "tag"
	KEY_PROCESS            = "process"
	KEY_CONFIG             = "config"
	KEY_REQUEST_ID         = "requestId"
	KEY_REQUEST_BODY       = "requestBody"
	KEY_REQUEST_HEADER     = "requestHeader"
	KEY_REQUEST_HOST       = "host"
	KEY_REQUEST_IP         = "requesterIP"
	KEY_REQUEST_METHOD     = "requestMethod"
	KEY_REQUEST_URI        = "requestURI"
	KEY_REQUEST_URL        = "requestURL"
	KEY_TRACE_ID           = "traceId"
	KEY_SPAN_ID            = "spanId"
	KEY_TOKEN              = "token"
	KEY_USER_ID            = "userId"
	KEY_ITEM_ID            = "itemId"
	KEY_ITEM               = "item"
	KEY_ITEMS              = "items"
	KEY_CART_ID            = "cartId"
	KEY_CART               = "cart"
	KEY_CART_ITEM_ID       = "cartItemId"
	KEY_CART_ITEMS         = "cartItems"
	KEY_QUANTITY           = "quantity"
	KEY_IDEMPOTENCY_KEY    = "idempotencyKey"
	KEY_IDEMPOTENCY_STATUS = "idempotencyStatus"
	KEY_PURCHASE_RECORDS   = "purchaseRecords"
	KEY_CACHE_KEY          = "cacheKey"
	KEY_DB_URL             = "dbUrl"
	KEY_PATH_VALUES        = "pathValues"
)

const (
	HEADER_IDEMPOTENCY_KEY = "Idempotency-Key"
)
