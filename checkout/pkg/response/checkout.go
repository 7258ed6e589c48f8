package response

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PurchasedItem is one line of the persisted idempotency payload. The field
// set and ordering are part of the replay contract: the stored payload is
// returned verbatim on every retry of the same key.
type PurchasedItem struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int32     `json:"quantity"`
}

type Purchase struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type PurchaseRecord struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ItemID    uuid.UUID `json:"item_id"`
	Quantity  int32     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}
