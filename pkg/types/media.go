package types

import (
	"time"

	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
)

// Media is an uploaded asset owned by a seller account.
type Media struct {
	ID        string          `json:"id"`
	URL       string          `json:"url"`
	Kind      enums.MediaKind `json:"kind"`
	Filename  string          `json:"filename,omitempty"`
	SizeBytes int64           `json:"sizeBytes,omitempty"`
	OwnerID   string          `json:"ownerId"`
	CreatedAt time.Time       `json:"createdAt"`
}
