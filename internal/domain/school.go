package domain

import (
	"time"

	"github.com/google/uuid"
)

// School is a read-only reference entity. Schools are provisioned out of
// band; this application only looks them up by their join code and
// attaches them to children.
type School struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
