// Package identity generates timer identifiers.
package identity

import (
	"github.com/google/uuid"

	"github.com/runoshun/ticktree/internal/domain"
)

// UUIDSource issues random UUIDv4 identifiers.
type UUIDSource struct{}

var _ domain.IDSource = UUIDSource{}

// NewID returns a fresh identifier.
func (UUIDSource) NewID() string {
	return uuid.NewString()
}
