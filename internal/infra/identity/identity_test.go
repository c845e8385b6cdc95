package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDSource_NewID(t *testing.T) {
	src := UUIDSource{}

	a := src.NewID()
	b := src.NewID()

	if a == b {
		t.Errorf("expected distinct ids, got %q twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("NewID() = %q, not a valid uuid: %v", a, err)
	}
}
