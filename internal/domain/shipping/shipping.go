// Package shipping implements the shipment lifecycle engine: the status
// state machine, the shipping type catalog, and the service advancing
// shipments toward completion or failure based on due-date expiry.
package shipping

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Status is the lifecycle state of a shipment record.
type Status string

const (
	// StatusCreated is the conceptual initial state. It is never observed
	// in the store: creation persists StatusInProgress directly.
	StatusCreated Status = "created"
	// StatusInProgress marks a shipment awaiting processing.
	StatusInProgress Status = "in progress"
	// StatusCompleted is the terminal success state.
	StatusCompleted Status = "completed"
	// StatusFailed is the terminal failure state.
	StatusFailed Status = "failed"
)

// Terminal reports whether no further transitions are allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

var (
	// ErrTypeNotAvailable is returned when creating a shipment with a
	// shipping type outside the catalog.
	ErrTypeNotAvailable = errors.New("shipping type is not available")
	// ErrNotFound is returned on lookup or update of an unknown shipping ID.
	ErrNotFound = errors.New("shipping not found")
	// ErrAlreadyExists is returned when creating a record whose shipping ID
	// is already present in the store.
	ErrAlreadyExists = errors.New("shipping already exists")
)

// Record is the persisted shipment state.
type Record struct {
	ShippingID string
	Type       string
	ProductIDs []string
	OrderID    string
	Status     Status
	DueDate    time.Time
}

// Repository defines the durable shipment record store. Updates are
// independent per shipping ID; an update either applies fully or leaves
// the record in its prior state.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, shippingID string) (*Record, error)
	UpdateStatus(ctx context.Context, shippingID string, status Status) error
}

// Queue is the at-least-once notification channel carrying shipping IDs of
// newly created shipments. Receive may return fewer IDs than requested and
// may redeliver IDs that were already handed out.
type Queue interface {
	Send(ctx context.Context, shippingID string) (messageID string, err error)
	Receive(ctx context.Context, max int) ([]string, error)
}
