package shipping

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBatchSize bounds how many queued shipping IDs a single
// ProcessBatch invocation drains.
const DefaultBatchSize = 10

// Service orchestrates shipment creation, status transitions, and batch
// processing. Transitions are idempotent: re-processing a shipment already
// in a terminal state is a no-op, which makes the service safe under the
// queue's at-least-once delivery.
type Service struct {
	repo      Repository
	queue     Queue
	batchSize int
	now       func() time.Time
	lg        *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithBatchSize overrides the number of IDs drained per batch.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithClock overrides the time source used for due-date comparison.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(lg *zap.Logger) Option {
	return func(s *Service) { s.lg = lg }
}

// NewService creates a shipping Service backed by the given record store
// and notification queue.
func NewService(repo Repository, queue Queue, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		queue:     queue,
		batchSize: DefaultBatchSize,
		now:       time.Now,
		lg:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateShipping validates the shipping type, persists a new shipment
// record, and enqueues its ID for asynchronous processing. On success there
// is exactly one record write and one enqueue; a validation failure aborts
// before any side effect.
//
// The record is persisted with StatusInProgress directly: the conceptual
// "created" state is never visible in the store.
func (s *Service) CreateShipping(ctx context.Context, shippingType string, productIDs []string, orderID string, dueDate time.Time) (string, error) {
	if _, ok := TypePeriod(shippingType); !ok {
		return "", ErrTypeNotAvailable
	}

	shippingID := uuid.New().String()
	rec := &Record{
		ShippingID: shippingID,
		Type:       shippingType,
		ProductIDs: productIDs,
		OrderID:    orderID,
		Status:     StatusInProgress,
		DueDate:    dueDate.UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return "", errors.Wrap(err, "create shipping record")
	}

	msgID, err := s.queue.Send(ctx, shippingID)
	if err != nil {
		return "", errors.Wrap(err, "enqueue shipping notification")
	}

	s.lg.Info("shipping created",
		zap.String("shipping_id", shippingID),
		zap.String("order_id", orderID),
		zap.String("shipping_type", shippingType),
		zap.Time("due_date", rec.DueDate),
		zap.String("message_id", msgID),
	)
	return shippingID, nil
}

// CheckStatus returns the current status of the shipment record.
func (s *Service) CheckStatus(ctx context.Context, shippingID string) (Status, error) {
	rec, err := s.repo.Get(ctx, shippingID)
	if err != nil {
		return "", err
	}
	return rec.Status, nil
}

// CompleteShipping unconditionally marks the shipment completed.
func (s *Service) CompleteShipping(ctx context.Context, shippingID string) error {
	return s.repo.UpdateStatus(ctx, shippingID, StatusCompleted)
}

// FailShipping unconditionally marks the shipment failed.
func (s *Service) FailShipping(ctx context.Context, shippingID string) error {
	return s.repo.UpdateStatus(ctx, shippingID, StatusFailed)
}

// ProcessShipping advances a single shipment: overdue shipments fail,
// on-time ones complete. A shipment already in a terminal state is left
// untouched and its current status is returned, so repeated delivery of
// the same ID converges without error.
func (s *Service) ProcessShipping(ctx context.Context, shippingID string) (Status, error) {
	rec, err := s.repo.Get(ctx, shippingID)
	if err != nil {
		return "", err
	}
	if rec.Status.Terminal() {
		return rec.Status, nil
	}

	if !s.now().UTC().Before(rec.DueDate) {
		if err := s.FailShipping(ctx, shippingID); err != nil {
			return "", errors.Wrap(err, "fail shipping")
		}
		s.lg.Info("shipping failed: overdue",
			zap.String("shipping_id", shippingID),
			zap.Time("due_date", rec.DueDate),
		)
		return StatusFailed, nil
	}

	if err := s.CompleteShipping(ctx, shippingID); err != nil {
		return "", errors.Wrap(err, "complete shipping")
	}
	s.lg.Info("shipping completed", zap.String("shipping_id", shippingID))
	return StatusCompleted, nil
}

// ProcessBatch receives up to the configured batch size of shipping IDs
// from the queue and processes each. Per-ID failures are logged and
// skipped: queue redelivery is the sole retry mechanism. The returned
// count is the number of IDs handled, including terminal no-ops.
func (s *Service) ProcessBatch(ctx context.Context) (int, error) {
	ids, err := s.queue.Receive(ctx, s.batchSize)
	if err != nil {
		return 0, errors.Wrap(err, "receive shipping batch")
	}

	for _, id := range ids {
		if _, err := s.ProcessShipping(ctx, id); err != nil {
			s.lg.Warn("process shipping",
				zap.String("shipping_id", id),
				zap.Error(err),
			)
		}
	}
	return len(ids), nil
}
