package shipping

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockRepo struct {
	records    map[string]*Record
	createdIDs []string
	updates    int

	createErr error
	getErr    error
	updateErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[string]*Record)}
}

func (m *mockRepo) Create(_ context.Context, rec *Record) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.records[rec.ShippingID]; ok {
		return ErrAlreadyExists
	}
	cp := *rec
	m.records[rec.ShippingID] = &cp
	m.createdIDs = append(m.createdIDs, rec.ShippingID)
	return nil
}

func (m *mockRepo) Get(_ context.Context, shippingID string) (*Record, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	rec, ok := m.records[shippingID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, shippingID string, status Status) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	rec, ok := m.records[shippingID]
	if !ok {
		return ErrNotFound
	}
	rec.Status = status
	m.updates++
	return nil
}

type mockQueue struct {
	pending []string
	sends   int

	sendErr    error
	receiveErr error
}

func (m *mockQueue) Send(_ context.Context, shippingID string) (string, error) {
	if m.sendErr != nil {
		return "", m.sendErr
	}
	m.pending = append(m.pending, shippingID)
	m.sends++
	return "msg-" + shippingID, nil
}

func (m *mockQueue) Receive(_ context.Context, max int) ([]string, error) {
	if m.receiveErr != nil {
		return nil, m.receiveErr
	}
	n := min(max, len(m.pending))
	batch := m.pending[:n]
	m.pending = m.pending[n:]
	return batch, nil
}

// --- Helpers ---

var testTime = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockRepo, queue *mockQueue, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return testTime })}, opts...)
	return NewService(repo, queue, opts...)
}

// --- Tests ---

func TestCreateShipping_PersistsInProgressAndEnqueues(t *testing.T) {
	repo := newMockRepo()
	queue := &mockQueue{}
	svc := newTestService(repo, queue)

	due := testTime.Add(time.Minute)
	id, err := svc.CreateShipping(context.Background(), AvailableTypes()[0], []string{"Widget", "Gadget"}, "order-1", due)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, ok := repo.records[id]
	require.True(t, ok)
	assert.Equal(t, StatusInProgress, rec.Status, "created state is never persisted")
	assert.Equal(t, []string{"Widget", "Gadget"}, rec.ProductIDs)
	assert.Equal(t, "order-1", rec.OrderID)
	assert.Equal(t, due.UTC(), rec.DueDate)

	assert.Equal(t, 1, len(repo.createdIDs), "exactly one record write")
	assert.Equal(t, 1, queue.sends, "exactly one enqueue")
	assert.Equal(t, []string{id}, queue.pending)
}

func TestCreateShipping_UnknownType(t *testing.T) {
	repo := newMockRepo()
	queue := &mockQueue{}
	svc := newTestService(repo, queue)

	_, err := svc.CreateShipping(context.Background(), "Новий тип доставки", []string{"Widget"}, "order-1", testTime.Add(time.Minute))

	require.ErrorIs(t, err, ErrTypeNotAvailable)
	assert.Empty(t, repo.createdIDs, "no record written on validation failure")
	assert.Equal(t, 0, queue.sends, "no message sent on validation failure")
}

func TestCreateShipping_StoreFailure(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = errors.New("store down")
	queue := &mockQueue{}
	svc := newTestService(repo, queue)

	_, err := svc.CreateShipping(context.Background(), AvailableTypes()[0], []string{"Widget"}, "order-1", testTime.Add(time.Minute))

	require.Error(t, err)
	assert.Equal(t, 0, queue.sends, "no enqueue when the record write fails")
}

func TestCheckStatus(t *testing.T) {
	repo := newMockRepo()
	queue := &mockQueue{}
	svc := newTestService(repo, queue)

	id, err := svc.CreateShipping(context.Background(), AvailableTypes()[0], []string{"Widget"}, "order-1", testTime.Add(time.Minute))
	require.NoError(t, err)

	status, err := svc.CheckStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, status)
}

func TestCheckStatus_NotFound(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockQueue{})

	_, err := svc.CheckStatus(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProcessShipping_BeforeDueDateCompletes(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockQueue{})

	id, err := svc.CreateShipping(context.Background(), AvailableTypes()[0], []string{"Widget"}, "order-1", testTime.Add(5*time.Second))
	require.NoError(t, err)

	status, err := svc.ProcessShipping(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status)
	assert.Equal(t, StatusCompleted, repo.records[id].Status)
}

func TestProcessShipping_OverdueFails(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockQueue{})

	id, err := svc.CreateShipping(context.Background(), AvailableTypes()[0], []string{"Widget"}, "order-1", testTime.Add(-time.Second))
	require.NoError(t, err)

	status, err := svc.ProcessShipping(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, status)
}

func TestProcessShipping_DueDateExactlyNowFails(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockQueue{})

	id, err := svc.CreateShipping(context.Background(), AvailableTypes()[0], []string{"Widget"}, "order-1", testTime)
	require.NoError(t, err)

	status, err := svc.ProcessShipping(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, status)
}

func TestProcessShipping_Idempotent(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockQueue{})

	id, err := svc.CreateShipping(context.Background(), AvailableTypes()[0], []string{"Widget"}, "order-1", testTime.Add(time.Minute))
	require.NoError(t, err)

	first, err := svc.ProcessShipping(context.Background(), id)
	require.NoError(t, err)

	updatesAfterFirst := repo.updates

	second, err := svc.ProcessShipping(context.Background(), id)
	require.NoError(t, err, "re-processing a terminal shipment must not error")
	assert.Equal(t, first, second)
	assert.Equal(t, updatesAfterFirst, repo.updates, "terminal state must not be rewritten")
}

func TestProcessShipping_NotFound(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockQueue{})

	_, err := svc.ProcessShipping(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteAndFailShipping(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockQueue{})

	id, err := svc.CreateShipping(context.Background(), AvailableTypes()[0], []string{"Widget"}, "order-1", testTime.Add(time.Minute))
	require.NoError(t, err)

	require.NoError(t, svc.CompleteShipping(context.Background(), id))
	assert.Equal(t, StatusCompleted, repo.records[id].Status)

	require.NoError(t, svc.FailShipping(context.Background(), id))
	assert.Equal(t, StatusFailed, repo.records[id].Status)
}

func TestProcessBatch_MixedDueDates(t *testing.T) {
	repo := newMockRepo()
	queue := &mockQueue{}
	svc := newTestService(repo, queue, WithBatchSize(10))

	// 2 overdue, 3 on time.
	dues := []time.Duration{-time.Hour, -time.Second, time.Second, time.Minute, time.Hour}
	ids := make([]string, len(dues))
	for i, d := range dues {
		id, err := svc.CreateShipping(context.Background(), AvailableTypes()[0], []string{"Widget"}, "order-1", testTime.Add(d))
		require.NoError(t, err)
		ids[i] = id
	}

	n, err := svc.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	failed, completed := 0, 0
	for _, id := range ids {
		switch repo.records[id].Status {
		case StatusFailed:
			failed++
		case StatusCompleted:
			completed++
		}
	}
	assert.Equal(t, 2, failed)
	assert.Equal(t, 3, completed)
	assert.Empty(t, queue.pending)
}

func TestProcessBatch_DuplicateDelivery(t *testing.T) {
	repo := newMockRepo()
	queue := &mockQueue{}
	svc := newTestService(repo, queue, WithBatchSize(10))

	id, err := svc.CreateShipping(context.Background(), AvailableTypes()[0], []string{"Widget"}, "order-1", testTime.Add(time.Minute))
	require.NoError(t, err)

	// Simulate at-least-once redelivery of the same ID.
	queue.pending = append(queue.pending, id, id)

	n, err := svc.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, StatusCompleted, repo.records[id].Status)
	assert.Equal(t, 1, repo.updates, "duplicates must not cause extra writes")
}

func TestProcessBatch_RespectsBatchSize(t *testing.T) {
	repo := newMockRepo()
	queue := &mockQueue{}
	svc := newTestService(repo, queue, WithBatchSize(2))

	for range 5 {
		_, err := svc.CreateShipping(context.Background(), AvailableTypes()[0], []string{"Widget"}, "order-1", testTime.Add(time.Minute))
		require.NoError(t, err)
	}

	n, err := svc.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, queue.pending, 3)
}

func TestProcessBatch_SkipsFailingIDs(t *testing.T) {
	repo := newMockRepo()
	queue := &mockQueue{}
	svc := newTestService(repo, queue, WithBatchSize(10))

	id, err := svc.CreateShipping(context.Background(), AvailableTypes()[0], []string{"Widget"}, "order-1", testTime.Add(time.Minute))
	require.NoError(t, err)

	// A stale ID from a redelivered message for a purged record.
	queue.pending = append([]string{"gone"}, queue.pending...)

	n, err := svc.ProcessBatch(context.Background())
	require.NoError(t, err, "per-ID failures must not abort the batch")
	assert.Equal(t, 2, n)
	assert.Equal(t, StatusCompleted, repo.records[id].Status)
}

func TestProcessBatch_ReceiveFailure(t *testing.T) {
	queue := &mockQueue{receiveErr: errors.New("transport down")}
	svc := newTestService(newMockRepo(), queue)

	_, err := svc.ProcessBatch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "receive shipping batch")
}
