package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepository implements Repository in memory with the same conditional
// semantics as the SQL store: each seat mutation is a single atomic
// check-and-update under the mutex.
type memRepository struct {
	mu          sync.Mutex
	inventories map[uuid.UUID]*EventInventory
}

func newMemRepository() *memRepository {
	return &memRepository{inventories: make(map[uuid.UUID]*EventInventory)}
}

func (m *memRepository) Create(ctx context.Context, inv *EventInventory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	if inv.AvailableSeats == 0 {
		inv.AvailableSeats = inv.TotalSeats
	}
	cp := *inv
	m.inventories[inv.ID] = &cp
	return nil
}

func (m *memRepository) GetByID(ctx context.Context, id uuid.UUID) (*EventInventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.inventories[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memRepository) List(ctx context.Context) ([]EventInventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EventInventory, 0, len(m.inventories))
	for _, inv := range m.inventories {
		out = append(out, *inv)
	}
	return out, nil
}

func (m *memRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.inventories[id]
	if !ok {
		return ErrEventNotFound
	}
	inv.IsActive = active
	return nil
}

func (m *memRepository) DecrementSeats(ctx context.Context, id uuid.UUID, quantity int, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.inventories[id]
	if !ok || !inv.IsActive || !inv.EventDateTime.After(now) || inv.AvailableSeats < quantity {
		return false, nil
	}
	inv.AvailableSeats -= quantity
	return true, nil
}

func (m *memRepository) IncrementSeats(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.inventories[id]
	if !ok || inv.AvailableSeats+quantity > inv.TotalSeats {
		return false, nil
	}
	inv.AvailableSeats += quantity
	return true, nil
}

func (m *memRepository) available(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inventories[id].AvailableSeats
}

func seedInventory(t *testing.T, repo *memRepository, totalSeats int, active bool, eventTime time.Time) uuid.UUID {
	t.Helper()
	inv := &EventInventory{
		Name:           "Test Event",
		Venue:          "Test Hall",
		EventDateTime:  eventTime,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
		UnitPrice:      decimal.RequireFromString("100.00"),
		IsActive:       active,
	}
	require.NoError(t, repo.Create(context.Background(), inv))
	return inv.ID
}

func newTestManager(repo Repository) *Manager {
	return NewManager(repo, logger.GetDefault())
}

func TestReserveHappyPath(t *testing.T) {
	repo := newMemRepository()
	eventID := seedInventory(t, repo, 10, true, time.Now().Add(24*time.Hour))
	m := newTestManager(repo)

	res, err := m.Reserve(context.Background(), eventID, 3)
	require.NoError(t, err)
	assert.Equal(t, eventID, res.EventID)
	assert.Equal(t, 3, res.Quantity)
	assert.True(t, decimal.RequireFromString("100.00").Equal(res.UnitPrice))
	assert.Equal(t, 7, repo.available(eventID))
}

func TestReserveFailureClassification(t *testing.T) {
	repo := newMemRepository()
	m := newTestManager(repo)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		_, err := m.Reserve(ctx, uuid.New(), 1)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("inactive", func(t *testing.T) {
		eventID := seedInventory(t, repo, 10, false, time.Now().Add(24*time.Hour))
		_, err := m.Reserve(ctx, eventID, 1)
		assert.ErrorIs(t, err, ErrEventInactive)
		assert.Equal(t, 10, repo.available(eventID))
	})

	t.Run("past event", func(t *testing.T) {
		eventID := seedInventory(t, repo, 10, true, time.Now().Add(-time.Hour))
		_, err := m.Reserve(ctx, eventID, 1)
		assert.ErrorIs(t, err, ErrEventPast)
		assert.Equal(t, 10, repo.available(eventID))
	})

	t.Run("insufficient seats", func(t *testing.T) {
		eventID := seedInventory(t, repo, 2, true, time.Now().Add(24*time.Hour))
		_, err := m.Reserve(ctx, eventID, 3)
		assert.ErrorIs(t, err, ErrInsufficientSeats)
		assert.Equal(t, 2, repo.available(eventID))
	})

	t.Run("invalid quantity", func(t *testing.T) {
		eventID := seedInventory(t, repo, 2, true, time.Now().Add(24*time.Hour))
		_, err := m.Reserve(ctx, eventID, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestReleaseRestoresSeats(t *testing.T) {
	repo := newMemRepository()
	eventID := seedInventory(t, repo, 10, true, time.Now().Add(24*time.Hour))
	m := newTestManager(repo)
	ctx := context.Background()

	_, err := m.Reserve(ctx, eventID, 4)
	require.NoError(t, err)
	require.NoError(t, m.Release(ctx, eventID, 4))
	assert.Equal(t, 10, repo.available(eventID))
}

func TestReleaseOverflowIsReported(t *testing.T) {
	repo := newMemRepository()
	eventID := seedInventory(t, repo, 10, true, time.Now().Add(24*time.Hour))
	m := newTestManager(repo)

	err := m.Release(context.Background(), eventID, 1)
	assert.ErrorIs(t, err, ErrReleaseOverflow)
	assert.Equal(t, 10, repo.available(eventID))
}

func TestReleaseUnknownEvent(t *testing.T) {
	repo := newMemRepository()
	m := newTestManager(repo)

	err := m.Release(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

// TestConcurrentReservationsNeverOversell hammers one event from many
// goroutines and checks the seat counter invariants afterwards.
func TestConcurrentReservationsNeverOversell(t *testing.T) {
	const totalSeats = 50
	const workers = 200

	repo := newMemRepository()
	eventID := seedInventory(t, repo, totalSeats, true, time.Now().Add(24*time.Hour))
	m := newTestManager(repo)

	var wg sync.WaitGroup
	var mu sync.Mutex
	reserved := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(qty int) {
			defer wg.Done()
			if _, err := m.Reserve(context.Background(), eventID, qty); err == nil {
				mu.Lock()
				reserved += qty
				mu.Unlock()
			}
		}(1 + i%3)
	}
	wg.Wait()

	available := repo.available(eventID)
	assert.GreaterOrEqual(t, available, 0)
	assert.LessOrEqual(t, available, totalSeats)
	assert.Equal(t, totalSeats-reserved, available)
}

// TestConcurrentReserveScenario reproduces the two-user race on a
// two-seat event: one request for 2 seats and one for 1 seat, fired
// concurrently. Exactly one must win and the counter must match the
// winner's deduction.
func TestConcurrentReserveScenario(t *testing.T) {
	for i := 0; i < 100; i++ {
		repo := newMemRepository()
		eventID := seedInventory(t, repo, 2, true, time.Now().Add(24*time.Hour))
		m := newTestManager(repo)

		type result struct {
			qty int
			err error
		}
		results := make(chan result, 2)

		var start sync.WaitGroup
		start.Add(1)
		for _, qty := range []int{2, 1} {
			go func(qty int) {
				start.Wait()
				_, err := m.Reserve(context.Background(), eventID, qty)
				results <- result{qty: qty, err: err}
			}(qty)
		}
		start.Done()

		wonQty := 0
		failures := 0
		for j := 0; j < 2; j++ {
			r := <-results
			if r.err == nil {
				wonQty += r.qty
			} else {
				assert.ErrorIs(t, r.err, ErrInsufficientSeats)
				failures++
			}
		}

		// Whichever request lands first wins; the other always overdraws.
		assert.Equal(t, 1, failures)
		assert.Equal(t, 2-wonQty, repo.available(eventID))
	}
}

func TestReserveReleaseInterleaving(t *testing.T) {
	const totalSeats = 20
	const rounds = 100

	repo := newMemRepository()
	eventID := seedInventory(t, repo, totalSeats, true, time.Now().Add(24*time.Hour))
	m := newTestManager(repo)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				if _, err := m.Reserve(context.Background(), eventID, 2); err == nil {
					_ = m.Release(context.Background(), eventID, 2)
				}
			}
		}()
	}
	wg.Wait()

	// Every successful reserve was paired with a release
	assert.Equal(t, totalSeats, repo.available(eventID))
}

func TestCreatePublishDeactivate(t *testing.T) {
	repo := newMemRepository()
	m := newTestManager(repo)
	ctx := context.Background()

	inv, err := m.Create(ctx, CreateInventoryRequest{
		Name:          "Launch Party",
		Venue:         "Main Hall",
		EventDateTime: time.Now().Add(48 * time.Hour),
		TotalSeats:    100,
		UnitPrice:     "49.99",
	})
	require.NoError(t, err)
	assert.False(t, inv.IsActive)
	assert.Equal(t, 100, inv.AvailableSeats)

	// Not yet published
	_, err = m.Reserve(ctx, inv.ID, 1)
	assert.ErrorIs(t, err, ErrEventInactive)

	require.NoError(t, m.Publish(ctx, inv.ID))
	_, err = m.Reserve(ctx, inv.ID, 1)
	require.NoError(t, err)

	require.NoError(t, m.Deactivate(ctx, inv.ID))
	_, err = m.Reserve(ctx, inv.ID, 1)
	assert.ErrorIs(t, err, ErrEventInactive)
}

func TestCreateRejectsBadPrice(t *testing.T) {
	repo := newMemRepository()
	m := newTestManager(repo)

	_, err := m.Create(context.Background(), CreateInventoryRequest{
		Name:          "Bad Price",
		EventDateTime: time.Now().Add(time.Hour),
		TotalSeats:    10,
		UnitPrice:     "-5.00",
	})
	assert.Error(t, err)

	_, err = m.Create(context.Background(), CreateInventoryRequest{
		Name:          "Unparseable",
		EventDateTime: time.Now().Add(time.Hour),
		TotalSeats:    10,
		UnitPrice:     "abc",
	})
	assert.Error(t, err)
}
