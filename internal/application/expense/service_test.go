package expense

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/budget-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory messageStore with GSI-like windowed listing.
type fakeStore struct {
	items map[string]domain.ProcessedMessage
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[string]domain.ProcessedMessage{}}
}

func (f *fakeStore) RecordIfAbsent(_ context.Context, m *domain.ProcessedMessage) (bool, error) {
	if _, ok := f.items[m.MessageID]; ok {
		return false, nil
	}
	f.items[m.MessageID] = *m
	return true, nil
}

func (f *fakeStore) Put(_ context.Context, m *domain.ProcessedMessage) error {
	f.items[m.MessageID] = *m
	return nil
}

func (f *fakeStore) Get(_ context.Context, messageID string) (*domain.ProcessedMessage, error) {
	m, ok := f.items[messageID]
	if !ok {
		return nil, fmt.Errorf("message %s: %w", messageID, domain.ErrNotFound)
	}
	return &m, nil
}

func (f *fakeStore) ListByUser(_ context.Context, username, from, to, kind string, _ int32, _ string) ([]domain.ProcessedMessage, string, error) {
	var out []domain.ProcessedMessage
	for _, m := range f.items {
		if m.Username != username || m.Timestamp < from || m.Timestamp > to {
			continue
		}
		if kind != "" && m.Kind != kind {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, "", nil
}

func (f *fakeStore) Delete(_ context.Context, messageID string) error {
	delete(f.items, messageID)
	return nil
}

func seedExpenses(t *testing.T, store *fakeStore, username string, amounts ...float64) []domain.ProcessedMessage {
	t.Helper()
	base := time.Now().UTC().Add(-time.Hour)
	seeded := make([]domain.ProcessedMessage, 0, len(amounts))
	for i, amount := range amounts {
		ts := domain.FormatTimestamp(base.Add(time.Duration(i) * time.Minute))
		m := domain.ProcessedMessage{
			MessageID: domain.ExpenseKey(username, ts),
			Username:  username,
			Timestamp: ts,
			Kind:      domain.KindExpense,
			Amount:    amount,
			Category:  domain.CategoryFood,
		}
		require.NoError(t, store.Put(context.Background(), &m))
		seeded = append(seeded, m)
	}
	return seeded
}

func TestRecord(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	m, err := svc.Record(context.Background(), "alice", "spent 250 on lunch", domain.ExpenseAnalysis{
		Amount:   250,
		Category: domain.CategoryFood,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(m.MessageID, "EXP#alice#"))
	assert.Equal(t, domain.KindExpense, m.Kind)
	assert.Equal(t, "spent 250 on lunch", m.Description)

	stored, err := store.Get(context.Background(), m.MessageID)
	require.NoError(t, err)
	assert.Equal(t, float64(250), stored.Amount)
}

func TestRecord_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(newFakeStore())

	for _, amount := range []float64{0, -10} {
		_, err := svc.Record(context.Background(), "alice", "x", domain.ExpenseAnalysis{Amount: amount})
		assert.ErrorIs(t, err, domain.ErrBadRequest)
	}
}

func TestListWindow_ExcludesOtherKindsAndUsers(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	seedExpenses(t, store, "alice", 100, 200)
	seedExpenses(t, store, "bob", 999)

	marker := domain.ProcessedMessage{
		MessageID: domain.MessageKey("1"),
		Username:  "alice",
		Timestamp: domain.FormatTimestamp(time.Now()),
		Kind:      domain.KindMessage,
	}
	require.NoError(t, store.Put(context.Background(), &marker))

	got, err := svc.ListWindow(context.Background(), "alice", 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, float64(100), got[0].Amount)
	assert.Equal(t, float64(200), got[1].Amount)
}

func TestListWindow_AscendingRegardlessOfWriteOrder(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	// Write newest first, with sub-second gaps, and expect the listing to
	// come back oldest first anyway.
	base := time.Now().UTC().Add(-time.Hour)
	offsets := []time.Duration{
		time.Minute + 520*time.Millisecond,
		time.Minute + 500*time.Millisecond,
		time.Minute,
		0,
	}
	for i, off := range offsets {
		ts := domain.FormatTimestamp(base.Add(off))
		m := domain.ProcessedMessage{
			MessageID: domain.ExpenseKey("alice", ts),
			Username:  "alice",
			Timestamp: ts,
			Kind:      domain.KindExpense,
			Amount:    float64(i + 1),
		}
		require.NoError(t, store.Put(context.Background(), &m))
	}

	got, err := svc.ListWindow(context.Background(), "alice", 0)
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].Timestamp, got[i].Timestamp)
	}
	assert.Equal(t, float64(4), got[0].Amount)
	assert.Equal(t, float64(1), got[3].Amount)
}

func TestRequestDeletion_LastN(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	seeded := seedExpenses(t, store, "alice", 100, 200, 300)

	two := 2
	ticket, err := svc.RequestDeletion(context.Background(), "alice", domain.DeletionRange{
		Count:       &two,
		Position:    "last",
		Description: "last 2 expenses",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, ticket.Count)
	assert.Equal(t, float64(500), ticket.Total)
	assert.NotEmpty(t, ticket.Code)

	pending, err := store.Get(context.Background(), domain.DeletionKey("alice"))
	require.NoError(t, err)
	assert.Equal(t, []string{seeded[1].MessageID, seeded[2].MessageID}, pending.TargetIDs)
	assert.Greater(t, pending.ExpiresAt, time.Now().Unix())
}

func TestRequestDeletion_FirstN(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	seeded := seedExpenses(t, store, "alice", 100, 200, 300)

	one := 1
	_, err := svc.RequestDeletion(context.Background(), "alice", domain.DeletionRange{
		Count:    &one,
		Position: "first",
	})
	require.NoError(t, err)

	pending, err := store.Get(context.Background(), domain.DeletionKey("alice"))
	require.NoError(t, err)
	assert.Equal(t, []string{seeded[0].MessageID}, pending.TargetIDs)
}

func TestRequestDeletion_NoExpenses(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.RequestDeletion(context.Background(), "alice", domain.DeletionRange{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmDeletion(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	seeded := seedExpenses(t, store, "alice", 100, 200)

	ticket, err := svc.RequestDeletion(context.Background(), "alice", domain.DeletionRange{Description: "all expenses"})
	require.NoError(t, err)

	deleted, err := svc.ConfirmDeletion(context.Background(), "alice", ticket.Code)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	for _, m := range seeded {
		_, err := store.Get(context.Background(), m.MessageID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	_, err = store.Get(context.Background(), domain.DeletionKey("alice"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmDeletion_WrongCode(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	seedExpenses(t, store, "alice", 100)

	_, err := svc.RequestDeletion(context.Background(), "alice", domain.DeletionRange{})
	require.NoError(t, err)

	_, err = svc.ConfirmDeletion(context.Background(), "alice", "nope")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestPendingDeletion_Expired(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	pending := domain.ProcessedMessage{
		MessageID:        domain.DeletionKey("alice"),
		Username:         "alice",
		Kind:             domain.KindDeletion,
		ConfirmationCode: "abc123",
		ExpiresAt:        time.Now().Add(-time.Minute).Unix(),
	}
	require.NoError(t, store.Put(context.Background(), &pending))

	_, err := svc.PendingDeletion(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The stale record is cleaned up eagerly, not left for the TTL sweep.
	_, err = store.Get(context.Background(), domain.DeletionKey("alice"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelDeletion(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	seedExpenses(t, store, "alice", 100)

	_, err := svc.RequestDeletion(context.Background(), "alice", domain.DeletionRange{})
	require.NoError(t, err)

	require.NoError(t, svc.CancelDeletion(context.Background(), "alice"))
	_, err = svc.PendingDeletion(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
