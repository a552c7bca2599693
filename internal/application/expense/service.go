package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/budget-bot/internal/domain"
	"github.com/budget-bot/internal/pkg/id"
)

const (
	// historyFloor is the lower timestamp bound used when a query has no
	// look-back window ("all expenses").
	historyFloor = "0001-01-01T00:00:00.000000000Z"

	pageLimit = int32(100)

	// pendingDeletionTTL is how long a deletion confirmation stays valid.
	pendingDeletionTTL = 5 * time.Minute
)

// DeletionTicket summarizes a pending deletion for the confirmation prompt.
type DeletionTicket struct {
	Code        string
	Count       int
	Total       float64
	Description string
}

type Service interface {
	Record(ctx context.Context, username, description string, a domain.ExpenseAnalysis) (*domain.ProcessedMessage, error)
	ListWindow(ctx context.Context, username string, days int) ([]domain.ProcessedMessage, error)
	RequestDeletion(ctx context.Context, username string, r domain.DeletionRange) (*DeletionTicket, error)
	PendingDeletion(ctx context.Context, username string) (*domain.ProcessedMessage, error)
	ConfirmDeletion(ctx context.Context, username, code string) (int, error)
	CancelDeletion(ctx context.Context, username string) error
}

type messageStore interface {
	RecordIfAbsent(ctx context.Context, m *domain.ProcessedMessage) (bool, error)
	Put(ctx context.Context, m *domain.ProcessedMessage) error
	Get(ctx context.Context, messageID string) (*domain.ProcessedMessage, error)
	ListByUser(ctx context.Context, username, from, to, kind string, limit int32, cursor string) ([]domain.ProcessedMessage, string, error)
	Delete(ctx context.Context, messageID string) error
}

type service struct {
	store messageStore
}

func NewService(store messageStore) Service {
	return &service{store: store}
}

// Record stores a new expense for the user. Zero and negative amounts are
// rejected before any store call.
func (s *service) Record(ctx context.Context, username, description string, a domain.ExpenseAnalysis) (*domain.ProcessedMessage, error) {
	if a.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", domain.ErrBadRequest)
	}
	now := domain.FormatTimestamp(time.Now())
	m := &domain.ProcessedMessage{
		MessageID:   domain.ExpenseKey(username, now),
		Username:    username,
		Timestamp:   now,
		Kind:        domain.KindExpense,
		Amount:      a.Amount,
		Category:    a.Category,
		Description: description,
	}
	inserted, err := s.store.RecordIfAbsent(ctx, m)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, fmt.Errorf("expense %s already exists: %w", m.MessageID, domain.ErrConflict)
	}
	return m, nil
}

// ListWindow returns the user's expenses from the last `days` days in
// ascending timestamp order, following continuation cursors across pages.
// days <= 0 means the full history.
func (s *service) ListWindow(ctx context.Context, username string, days int) ([]domain.ProcessedMessage, error) {
	now := time.Now().UTC()
	from := historyFloor
	if days > 0 {
		from = domain.FormatTimestamp(now.AddDate(0, 0, -days))
	}
	to := domain.FormatTimestamp(now)

	var all []domain.ProcessedMessage
	cursor := ""
	for {
		page, next, err := s.store.ListByUser(ctx, username, from, to, domain.KindExpense, pageLimit, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

// RequestDeletion resolves the expenses a deletion request targets and
// persists a pending confirmation with a short code and a TTL. Any earlier
// pending deletion for the user is replaced.
func (s *service) RequestDeletion(ctx context.Context, username string, r domain.DeletionRange) (*DeletionTicket, error) {
	targets, err := s.resolveTargets(ctx, username, r)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no expenses to delete: %w", domain.ErrNotFound)
	}

	total := 0.0
	ids := make([]string, len(targets))
	for i, t := range targets {
		total += t.Amount
		ids[i] = t.MessageID
	}

	now := time.Now().UTC()
	ticket := &DeletionTicket{
		Code:        id.NewShortCode(),
		Count:       len(ids),
		Total:       total,
		Description: r.Description,
	}
	pending := &domain.ProcessedMessage{
		MessageID:        domain.DeletionKey(username),
		Username:         username,
		Timestamp:        domain.FormatTimestamp(now),
		Kind:             domain.KindDeletion,
		Description:      r.Description,
		ConfirmationCode: ticket.Code,
		TargetIDs:        ids,
		ExpiresAt:        now.Add(pendingDeletionTTL).Unix(),
	}
	if err := s.store.Put(ctx, pending); err != nil {
		return nil, err
	}
	return ticket, nil
}

// PendingDeletion returns the user's live pending deletion, treating an
// expired record as absent (DynamoDB TTL removal lags the expiry time).
func (s *service) PendingDeletion(ctx context.Context, username string) (*domain.ProcessedMessage, error) {
	pending, err := s.store.Get(ctx, domain.DeletionKey(username))
	if err != nil {
		return nil, err
	}
	if pending.ExpiresAt <= time.Now().Unix() {
		_ = s.store.Delete(ctx, pending.MessageID)
		return nil, fmt.Errorf("pending deletion expired: %w", domain.ErrNotFound)
	}
	return pending, nil
}

// ConfirmDeletion deletes the targeted expenses when the code matches the
// pending record, then removes the pending record itself.
func (s *service) ConfirmDeletion(ctx context.Context, username, code string) (int, error) {
	pending, err := s.PendingDeletion(ctx, username)
	if err != nil {
		return 0, err
	}
	if code != pending.ConfirmationCode {
		return 0, fmt.Errorf("confirmation code mismatch: %w", domain.ErrBadRequest)
	}
	deleted := 0
	for _, targetID := range pending.TargetIDs {
		if err := s.store.Delete(ctx, targetID); err != nil {
			return deleted, err
		}
		deleted++
	}
	if err := s.store.Delete(ctx, pending.MessageID); err != nil {
		return deleted, err
	}
	return deleted, nil
}

// CancelDeletion abandons any pending deletion for the user.
func (s *service) CancelDeletion(ctx context.Context, username string) error {
	return s.store.Delete(ctx, domain.DeletionKey(username))
}

// resolveTargets picks the expenses a DeletionRange refers to: the N oldest
// or newest when Count is set, a day window when Days is set, otherwise all.
func (s *service) resolveTargets(ctx context.Context, username string, r domain.DeletionRange) ([]domain.ProcessedMessage, error) {
	switch {
	case r.Count != nil:
		all, err := s.ListWindow(ctx, username, 0)
		if err != nil {
			return nil, err
		}
		n := *r.Count
		if n <= 0 {
			return nil, nil
		}
		if n > len(all) {
			n = len(all)
		}
		if r.Position == "first" {
			return all[:n], nil
		}
		return all[len(all)-n:], nil
	case r.Days != nil:
		return s.ListWindow(ctx, username, *r.Days)
	default:
		return s.ListWindow(ctx, username, 0)
	}
}
