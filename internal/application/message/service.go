package message

import (
	"context"
	"fmt"
	"time"

	"github.com/budget-bot/internal/domain"
	"github.com/budget-bot/internal/pkg/validate"
)

const defaultListLimit = int32(50)

type Service interface {
	Get(ctx context.Context, messageID string) (*domain.ProcessedMessage, error)
	List(ctx context.Context, req domain.ListMessagesRequest) ([]domain.ProcessedMessage, string, error)
	Delete(ctx context.Context, messageID string) error
}

type messageStore interface {
	Get(ctx context.Context, messageID string) (*domain.ProcessedMessage, error)
	ListByUser(ctx context.Context, username, from, to, kind string, limit int32, cursor string) ([]domain.ProcessedMessage, string, error)
	Delete(ctx context.Context, messageID string) error
}

type service struct {
	repo messageStore
}

func NewService(repo messageStore) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, messageID string) (*domain.ProcessedMessage, error) {
	if messageID == "" {
		return nil, fmt.Errorf("message id required: %w", domain.ErrBadRequest)
	}
	return s.repo.Get(ctx, messageID)
}

// List validates the window bounds before touching the store so a malformed
// timestamp surfaces as a bad request, not an empty page. Bounds are
// re-encoded to the storage layout: the string range-key comparison only
// works against fixed-width values.
func (s *service) List(ctx context.Context, req domain.ListMessagesRequest) ([]domain.ProcessedMessage, string, error) {
	if err := validate.Struct(req); err != nil {
		return nil, "", fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	bounds := make([]string, 2)
	for i, ts := range []string{req.From, req.To} {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, "", fmt.Errorf("invalid timestamp %q: %w", ts, domain.ErrBadRequest)
		}
		bounds[i] = domain.FormatTimestamp(t)
	}
	limit := req.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	return s.repo.ListByUser(ctx, req.Username, bounds[0], bounds[1], req.Kind, limit, req.Cursor)
}

func (s *service) Delete(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("message id required: %w", domain.ErrBadRequest)
	}
	return s.repo.Delete(ctx, messageID)
}
