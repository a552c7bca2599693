package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/budget-bot/internal/application/expense"
	"github.com/budget-bot/internal/domain"
	"github.com/budget-bot/internal/infrastructure/telegram"
)

// Outcomes reported to the webhook caller. Telegram only cares about the
// status code, but they make log lines and tests readable.
const (
	OutcomeAlreadyProcessed  = "Already processed"
	OutcomeDeletionConfirmed = "Deletion confirmation processed"
	OutcomeDeletionRequested = "Deletion request processed"
	OutcomeQueryProcessed    = "Expense query processed"
	OutcomeExpenseProcessed  = "Expense processed"
	OutcomeInstructionsSent  = "Instructions sent"
)

type Service interface {
	ProcessUpdate(ctx context.Context, upd telegram.Update) (string, error)
}

// dedupStore is the slice of the message store the pipeline needs for
// exactly-once processing.
type dedupStore interface {
	RecordIfAbsent(ctx context.Context, m *domain.ProcessedMessage) (bool, error)
}

type notifier interface {
	SendReply(ctx context.Context, chatID, replyTo int64, html string) error
}

// Analyzer extracts structured intent from free text. Implemented by the
// Gemini client; nil is allowed and falls back to local heuristics.
type Analyzer interface {
	AnalyzeExpense(ctx context.Context, text string) (*domain.ExpenseAnalysis, error)
	ExtractQueryRange(ctx context.Context, text string) (*domain.QueryRange, error)
	ExtractDeletionRange(ctx context.Context, text string) (*domain.DeletionRange, error)
}

type service struct {
	messages  dedupStore
	expenses  expense.Service
	notifier  notifier
	analyzer  Analyzer
	threshold float64
}

func NewService(messages dedupStore, expenses expense.Service, notifier notifier, analyzer Analyzer, threshold float64) Service {
	return &service{
		messages:  messages,
		expenses:  expenses,
		notifier:  notifier,
		analyzer:  analyzer,
		threshold: threshold,
	}
}

// ProcessUpdate runs the full pipeline for one webhook delivery: validate,
// claim the message id (exactly-once), route by intent, reply. Redeliveries
// of an already-claimed message short-circuit before any side effect.
func (s *service) ProcessUpdate(ctx context.Context, upd telegram.Update) (string, error) {
	msg := upd.Message
	if msg == nil || msg.Chat.ID == 0 || strings.TrimSpace(msg.Text) == "" {
		return "", fmt.Errorf("missing chat id or text: %w", domain.ErrBadRequest)
	}
	if msg.MessageID == 0 {
		return "", fmt.Errorf("missing message id: %w", domain.ErrBadRequest)
	}

	text := strings.TrimSpace(msg.Text)
	username := ""
	if msg.From != nil {
		username = msg.From.Username
	}
	if username == "" {
		username = strconv.FormatInt(msg.Chat.ID, 10)
	}

	marker := &domain.ProcessedMessage{
		MessageID: domain.MessageKey(strconv.FormatInt(msg.MessageID, 10)),
		Username:  username,
		Timestamp: domain.FormatTimestamp(time.Now()),
		Kind:      domain.KindMessage,
	}
	inserted, err := s.messages.RecordIfAbsent(ctx, marker)
	if err != nil {
		return "", err
	}
	if !inserted {
		slog.Info("skipping already processed message", "message_id", marker.MessageID, "username", username)
		return OutcomeAlreadyProcessed, nil
	}

	// A confirmation reply only counts as one while a live pending deletion
	// exists and the code matches; anything else falls through to the other
	// intents.
	if pending, err := s.expenses.PendingDeletion(ctx, username); err == nil {
		verdict, code := ParseConfirmation(text)
		if verdict == ConfirmationCancel || (verdict == ConfirmationCode && code == pending.ConfirmationCode) {
			return s.handleConfirmation(ctx, msg, username, pending, verdict, code)
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	if IsDeletionRequest(text) {
		return s.handleDeletionRequest(ctx, msg, username, text)
	}
	if IsExpenseQuery(text) {
		return s.handleQuery(ctx, msg, username, text)
	}
	if !looksLikeQuery(text) && hasNumber(text) {
		if outcome, ok, err := s.handleExpenseEntry(ctx, msg, username, text); err != nil || ok {
			return outcome, err
		}
	}

	s.reply(ctx, msg, helpReply)
	return OutcomeInstructionsSent, nil
}

func (s *service) handleConfirmation(ctx context.Context, msg *telegram.IncomingMessage, username string, pending *domain.ProcessedMessage, verdict Confirmation, code string) (string, error) {
	if verdict == ConfirmationCancel {
		if err := s.expenses.CancelDeletion(ctx, username); err != nil {
			return "", err
		}
		s.reply(ctx, msg, deletionCancelledReply)
		return OutcomeDeletionConfirmed, nil
	}

	deleted, err := s.expenses.ConfirmDeletion(ctx, username, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.reply(ctx, msg, noPendingDeletionReply)
			return OutcomeDeletionConfirmed, nil
		}
		return "", err
	}
	slog.Info("deleted expenses", "username", username, "count", deleted)
	s.reply(ctx, msg, deletionDoneReply(deleted, pending.Description))
	return OutcomeDeletionConfirmed, nil
}

func (s *service) handleDeletionRequest(ctx context.Context, msg *telegram.IncomingMessage, username, text string) (string, error) {
	r := domain.DeletionRange{Description: "all expenses"}
	if s.analyzer != nil {
		if extracted, err := s.analyzer.ExtractDeletionRange(ctx, text); err == nil {
			r = *extracted
		} else {
			slog.Warn("deletion range extraction failed, deleting all", "err", err)
		}
	}

	ticket, err := s.expenses.RequestDeletion(ctx, username, r)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.reply(ctx, msg, noExpensesToDeleteReply)
			return OutcomeDeletionRequested, nil
		}
		return "", err
	}
	s.reply(ctx, msg, deletionPromptReply(ticket))
	return OutcomeDeletionRequested, nil
}

func (s *service) handleQuery(ctx context.Context, msg *telegram.IncomingMessage, username, text string) (string, error) {
	r := domain.QueryRange{Days: 30, Description: "recent expenses"}
	if s.analyzer != nil {
		if extracted, err := s.analyzer.ExtractQueryRange(ctx, text); err == nil {
			r = *extracted
		} else {
			slog.Warn("query range extraction failed, using default window", "err", err)
		}
	}

	expenses, err := s.expenses.ListWindow(ctx, username, r.Days)
	if err != nil {
		return "", err
	}
	s.reply(ctx, msg, expense.FormatSummary(expenses, r, s.threshold))
	return OutcomeQueryProcessed, nil
}

// handleExpenseEntry returns ok=false when the text does not parse to a
// positive amount, letting the caller fall through to the help reply.
func (s *service) handleExpenseEntry(ctx context.Context, msg *telegram.IncomingMessage, username, text string) (string, bool, error) {
	a := s.analyze(ctx, text)
	if a.Amount <= 0 {
		return "", false, nil
	}

	if _, err := s.expenses.Record(ctx, username, text, a); err != nil {
		return "", false, err
	}
	s.reply(ctx, msg, expenseRecordedReply(a))
	return OutcomeExpenseProcessed, true, nil
}

// analyze prefers the language model and falls back to local heuristics when
// it is absent or errors. A model answer with no amount still gets a second
// chance from the amount regex.
func (s *service) analyze(ctx context.Context, text string) domain.ExpenseAnalysis {
	if s.analyzer == nil {
		return FallbackAnalysis(text)
	}
	a, err := s.analyzer.AnalyzeExpense(ctx, text)
	if err != nil {
		slog.Warn("expense analysis failed, using fallback", "err", err)
		return FallbackAnalysis(text)
	}
	if a.Amount <= 0 {
		fb := FallbackAnalysis(text)
		if fb.Amount > 0 {
			a.Amount = fb.Amount
		}
	}
	return *a
}

// reply delivers the outbound message on a best-effort basis. The inbound
// message is already claimed, so failing the request here would make
// Telegram redeliver an update we would then skip; logging is the right
// trade.
func (s *service) reply(ctx context.Context, msg *telegram.IncomingMessage, html string) {
	if err := s.notifier.SendReply(ctx, msg.Chat.ID, msg.MessageID, html); err != nil {
		slog.Warn("failed to send reply", "chat_id", msg.Chat.ID, "err", err)
	}
}
