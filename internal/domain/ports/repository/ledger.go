package repository

import (
	"context"

	"telegram-calorie-diary/internal/domain/model"
)

// LedgerRepository persists one diary record per Telegram user.
// Find returns domain.ErrNotFound when no record exists; Save rewrites the
// whole record; All streams every persisted record so the reminder registry
// can be rebuilt at startup.
type LedgerRepository interface {
	Find(ctx context.Context, tgID int64) (*model.Ledger, error)
	Save(ctx context.Context, l *model.Ledger) error
	Delete(ctx context.Context, tgID int64) error
	All(ctx context.Context) ([]*model.Ledger, error)
}
