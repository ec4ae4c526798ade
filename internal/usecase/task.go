package usecase

import (
	"github.com/google/uuid"

	"telegram-calorie-diary/internal/command"
	"telegram-calorie-diary/internal/domain/ports/adapter"
)

// Task is one unit of work on the shared queue: a validated command for one
// user plus the capability to answer them. Reminder tasks carry the same
// shape with KindReminder and no arguments.
type Task struct {
	ID         string
	TelegramID int64
	Kind       command.Kind
	Args       []string
	Sender     adapter.MessageSender
}

// NewTask assigns a fresh id used to correlate log lines for one execution.
func NewTask(tgID int64, kind command.Kind, args []string, sender adapter.MessageSender) Task {
	return Task{
		ID:         uuid.NewString(),
		TelegramID: tgID,
		Kind:       kind,
		Args:       args,
		Sender:     sender,
	}
}
