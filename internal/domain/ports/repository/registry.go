package repository

import "context"

// ReminderRegistry maps a server-local "HH:MM" bucket to the users due a
// reminder at that minute. It is mutated by set-eating and stop from worker
// goroutines while the scheduler reads it, so implementations must be safe
// for concurrent use. Bucket returns a snapshot; concurrent membership
// changes may or may not be visible to an in-flight read.
type ReminderRegistry interface {
	Register(ctx context.Context, bucket string, tgID int64) error
	Unregister(ctx context.Context, bucket string, tgID int64) error
	Bucket(ctx context.Context, bucket string) ([]int64, error)
}
