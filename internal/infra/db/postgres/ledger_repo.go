package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-calorie-diary/internal/domain"
	"telegram-calorie-diary/internal/domain/model"
	"telegram-calorie-diary/internal/domain/ports/repository"
	"telegram-calorie-diary/internal/infra/metrics"
)

// PostgresLedgerRepository is the Postgres backend for the ledger store,
// selected with storage.driver=postgres. Day entries keep their first-seen
// order through an explicit seq column.
type PostgresLedgerRepository struct {
	pool *pgxpool.Pool
}

var _ repository.LedgerRepository = (*PostgresLedgerRepository)(nil)

func NewPostgresLedgerRepository(pool *pgxpool.Pool) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{pool: pool}
}

// EnsureSchema creates the tables when they do not exist yet.
func (r *PostgresLedgerRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS calorie_ledgers (
    telegram_id  BIGINT PRIMARY KEY,
    zone         INT,
    times_to_eat TEXT[] NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS calorie_days (
    telegram_id BIGINT NOT NULL REFERENCES calorie_ledgers(telegram_id) ON DELETE CASCADE,
    seq         INT    NOT NULL,
    date        TEXT   NOT NULL,
    calories    INT[]  NOT NULL,
    PRIMARY KEY (telegram_id, seq)
);
`
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

func (r *PostgresLedgerRepository) Find(ctx context.Context, tgID int64) (*model.Ledger, error) {
	const sqlLedger = `
SELECT zone, times_to_eat
  FROM calorie_ledgers
 WHERE telegram_id = $1;
`
	var (
		zone  *int32
		times []string
	)
	if err := r.pool.QueryRow(ctx, sqlLedger, tgID).Scan(&zone, &times); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		metrics.IncStorageError("find")
		return nil, fmt.Errorf("postgres: querying ledger: %w", err)
	}

	l := &model.Ledger{TelegramID: tgID, ReminderTimes: times}
	if zone != nil {
		z := int(*zone)
		l.Zone = &z
	}

	days, err := r.findDays(ctx, tgID)
	if err != nil {
		metrics.IncStorageError("find")
		return nil, err
	}
	l.Days = days
	return l, nil
}

func (r *PostgresLedgerRepository) findDays(ctx context.Context, tgID int64) ([]model.DayEntry, error) {
	const sqlDays = `
SELECT date, calories
  FROM calorie_days
 WHERE telegram_id = $1
 ORDER BY seq;
`
	rows, err := r.pool.Query(ctx, sqlDays, tgID)
	if err != nil {
		return nil, fmt.Errorf("postgres: querying days: %w", err)
	}
	defer rows.Close()

	var days []model.DayEntry
	for rows.Next() {
		var (
			date string
			cals []int32
		)
		if err := rows.Scan(&date, &cals); err != nil {
			return nil, fmt.Errorf("postgres: scanning day: %w", err)
		}
		vals := make([]int, len(cals))
		for i, v := range cals {
			vals[i] = int(v)
		}
		days = append(days, model.DayEntry{Date: date, Calories: vals})
	}
	return days, rows.Err()
}

// Save rewrites the whole record in one transaction, mirroring the file
// backend's full-record semantics.
func (r *PostgresLedgerRepository) Save(ctx context.Context, l *model.Ledger) error {
	err := r.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		const upsert = `
INSERT INTO calorie_ledgers (telegram_id, zone, times_to_eat)
VALUES ($1, $2, $3)
ON CONFLICT (telegram_id) DO UPDATE
  SET zone         = EXCLUDED.zone,
      times_to_eat = EXCLUDED.times_to_eat;
`
		var zone *int32
		if l.Zone != nil {
			z := int32(*l.Zone)
			zone = &z
		}
		times := l.ReminderTimes
		if times == nil {
			times = []string{}
		}
		if _, err := tx.Exec(ctx, upsert, l.TelegramID, zone, times); err != nil {
			return fmt.Errorf("upsert ledger: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM calorie_days WHERE telegram_id = $1;`, l.TelegramID); err != nil {
			return fmt.Errorf("clear days: %w", err)
		}
		const insertDay = `
INSERT INTO calorie_days (telegram_id, seq, date, calories)
VALUES ($1, $2, $3, $4);
`
		for seq, d := range l.Days {
			cals := make([]int32, len(d.Calories))
			for i, v := range d.Calories {
				cals[i] = int32(v)
			}
			if _, err := tx.Exec(ctx, insertDay, l.TelegramID, seq, d.Date, cals); err != nil {
				return fmt.Errorf("insert day %s: %w", d.Date, err)
			}
		}
		return nil
	})
	if err != nil {
		metrics.IncStorageError("save")
		return fmt.Errorf("postgres: saving ledger: %w", err)
	}
	return nil
}

func (r *PostgresLedgerRepository) Delete(ctx context.Context, tgID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM calorie_ledgers WHERE telegram_id = $1;`, tgID); err != nil {
		metrics.IncStorageError("delete")
		return fmt.Errorf("postgres: deleting ledger: %w", err)
	}
	return nil
}

func (r *PostgresLedgerRepository) All(ctx context.Context) ([]*model.Ledger, error) {
	const sqlAll = `SELECT telegram_id FROM calorie_ledgers ORDER BY telegram_id;`
	rows, err := r.pool.Query(ctx, sqlAll)
	if err != nil {
		metrics.IncStorageError("all")
		return nil, fmt.Errorf("postgres: listing ledgers: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*model.Ledger, 0, len(ids))
	for _, id := range ids {
		l, err := r.Find(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
