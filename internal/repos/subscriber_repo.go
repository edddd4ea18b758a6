package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type SubscriberRepo struct{ db *sqlx.DB }

func NewSubscriberRepo(db *sqlx.DB) *SubscriberRepo { return &SubscriberRepo{db: db} }

// Upsert records email once. created reports whether a new row was written.
func (r *SubscriberRepo) Upsert(ctx context.Context, email string) (created bool, err error) {
	res, err := r.db.ExecContext(ctx, `
	  INSERT INTO subscribers(email, subscribed_at)
	  VALUES(?, CURRENT_TIMESTAMP)
	  ON CONFLICT(email) DO NOTHING
	`, email)
	if err != nil {
		return false, errors.Wrap(err, "upsert subscriber")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
