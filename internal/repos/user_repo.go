package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"nexusshop/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, username, email, password_hash, role, phone, address, created_at`

func (r *UserRepo) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE LOWER(username)=LOWER(?)`, username)
	if err != nil {
		return nil, notFound(err, "user by username")
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, notFound(err, "user by id")
	}
	return &u, nil
}

func (r *UserRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE LOWER(username)=LOWER(?)`, username)
	return n > 0, errors.Wrap(err, "username lookup")
}

// Create inserts u and sets its ID. A taken username yields ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	res, err := r.DB.ExecContext(ctx, `
	  INSERT INTO users(username, email, password_hash, role, phone, address)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, u.Username, u.Email, u.Hash, u.Role, u.Phone, u.Address)
	if err != nil {
		if isUnique(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "create user")
	}
	u.ID, err = res.LastInsertId()
	return err
}
