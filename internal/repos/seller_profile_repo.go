package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"nexusshop/internal/domain"
)

type SellerProfileRepo struct{ db *sqlx.DB }

func NewSellerProfileRepo(db *sqlx.DB) *SellerProfileRepo { return &SellerProfileRepo{db: db} }

func (r *SellerProfileRepo) ByUser(ctx context.Context, userID int64) (domain.SellerProfile, error) {
	var p domain.SellerProfile
	err := r.db.GetContext(ctx, &p, `
	  SELECT id, user_id, store_name, bio, approved
	  FROM seller_profiles WHERE user_id = ?`, userID)
	if err != nil {
		return domain.SellerProfile{}, notFound(err, "seller profile")
	}
	return p, nil
}

// Create stores a profile; a second profile for the same user is ErrDuplicate.
func (r *SellerProfileRepo) Create(ctx context.Context, p *domain.SellerProfile) error {
	res, err := r.db.ExecContext(ctx, `
	  INSERT INTO seller_profiles(user_id, store_name, bio, approved)
	  VALUES(?, ?, ?, ?)
	`, p.UserID, p.StoreName, p.Bio, p.Approved)
	if err != nil {
		if isUnique(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "create seller profile")
	}
	p.ID, err = res.LastInsertId()
	return err
}
