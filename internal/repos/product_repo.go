package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"nexusshop/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productSelect = `
  SELECT
    p.id, p.seller_id, p.category_id,
    COALESCE(c.name,'') AS category_name, COALESCE(c.slug,'') AS category_slug,
    p.name, p.slug, p.description, p.price, p.image, p.stock, p.created_at
  FROM products p
  LEFT JOIN categories c ON c.id = p.category_id
`

// Featured returns in-stock products, oldest first.
func (r *ProductRepo) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, productSelect+`
  WHERE p.stock > 0
  ORDER BY p.id
  LIMIT ?`, limit)
	return out, errors.Wrap(err, "featured products")
}

func (r *ProductRepo) All(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, productSelect+`ORDER BY p.id`)
	return out, errors.Wrap(err, "all products")
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	if err := r.db.GetContext(ctx, &p, productSelect+`WHERE p.id = ?`, id); err != nil {
		return domain.Product{}, notFound(err, "get product")
	}
	return p, nil
}

func (r *ProductRepo) ByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, productSelect+`
  WHERE p.category_id = ?
  ORDER BY p.id`, categoryID)
	return out, errors.Wrap(err, "products by category")
}

func (r *ProductRepo) BySeller(ctx context.Context, sellerID int64) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, productSelect+`
  WHERE p.seller_id = ?
  ORDER BY p.created_at DESC, p.id DESC`, sellerID)
	return out, errors.Wrap(err, "products by seller")
}

// ByIDs loads the listed products keyed by id; missing ids are absent.
func (r *ProductRepo) ByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	out := map[int64]domain.Product{}
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(productSelect+`WHERE p.id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []domain.Product
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "products by ids")
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products WHERE slug = ?`, slug)
	return n > 0, errors.Wrap(err, "product slug lookup")
}

// Create inserts p and sets its ID. The price is written with two decimals.
func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
	  INSERT INTO products(seller_id, category_id, name, slug, description, price, image, stock)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, p.SellerID, p.CategoryID, p.Name, p.Slug, p.Description, p.Price.StringFixed(2), p.Image, p.Stock)
	if err != nil {
		if isUnique(err) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "create product")
	}
	p.ID, err = res.LastInsertId()
	return err
}
