package domain

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Slug        string `db:"slug"`
	Description string `db:"description"`
	Image       string `db:"image"`
}

type Product struct {
	ID           int64           `db:"id"`
	SellerID     int64           `db:"seller_id"`
	CategoryID   sql.NullInt64   `db:"category_id"`
	CategoryName string          `db:"category_name"`
	CategorySlug string          `db:"category_slug"`
	Name         string          `db:"name"`
	Slug         string          `db:"slug"`
	Description  string          `db:"description"`
	Price        decimal.Decimal `db:"price"`
	Image        string          `db:"image"`
	Stock        int             `db:"stock"`
	CreatedAt    string          `db:"created_at"`
}

// PriceText renders the price with its two fixed fractional digits.
func (p Product) PriceText() string { return p.Price.StringFixed(2) }

func (p Product) InStock() bool { return p.Stock > 0 }

type Subscriber struct {
	ID           int64  `db:"id"`
	Email        string `db:"email"`
	SubscribedAt string `db:"subscribed_at"`
}
