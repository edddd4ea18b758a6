package repos

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"nexusshop/internal/repos/migrations"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "Passw0rd!"

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, err
	}
	// One connection: keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db.DB); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}
	// Idempotent; safe to run every start.
	if err := seed(db); err != nil {
		return nil, errors.Wrap(err, "seed")
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}

// notFound maps sql.ErrNoRows to ErrNotFound and wraps anything else.
func notFound(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func isUnique(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func seed(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	cats := []struct{ Name, Slug, Desc string }{
		{"Electronics", "electronics", "Gadgets, audio and wearables"},
		{"Fashion", "fashion", "Clothing and accessories"},
		{"Home & Kitchen", "home-kitchen", "Everything for the home"},
	}
	for _, c := range cats {
		if _, err := tx.Exec(`
			INSERT INTO categories(name, slug, description)
			VALUES(?, ?, ?)
			ON CONFLICT(slug) DO NOTHING
		`, c.Name, c.Slug, c.Desc); err != nil {
			return err
		}
	}

	users := []struct {
		Username, Email, Role string
	}{
		{"admin", "admin@example.com", "seller"},
		{"seller1", "seller@example.com", "seller"},
		{"buyer1", "buyer@example.com", "buyer"},
	}
	for _, u := range users {
		var n int
		if err := tx.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(username)=LOWER(?)`, u.Username); err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		h, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO users(username,email,password_hash,role) VALUES(?,?,?,?)`,
			u.Username, u.Email, string(h), u.Role); err != nil {
			return err
		}
		zap.L().Info("seed.user", zap.String("username", u.Username))
	}

	products := []struct {
		Seller, Category, Name, Slug, Desc, Price, Image string
		Stock                                            int
	}{
		{"seller1", "electronics", "Wireless Headphones", "wireless-headphones",
			"Premium noise-cancelling headphones", "199.99", "products/headphones.jpg", 50},
		{"admin", "electronics", "Smart Watch", "smart-watch",
			"Latest smart watch with health monitoring", "249.99", "products/smartwatch.jpg", 30},
	}
	for _, p := range products {
		if _, err := tx.Exec(`
			INSERT INTO products(seller_id, category_id, name, slug, description, price, image, stock)
			SELECT u.id, c.id, ?, ?, ?, ?, ?, ?
			FROM users u, categories c
			WHERE LOWER(u.username) = LOWER(?) AND c.slug = ?
			  AND NOT EXISTS (SELECT 1 FROM products WHERE slug = ?)
		`, p.Name, p.Slug, p.Desc, p.Price, p.Image, p.Stock, p.Seller, p.Category, p.Slug); err != nil {
			return err
		}
	}

	return tx.Commit()
}
