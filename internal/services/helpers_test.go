package services_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"nexusshop/internal/domain"
	"nexusshop/internal/mail"
	"nexusshop/internal/repos"
	"nexusshop/internal/services"
)

// mapStore stands in for a Fiber session.
type mapStore map[string]interface{}

func (m mapStore) Get(key string) interface{}      { return m[key] }
func (m mapStore) Set(key string, val interface{}) { m[key] = val }
func (m mapStore) Delete(key string)               { delete(m, key) }

type env struct {
	db      *sqlx.DB
	catalog *services.CatalogService
	cart    *services.CartService
	auth    *services.AuthService
	seller  *services.SellerService
	subs    *services.SubscriptionService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cats := repos.NewCategoryRepo(db)
	prods := repos.NewProductRepo(db)
	auth := services.NewAuthService(repos.NewUserRepo(db), repos.NewSellerProfileRepo(db))
	auth.Cost = bcrypt.MinCost
	return &env{
		db:      db,
		catalog: services.NewCatalogService(cats, prods),
		cart:    services.NewCartService(prods),
		auth:    auth,
		seller:  services.NewSellerService(cats, prods),
		subs:    services.NewSubscriptionService(repos.NewSubscriberRepo(db)),
	}
}

func (e *env) user(t *testing.T, username string) *domain.User {
	t.Helper()
	u, err := e.auth.Users.ByUsername(context.Background(), username)
	require.NoError(t, err)
	return u
}

func (e *env) category(t *testing.T, slug string) domain.Category {
	t.Helper()
	c, err := e.catalog.Cats.BySlug(context.Background(), slug)
	require.NoError(t, err)
	return c
}

// insertProduct writes a product with a fixed id straight to the table.
func (e *env) insertProduct(t *testing.T, id int64, name string, stock int) {
	t.Helper()
	seller := e.user(t, "seller1")
	cat := e.category(t, "fashion")
	_, err := e.db.Exec(`
		INSERT INTO products(id, seller_id, category_id, name, slug, description, price, image, stock)
		VALUES(?, ?, ?, ?, ?, 'desc', '10.00', 'products/x.jpg', ?)`,
		id, seller.ID, cat.ID, name, name, stock)
	require.NoError(t, err)
}

type fakeSender struct {
	sent []mail.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}
