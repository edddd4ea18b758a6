package handlers

import (
	"github.com/jmoiron/sqlx"

	"nexusshop/internal/config"
	"nexusshop/internal/mail"
	"nexusshop/internal/repos"
	"nexusshop/internal/services"
)

type Deps struct {
	Auth    *services.AuthService
	Cart    *services.CartService
	Catalog *services.CatalogService

	AuthHandler    *AuthHandler
	CatalogHandler *CatalogHandler
	CartHandler    *CartHandler
	SellerHandler  *SellerHandler
	PageHandler    *PageHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, sender mail.Sender) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	userRepo := repos.NewUserRepo(db)
	profRepo := repos.NewSellerProfileRepo(db)
	subRepo := repos.NewSubscriberRepo(db)

	authSvc := services.NewAuthService(userRepo, profRepo)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(prodRepo)
	sellerSvc := services.NewSellerService(catRepo, prodRepo)

	return &Deps{
		Auth:    authSvc,
		Cart:    cartSvc,
		Catalog: catalogSvc,

		AuthHandler:    &AuthHandler{Auth: authSvc},
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		SellerHandler: &SellerHandler{
			Auth: authSvc, Seller: sellerSvc, Catalog: catalogSvc, MediaDir: cfg.MediaDir,
		},
		PageHandler: &PageHandler{
			Contact: services.NewContactService(sender, cfg.ContactTo),
			Subs:    services.NewSubscriptionService(subRepo),
		},
	}
}
