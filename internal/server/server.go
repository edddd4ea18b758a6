package server

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	html "github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"nexusshop/internal/config"
	"nexusshop/internal/http/handlers"
	applog "nexusshop/internal/log"
	"nexusshop/internal/mail"
	"nexusshop/internal/repos"
)

// bodyLimit leaves room for a product image plus form fields.
const bodyLimit = 6 << 20

// ErrorHandler renders a friendly page and never echoes internal errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	msg := "Something went wrong. Please try again."
	switch code {
	case fiber.StatusNotFound:
		msg = "Page not found"
	case fiber.StatusRequestEntityTooLarge:
		msg = "That upload is too large."
	case fiber.StatusInternalServerError:
		applog.Error(c, "server.error", err, nil)
	default:
		applog.Info(c, "server.reject", map[string]any{"err": err.Error()})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

// New assembles the storefront. The returned storage backs sessions and is
// what the sweep job prunes.
func New(cfg config.Config, db *sqlx.DB, sender mail.Sender) (*fiber.App, *repos.SessionStorage) {
	engine := html.New(cfg.TemplatesDir, ".html")

	app := fiber.New(fiber.Config{
		Views:                 engine,
		BodyLimit:             bodyLimit,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	storage := repos.NewSessionStorage(db)
	store := session.New(session.Config{
		Storage:        storage,
		Expiration:     cfg.SessionTTL,
		KeyLookup:      "cookie:sid",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		KeyGenerator:   uuid.NewString,
	})

	deps := handlers.NewDeps(db, cfg, sender)

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{
				"Message": "Security check failed. Please refresh and try again.",
			})
		},
	}))
	app.Use(handlers.Sessions(store))
	app.Use(handlers.LoadUser(deps.Auth))
	app.Use(handlers.CartCount(deps.Cart))

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if abs, err := filepath.Abs(mediaDir); err == nil {
		mediaDir = abs
	}
	app.Static("/static", cfg.StaticDir)
	app.Get("/media/*", mediaHandler(mediaDir))

	// ---------- Catalog ----------
	cat := deps.CatalogHandler
	app.Get("/", cat.Home)
	app.Get("/products", cat.Products)
	app.Get("/products/:id", cat.Detail)
	app.Get("/categories", cat.Categories)
	app.Get("/category/:slug", cat.Category)

	// ---------- Info pages ----------
	pages := deps.PageHandler
	app.Get("/about", handlers.Static("about"))
	app.Get("/faq", handlers.Static("faq"))
	app.Get("/return-policy", handlers.Static("return_policy"))
	app.Get("/shipping-info", handlers.Static("shipping_info"))
	app.Get("/contact", pages.ContactForm)
	app.Post("/contact", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.contact.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many messages. Please try again later.")
		},
	}), pages.SendContact)
	app.Post("/subscribe", pages.Subscribe)

	// ---------- Auth ----------
	auth := deps.AuthHandler
	app.Get("/login", auth.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), auth.Login)
	app.Get("/register", auth.RegisterForm)
	app.Post("/register", auth.Register)
	app.Post("/logout", auth.Logout)
	app.Get("/dashboard", handlers.RequireUser(), auth.Dashboard)

	// ---------- Seller ----------
	sh := deps.SellerHandler
	seller := app.Group("/seller", handlers.RequireSeller())
	seller.Get("/dashboard", sh.Dashboard)
	seller.Get("/add-product", sh.AddProductForm)
	seller.Post("/add-product", sh.AddProduct)
	seller.Get("/profile", sh.ProfileForm)
	seller.Post("/profile", sh.CreateProfile)

	// ---------- Cart ----------
	ch := deps.CartHandler
	app.Get("/cart", ch.View)
	app.Post("/cart", ch.Add)
	app.Post("/cart/update", ch.Update)
	app.Post("/cart/remove", ch.Remove)
	app.Post("/cart/clear", ch.Clear)
	app.Get("/api/v1/cart/count", ch.Count)

	// ---------- Health & 404 ----------
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	return app, storage
}

// mediaHandler serves uploads from dir and refuses anything that could
// escape it.
func mediaHandler(dir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Params("*")
		lower := strings.ToLower(path)
		if strings.Contains(lower, "..") || strings.Contains(lower, "%2e") || strings.Contains(lower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(dir, clean), true)
	}
}
