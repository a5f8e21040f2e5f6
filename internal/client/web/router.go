package web

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/booknest/booknest/internal/client/bookstore"
	"github.com/booknest/booknest/internal/client/imagehost"
	"github.com/booknest/booknest/internal/client/query"
	"github.com/booknest/booknest/internal/client/roles"
	"github.com/booknest/booknest/internal/client/session"
	"github.com/booknest/booknest/internal/core/domain"
)

// RouterDeps carries everything the route surface needs.
type RouterDeps struct {
	Queries   *query.Queries
	API       *bookstore.Client
	Session   *session.Session
	Resolver  *roles.Resolver
	Images    *imagehost.Client
	PublicURL string
	Log       zerolog.Logger
}

// NewRouter builds the Echo instance with every view registered behind its
// access rule.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("booknest"))

	// --- Handlers ---
	catalog := NewCatalogHandler(deps.Queries, deps.API, deps.Resolver)
	orders := NewOrdersHandler(deps.Queries, deps.API)
	wishlist := NewWishlistHandler(deps.Queries, deps.API)
	reviews := NewReviewsHandler(deps.Queries, deps.API)
	account := NewAccountHandler(deps.Session, deps.Resolver)
	admin := NewAdminHandler(deps.Queries, deps.API, deps.Resolver)
	upload := NewUploadHandler(deps.Images)
	payment := NewPaymentHandler(deps.Queries, deps.API, deps.PublicURL)

	// --- Access rules ---
	signedIn := Guard(deps.Session, deps.Resolver)
	librarian := Guard(deps.Session, deps.Resolver, domain.RoleLibrarian, domain.RoleAdmin)
	adminOnly := Guard(deps.Session, deps.Resolver, domain.RoleAdmin)

	// --- Public catalog ---
	e.GET("/", catalog.Browse)
	e.GET("/books/:id", catalog.Detail)

	// --- Account (never guarded: the guard redirects here) ---
	e.GET(SignInPath, account.SignInPage)
	e.POST(SignInPath, account.SignIn)
	e.POST("/signup", account.SignUp)
	e.POST("/signout", account.SignOut)
	e.GET("/auth/google", account.FederatedStart)
	e.GET("/auth/callback", account.FederatedCallback)

	// --- Signed-in surface ---
	e.GET("/profile", account.Profile, signedIn)
	e.PUT("/profile", account.UpdateProfile, signedIn)
	e.GET("/orders", orders.List, signedIn)
	e.POST("/orders", orders.Place, signedIn)
	e.POST("/orders/:id/cancel", orders.Cancel, signedIn)
	e.GET("/orders/:id/invoice", orders.Invoice, signedIn)
	e.GET("/wishlist", wishlist.List, signedIn)
	e.POST("/wishlist", wishlist.Add, signedIn)
	e.DELETE("/wishlist/:id", wishlist.Remove, signedIn)
	e.POST("/books/:id/reviews", reviews.Post, signedIn)

	// --- Payments ---
	e.POST("/orders/:id/pay", payment.Start, signedIn)
	e.GET("/payment/success", payment.Success, signedIn)
	e.GET("/payment/cancel", payment.Cancel, signedIn)

	// --- Dashboard (role gated) ---
	e.GET("/dashboard", admin.Home, librarian)
	e.GET("/dashboard/inventory", catalog.Inventory, librarian)
	e.POST("/dashboard/books", catalog.Create, librarian)
	e.PUT("/dashboard/books/:id", catalog.Update, librarian)
	e.DELETE("/dashboard/books/:id", catalog.Delete, librarian)
	e.GET("/dashboard/orders", orders.Manage, librarian)
	e.PATCH("/dashboard/orders/:id/status", orders.UpdateStatus, librarian)
	e.POST("/dashboard/uploads", upload.Upload, librarian)
	e.GET("/dashboard/users", admin.Users, adminOnly)
	e.PATCH("/dashboard/users/:email/role", admin.SetRole, adminOnly)
	e.GET("/dashboard/stats", admin.Stats, adminOnly)

	// --- Operational ---
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
