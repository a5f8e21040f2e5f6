// Package bookstore is the typed surface over the remote resource client.
// Views never build paths or decode payloads themselves; they call these
// methods through the query cache.
package bookstore

import (
	"context"
	"net/url"

	"github.com/booknest/booknest/internal/client/remote"
	"github.com/booknest/booknest/internal/core/domain"
)

type Client struct {
	rc *remote.Client
}

func New(rc *remote.Client) *Client {
	return &Client{rc: rc}
}

// --- Catalog ---

// BookInput carries the librarian-editable fields of a catalog item.
type BookInput struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
}

// ListBooks returns the published catalog, optionally filtered by category.
func (c *Client) ListBooks(ctx context.Context, category string) ([]domain.Book, error) {
	path := "/v1/books"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var books []domain.Book
	if err := c.rc.GetJSON(ctx, path, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// MyInventory returns the signed-in librarian's own books, published or not.
func (c *Client) MyInventory(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.rc.GetJSON(ctx, "/v1/books/mine", &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) GetBook(ctx context.Context, id string) (domain.Book, error) {
	var book domain.Book
	if err := c.rc.GetJSON(ctx, "/v1/books/"+url.PathEscape(id), &book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (c *Client) CreateBook(ctx context.Context, in BookInput) (domain.Book, error) {
	var book domain.Book
	if err := c.rc.PostJSON(ctx, "/v1/books", in, &book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (c *Client) UpdateBook(ctx context.Context, id string, in BookInput) (domain.Book, error) {
	var book domain.Book
	if err := c.rc.PutJSON(ctx, "/v1/books/"+url.PathEscape(id), in, &book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.rc.DeleteJSON(ctx, "/v1/books/"+url.PathEscape(id), nil)
}

// --- Reviews ---

func (c *Client) ListReviews(ctx context.Context, bookID string) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := c.rc.GetJSON(ctx, "/v1/books/"+url.PathEscape(bookID)+"/reviews", &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) PostReview(ctx context.Context, bookID string, rating int, comment string) (domain.Review, error) {
	in := map[string]any{"rating": rating, "comment": comment}
	var review domain.Review
	if err := c.rc.PostJSON(ctx, "/v1/books/"+url.PathEscape(bookID)+"/reviews", in, &review); err != nil {
		return domain.Review{}, err
	}
	return review, nil
}

// --- Orders ---

// PlaceOrderInput is the buyer's order form.
type PlaceOrderInput struct {
	BookID  string `json:"book_id"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (c *Client) PlaceOrder(ctx context.Context, in PlaceOrderInput) (domain.Order, error) {
	var order domain.Order
	if err := c.rc.PostJSON(ctx, "/v1/orders", in, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// MyOrders returns the signed-in customer's orders; the backend scopes by token.
func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.rc.GetJSON(ctx, "/v1/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AllOrders returns every order, optionally filtered. Librarian/admin only.
func (c *Client) AllOrders(ctx context.Context, status, payment string) ([]domain.Order, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if payment != "" {
		q.Set("payment_status", payment)
	}
	path := "/v1/orders/all"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var orders []domain.Order
	if err := c.rc.GetJSON(ctx, path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) CancelOrder(ctx context.Context, id string) (domain.Order, error) {
	var order domain.Order
	if err := c.rc.PostJSON(ctx, "/v1/orders/"+url.PathEscape(id)+"/cancel", nil, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	in := map[string]string{"status": string(status)}
	var order domain.Order
	if err := c.rc.PatchJSON(ctx, "/v1/orders/"+url.PathEscape(id)+"/status", in, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (c *Client) Invoice(ctx context.Context, orderID string) (domain.Invoice, error) {
	var inv domain.Invoice
	if err := c.rc.GetJSON(ctx, "/v1/orders/"+url.PathEscape(orderID)+"/invoice", &inv); err != nil {
		return domain.Invoice{}, err
	}
	return inv, nil
}

// --- Payments ---

// CheckoutSession is the payment processor hand-off for one order.
type CheckoutSession struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}

func (c *Client) CreateCheckoutSession(ctx context.Context, orderID, successURL, cancelURL string) (CheckoutSession, error) {
	in := map[string]string{
		"order_id":    orderID,
		"success_url": successURL,
		"cancel_url":  cancelURL,
	}
	var cs CheckoutSession
	if err := c.rc.PostJSON(ctx, "/v1/payments/checkout-session", in, &cs); err != nil {
		return CheckoutSession{}, err
	}
	return cs, nil
}

// ConfirmPayment reconciles an order after the processor's success return.
func (c *Client) ConfirmPayment(ctx context.Context, orderID, sessionID string) (domain.Order, error) {
	in := map[string]string{"session_id": sessionID}
	var order domain.Order
	if err := c.rc.PostJSON(ctx, "/v1/orders/"+url.PathEscape(orderID)+"/payment", in, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// --- Wishlist ---

func (c *Client) Wishlist(ctx context.Context) ([]domain.WishlistEntry, error) {
	var entries []domain.WishlistEntry
	if err := c.rc.GetJSON(ctx, "/v1/wishlist", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) AddToWishlist(ctx context.Context, bookID string) (domain.WishlistEntry, error) {
	in := map[string]string{"book_id": bookID}
	var entry domain.WishlistEntry
	if err := c.rc.PostJSON(ctx, "/v1/wishlist", in, &entry); err != nil {
		return domain.WishlistEntry{}, err
	}
	return entry, nil
}

func (c *Client) RemoveFromWishlist(ctx context.Context, entryID string) error {
	return c.rc.DeleteJSON(ctx, "/v1/wishlist/"+url.PathEscape(entryID), nil)
}

// --- Accounts ---

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.rc.GetJSON(ctx, "/v1/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) SetUserRole(ctx context.Context, email string, role domain.Role) (domain.User, error) {
	in := map[string]string{"role": string(role)}
	var user domain.User
	if err := c.rc.PatchJSON(ctx, "/v1/users/"+url.PathEscape(email)+"/role", in, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// FetchRole resolves the signed-in account's authorization role.
func (c *Client) FetchRole(ctx context.Context) (domain.Role, error) {
	var out struct {
		Role domain.Role `json:"role"`
	}
	if err := c.rc.GetJSON(ctx, "/v1/users/me/role", &out); err != nil {
		return "", err
	}
	return out.Role, nil
}

// --- Stats ---

// Stats is the admin dashboard aggregate.
type Stats struct {
	Books      int64   `json:"books"`
	Orders     int64   `json:"orders"`
	Users      int64   `json:"users"`
	Reviews    int64   `json:"reviews"`
	Revenue    float64 `json:"revenue"`
	PaidOrders int64   `json:"paid_orders"`
}

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	if err := c.rc.GetJSON(ctx, "/v1/stats", &s); err != nil {
		return Stats{}, err
	}
	return s, nil
}
