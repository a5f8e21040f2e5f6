package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"sync"

	"github.com/booknest/booknest/internal/core/domain"
	"github.com/booknest/booknest/internal/core/ports"
)

// ErrUnknownSession is returned when payment confirmation does not match an
// open checkout session.
var ErrUnknownSession = fmt.Errorf("unknown checkout session: %w", domain.ErrForbidden)

// PaymentService simulates a hosted payment provider for development: it
// issues a session, sends the buyer straight to the success URL, and marks
// the order paid on confirmation. Sessions live in memory and die with the
// process.
type PaymentService struct {
	orders ports.OrderRepository

	mu       sync.Mutex
	sessions map[string]string // order ID -> open session ID
}

func NewPaymentService(orders ports.OrderRepository) *PaymentService {
	return &PaymentService{orders: orders, sessions: make(map[string]string)}
}

func (s *PaymentService) CreateSession(ctx context.Context, orderID, customerEmail, successURL, cancelURL string) (*ports.CheckoutSession, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerEmail != customerEmail {
		return nil, domain.ErrForbidden
	}
	if order.PaymentStatus == domain.PaymentPaid {
		return nil, domain.ErrInvalidTransition
	}

	sessionID, err := newSessionID()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[orderID] = sessionID
	s.mu.Unlock()

	// The simulated provider page is skipped; the redirect goes straight to
	// the success leg with the session attached.
	redirect := successURL
	if u, err := url.Parse(successURL); err == nil {
		q := u.Query()
		q.Set("session_id", sessionID)
		u.RawQuery = q.Encode()
		redirect = u.String()
	}

	return &ports.CheckoutSession{SessionID: sessionID, RedirectURL: redirect}, nil
}

func (s *PaymentService) Confirm(ctx context.Context, orderID, sessionID, customerEmail string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerEmail != customerEmail {
		return nil, domain.ErrForbidden
	}
	if order.PaymentStatus == domain.PaymentPaid {
		// Confirming twice is fine; the first confirmation already settled it.
		return order, nil
	}

	s.mu.Lock()
	open, ok := s.sessions[orderID]
	if ok && open == sessionID {
		delete(s.sessions, orderID)
	}
	s.mu.Unlock()

	if !ok || open != sessionID {
		return nil, ErrUnknownSession
	}
	return s.orders.MarkPaid(ctx, orderID)
}

func newSessionID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return "cs_" + hex.EncodeToString(b[:]), nil
}
