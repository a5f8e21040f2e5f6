package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/booknest/booknest/internal/core/domain"
)

func newPaidFixture(t *testing.T) (*PaymentService, *domain.Order) {
	t.Helper()
	repo := newStubOrderRepo()
	order, err := repo.Insert(context.Background(), &domain.Order{
		BookID: "b1", CustomerEmail: "ana@example.com",
		Status: domain.OrderPending, PaymentStatus: domain.PaymentUnpaid,
		PlacedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("insert order: %v", err)
	}
	return NewPaymentService(repo), order
}

func TestPaymentService_SessionRoundTrip(t *testing.T) {
	svc, order := newPaidFixture(t)

	session, err := svc.CreateSession(context.Background(), order.ID, "ana@example.com",
		"http://localhost:3000/payment/success?order_id="+order.ID,
		"http://localhost:3000/payment/cancel?order_id="+order.ID,
	)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if !strings.HasPrefix(session.SessionID, "cs_") {
		t.Fatalf("session id = %q", session.SessionID)
	}

	u, err := url.Parse(session.RedirectURL)
	if err != nil {
		t.Fatalf("redirect url: %v", err)
	}
	if u.Query().Get("session_id") != session.SessionID {
		t.Fatalf("redirect must carry the session id: %s", session.RedirectURL)
	}

	paid, err := svc.Confirm(context.Background(), order.ID, session.SessionID, "ana@example.com")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if paid.PaymentStatus != domain.PaymentPaid {
		t.Fatalf("payment status = %s", paid.PaymentStatus)
	}

	// A replayed confirmation is a no-op, not an error.
	again, err := svc.Confirm(context.Background(), order.ID, session.SessionID, "ana@example.com")
	if err != nil || again.PaymentStatus != domain.PaymentPaid {
		t.Fatalf("replayed confirm: %v, %+v", err, again)
	}
}

func TestPaymentService_Confirm_UnknownSession(t *testing.T) {
	svc, order := newPaidFixture(t)

	if _, err := svc.Confirm(context.Background(), order.ID, "cs_forged", "ana@example.com"); !errors.Is(err, ErrUnknownSession) {
		t.Fatalf("expected ErrUnknownSession, got %v", err)
	}
}

func TestPaymentService_StrangerCannotPay(t *testing.T) {
	svc, order := newPaidFixture(t)

	if _, err := svc.CreateSession(context.Background(), order.ID, "rival@example.com", "http://x/s", "http://x/c"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
