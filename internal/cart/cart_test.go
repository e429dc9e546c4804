package cart

import (
	"errors"
	"testing"

	"github.com/tokodemo/storefront/internal/models"
)

func line(variantID int64, price int64, qty int) models.CartItem {
	return models.CartItem{
		ProductID:   variantID,
		VariantID:   variantID,
		Name:        "Product",
		VariantName: "Regular",
		Price:       price,
		Qty:         qty,
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	m := NewManager()
	a := m.NewSession()
	b := m.NewSession()
	if a.Token == b.Token {
		t.Fatal("two sessions share a token")
	}

	if _, err := m.AddItem(a.Token, line(1, 10000, 2)); err != nil {
		t.Fatal(err)
	}

	got, err := m.Get(b.Token)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("session b sees %d items added to session a", len(got.Items))
	}
}

func TestAddAndTotal(t *testing.T) {
	m := NewManager()
	sess := m.NewSession()

	if _, err := m.AddItem(sess.Token, line(1, 10000, 2)); err != nil {
		t.Fatal(err)
	}
	c, err := m.AddItem(sess.Token, line(2, 5000, 3))
	if err != nil {
		t.Fatal(err)
	}
	if c.Total() != 2*10000+3*5000 {
		t.Fatalf("total = %d, want 35000", c.Total())
	}
}

func TestAddRejectsNonPositiveQty(t *testing.T) {
	m := NewManager()
	sess := m.NewSession()
	if _, err := m.AddItem(sess.Token, line(1, 10000, 0)); err == nil {
		t.Fatal("qty 0 should be rejected")
	}
	if _, err := m.AddItem(sess.Token, line(1, 10000, -1)); err == nil {
		t.Fatal("negative qty should be rejected")
	}
}

func TestRemoveItem(t *testing.T) {
	m := NewManager()
	sess := m.NewSession()
	m.AddItem(sess.Token, line(1, 10000, 1))
	m.AddItem(sess.Token, line(2, 20000, 1))
	m.AddItem(sess.Token, line(3, 30000, 1))

	c, err := m.RemoveItem(sess.Token, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Items) != 2 {
		t.Fatalf("expected 2 items after removal, got %d", len(c.Items))
	}
	if c.Items[0].VariantID != 1 || c.Items[1].VariantID != 3 {
		t.Fatalf("removal broke line order: %+v", c.Items)
	}

	if _, err := m.RemoveItem(sess.Token, 5); err == nil {
		t.Fatal("out-of-range index should be rejected")
	}
}

func TestClear(t *testing.T) {
	m := NewManager()
	sess := m.NewSession()
	m.AddItem(sess.Token, line(1, 10000, 1))

	if err := m.Clear(sess.Token); err != nil {
		t.Fatal(err)
	}
	c, err := m.Get(sess.Token)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Items) != 0 || c.Total() != 0 {
		t.Fatalf("cart not empty after clear: %+v", c.Items)
	}
}

func TestUnknownToken(t *testing.T) {
	m := NewManager()
	if _, err := m.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := m.AddItem("nope", line(1, 10000, 1)); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := m.Clear("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
