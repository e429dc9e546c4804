// Package cart holds per-session shopping carts. Sessions are identified by
// opaque tokens; there is no process-global cart state.
package cart

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/tokodemo/storefront/internal/models"
)

var ErrSessionNotFound = errors.New("cart session not found")

type Cart struct {
	Token string            `json:"token"`
	Items []models.CartItem `json:"items"`
}

// Total sums price*qty across all lines.
func (c *Cart) Total() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.Subtotal()
	}
	return total
}

type Manager struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewManager() *Manager {
	return &Manager{carts: make(map[string]*Cart)}
}

// NewSession creates an empty cart and returns its token.
func (m *Manager) NewSession() *Cart {
	c := &Cart{Token: uuid.New().String()}
	m.mu.Lock()
	m.carts[c.Token] = c
	m.mu.Unlock()
	return c
}

// Get returns a snapshot of the session's cart.
func (m *Manager) Get(token string) (Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[token]
	if !ok {
		return Cart{}, ErrSessionNotFound
	}
	out := Cart{Token: c.Token, Items: append([]models.CartItem(nil), c.Items...)}
	return out, nil
}

// AddItem appends a line to the session's cart.
func (m *Manager) AddItem(token string, item models.CartItem) (Cart, error) {
	if item.Qty <= 0 {
		return Cart{}, errors.New("cart item qty must be positive")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[token]
	if !ok {
		return Cart{}, ErrSessionNotFound
	}
	c.Items = append(c.Items, item)
	return Cart{Token: c.Token, Items: append([]models.CartItem(nil), c.Items...)}, nil
}

// RemoveItem deletes the line at index, preserving order of the rest.
func (m *Manager) RemoveItem(token string, index int) (Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[token]
	if !ok {
		return Cart{}, ErrSessionNotFound
	}
	if index < 0 || index >= len(c.Items) {
		return Cart{}, errors.New("cart item index out of range")
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return Cart{Token: c.Token, Items: append([]models.CartItem(nil), c.Items...)}, nil
}

// Clear empties the session's cart after a successful checkout.
func (m *Manager) Clear(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[token]
	if !ok {
		return ErrSessionNotFound
	}
	c.Items = nil
	return nil
}
