package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tokodemo/storefront/internal/cart"
	"github.com/tokodemo/storefront/internal/checkout"
	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

//
// --------------------------------------------------
// GET /api/products?q=&in_stock=
// --------------------------------------------------
//

func (s *Server) listProducts(c *gin.Context) {
	ctx := c.Request.Context()

	if q := c.Query("q"); q != "" {
		variants, err := s.catalog.SearchVariants(ctx, q, 50)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": variants})
		return
	}

	var (
		variants []models.Variant
		err      error
	)
	if c.Query("in_stock") == "true" {
		variants, err = s.catalog.ListInStockVariants(ctx)
	} else {
		variants, err = s.catalog.ListVariants(ctx)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": variants})
}

//
// --------------------------------------------------
// Cart session endpoints
// --------------------------------------------------
//

func (s *Server) newCart(c *gin.Context) {
	sess := s.carts.NewSession()
	c.JSON(http.StatusCreated, gin.H{"token": sess.Token})
}

func (s *Server) getCart(c *gin.Context) {
	sess, err := s.carts.Get(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": sess.Items, "total": sess.Total()})
}

type addItemRequest struct {
	VariantID int64 `json:"variant_id" binding:"required"`
	Qty       int   `json:"qty" binding:"required"`
}

func (s *Server) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	variant, err := s.findVariant(c, req.VariantID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "variant not found"})
		return
	}
	if variant.Stock < req.Qty {
		c.JSON(http.StatusConflict, gin.H{"error": "not enough stock"})
		return
	}

	sess, err := s.carts.AddItem(c.Param("token"), models.CartItem{
		ProductID:   variant.ProductID,
		VariantID:   variant.VariantID,
		SKU:         variant.SKU,
		Name:        variant.Name,
		VariantName: variant.VariantName,
		Price:       variant.Price,
		Qty:         req.Qty,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, cart.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": sess.Items, "total": sess.Total()})
}

func (s *Server) removeCartItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item index"})
		return
	}
	sess, err := s.carts.RemoveItem(c.Param("token"), index)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, cart.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": sess.Items, "total": sess.Total()})
}

func (s *Server) clearCart(c *gin.Context) {
	if err := s.carts.Clear(c.Param("token")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (s *Server) findVariant(c *gin.Context, variantID int64) (*models.Variant, error) {
	variants, err := s.catalog.ListVariants(c.Request.Context())
	if err != nil {
		return nil, err
	}
	for i := range variants {
		if variants[i].VariantID == variantID {
			return &variants[i], nil
		}
	}
	return nil, repositories.ErrNotFound
}

//
// --------------------------------------------------
// POST /api/checkout/:token
// --------------------------------------------------
//

type checkoutRequest struct {
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerPhone   string `json:"customer_phone" binding:"required"`
	StoreID         *int64 `json:"store_id,omitempty"`
	DeliveryAddress string `json:"delivery_address,omitempty"`
}

func (s *Server) placeOrder(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token := c.Param("token")
	sess, err := s.carts.Get(token)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart session not found"})
		return
	}

	order, err := s.checkout.PlaceOrder(c.Request.Context(), checkout.Request{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		StoreID:         req.StoreID,
		DeliveryAddress: req.DeliveryAddress,
		Items:           sess.Items,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// best-effort; the order already went through
	s.carts.Clear(token)

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.orders.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *Server) getOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	order, err := s.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

//
// --------------------------------------------------
// GET /api/stores
// --------------------------------------------------
//

func (s *Server) listStores(c *gin.Context) {
	stores, err := s.stores.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type storeView struct {
		models.Store
		ResolvedMapsURL string `json:"resolved_maps_url,omitempty"`
	}
	views := make([]storeView, 0, len(stores))
	for _, st := range stores {
		views = append(views, storeView{Store: st, ResolvedMapsURL: st.ResolveMapsURL()})
	}
	c.JSON(http.StatusOK, gin.H{"stores": views})
}

//
// --------------------------------------------------
// Daily menu endpoints
// --------------------------------------------------
//

func (s *Server) todayMenu(c *gin.Context) {
	date := models.MenuDate(time.Now().In(s.loc))
	s.serveMenu(c, date, false)
}

func (s *Server) menuByDate(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(models.MenuDateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	s.serveMenu(c, date, false)
}

func (s *Server) regenerateMenu(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(models.MenuDateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	s.serveMenu(c, date, true)
}

func (s *Server) serveMenu(c *gin.Context, date string, force bool) {
	items, generated, err := s.menus.GetOrCreate(c.Request.Context(), date, force, s.policy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":      date,
		"items":     items,
		"generated": generated,
	})
}

//
// --------------------------------------------------
// POST /api/chat
// --------------------------------------------------
//

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) chatReply(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := s.assistant.Reply(c.Request.Context(), req.Message)
	if err != nil {
		s.log.WithError(err).Error("chat reply failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not answer right now"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
