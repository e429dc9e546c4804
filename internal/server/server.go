// Package server exposes the storefront over HTTP.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tokodemo/storefront/internal/cart"
	"github.com/tokodemo/storefront/internal/chat"
	"github.com/tokodemo/storefront/internal/checkout"
	"github.com/tokodemo/storefront/internal/menu"
	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories"
)

type Server struct {
	catalog   repositories.CatalogRepository
	stores    repositories.StoreRepository
	orders    repositories.OrderRepository
	menus     *menu.Service
	carts     *cart.Manager
	checkout  *checkout.Service
	assistant *chat.Assistant
	policy    models.MenuPolicy
	loc       *time.Location
	log       *logrus.Logger
}

type Options struct {
	Catalog   repositories.CatalogRepository
	Stores    repositories.StoreRepository
	Orders    repositories.OrderRepository
	Menus     *menu.Service
	Carts     *cart.Manager
	Checkout  *checkout.Service
	Assistant *chat.Assistant
	Policy    models.MenuPolicy
	Location  *time.Location
	Log       *logrus.Logger
}

func New(opts Options) *Server {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Server{
		catalog:   opts.Catalog,
		stores:    opts.Stores,
		orders:    opts.Orders,
		menus:     opts.Menus,
		carts:     opts.Carts,
		checkout:  opts.Checkout,
		assistant: opts.Assistant,
		policy:    opts.Policy,
		loc:       loc,
		log:       opts.Log,
	}
}

// Router builds the gin engine with all storefront routes mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", s.health)

	api := r.Group("/api")
	{
		api.GET("/products", s.listProducts)

		api.POST("/cart", s.newCart)
		api.GET("/cart/:token", s.getCart)
		api.POST("/cart/:token/items", s.addCartItem)
		api.DELETE("/cart/:token/items/:index", s.removeCartItem)
		api.DELETE("/cart/:token", s.clearCart)

		api.POST("/checkout/:token", s.placeOrder)
		api.GET("/orders", s.listOrders)
		api.GET("/orders/:id", s.getOrder)

		api.GET("/stores", s.listStores)

		api.GET("/menu/today", s.todayMenu)
		api.GET("/menu/:date", s.menuByDate)
		api.POST("/menu/:date/regenerate", s.regenerateMenu)

		api.POST("/chat", s.chatReply)
	}
	return r
}
