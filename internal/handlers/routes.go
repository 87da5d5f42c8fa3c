package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kithulovali/kfc-ordering/internal/analysis"
	"github.com/kithulovali/kfc-ordering/internal/cart"
	"github.com/kithulovali/kfc-ordering/internal/catalog"
	"github.com/kithulovali/kfc-ordering/internal/checkout"
	"github.com/kithulovali/kfc-ordering/internal/customers"
	"github.com/kithulovali/kfc-ordering/internal/orders"
	"github.com/kithulovali/kfc-ordering/internal/receipts"
	"github.com/kithulovali/kfc-ordering/internal/validation"
)

const sessionCookie = "kfc_session"

// CartStore is the session cart persistence the handlers need.
// *cart.SessionStore satisfies it.
type CartStore interface {
	Get(ctx context.Context, sessionKey string) (*cart.Cart, error)
	Save(ctx context.Context, sessionKey string, c *cart.Cart) error
	Clear(ctx context.Context, sessionKey string) error
}

// Config groups the dependencies the HTTP layer wires together.
type Config struct {
	Products    *catalog.Store
	Customers   *customers.Store
	Orders      *orders.Store
	Receipts    *receipts.Store
	Carts       CartStore
	Coordinator *checkout.Coordinator

	// StaffKey guards the admin routes; requests must present it in
	// X-Staff-Key. Empty disables the admin surface.
	StaffKey string
}

// identity resolves the caller: authenticated when the gateway forwarded
// user headers, guest keyed by session cookie otherwise. The cookie is
// minted on first sight so the guest cart and guest identity stay stable.
func identity(c *gin.Context) customers.Identity {
	if userID := c.GetHeader("X-User-Id"); userID != "" {
		return customers.Authenticated(userID, c.GetHeader("X-User-Name"), c.GetHeader("X-User-Email"))
	}
	key, err := c.Cookie(sessionCookie)
	if err != nil || key == "" {
		key = uuid.NewString()
		c.SetCookie(sessionCookie, key, 30*24*3600, "/", "", false, true)
	}
	return customers.Guest(key)
}

// sessionKey returns the cart key for the caller: authenticated users get a
// per-user cart, guests the session cart.
func sessionKey(id customers.Identity) string {
	if id.Authenticated {
		return "user-" + id.UserID
	}
	return id.SessionKey
}

func isStaff(c *gin.Context, staffKey string) bool {
	return staffKey != "" && c.GetHeader("X-Staff-Key") == staffKey
}

// Register installs all routes.
func Register(r *gin.Engine, cfg Config) {
	v := validation.New()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/menu", func(c *gin.Context) {
		products, err := cfg.Products.List(c.Request.Context(), c.Query("q"), c.Query("category"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "categories": catalog.Categories})
	})

	r.GET("/cart", func(c *gin.Context) {
		ctx := c.Request.Context()
		crt, err := cfg.Carts.Get(ctx, sessionKey(identity(c)))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart_unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": crt.Items(), "total": crt.Total()})
	})

	r.POST("/cart/items/:productID", func(c *gin.Context) {
		ctx := c.Request.Context()
		var req validation.AddToCartRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		qty := req.Quantity
		if qty == 0 {
			qty = 1
		}

		product, err := cfg.Products.Get(ctx, c.Param("productID"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog_unavailable"})
			return
		}
		if product == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}

		key := sessionKey(identity(c))
		crt, err := cfg.Carts.Get(ctx, key)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart_unavailable"})
			return
		}
		crt.Add(product, qty)
		if err := cfg.Carts.Save(ctx, key, crt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart_save_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": crt.Items(), "total": crt.Total()})
	})

	r.PUT("/cart", func(c *gin.Context) {
		ctx := c.Request.Context()
		var req validation.UpdateCartRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		key := sessionKey(identity(c))
		crt, err := cfg.Carts.Get(ctx, key)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart_unavailable"})
			return
		}
		for productID, qty := range req.Quantities {
			var stock *int
			if product, err := cfg.Products.Get(ctx, productID); err == nil && product != nil {
				stock = &product.StockQuantity
			}
			crt.SetQuantity(productID, qty, stock)
		}
		if err := cfg.Carts.Save(ctx, key, crt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart_save_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": crt.Items(), "total": crt.Total()})
	})

	r.POST("/checkout", func(c *gin.Context) {
		ctx := c.Request.Context()
		var req validation.CheckoutRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		id := identity(c)
		key := sessionKey(id)
		crt, err := cfg.Carts.Get(ctx, key)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart_unavailable"})
			return
		}

		order, err := cfg.Coordinator.Checkout(ctx, crt, id, checkout.Form{
			Phone:               req.Phone,
			Address:             req.Address,
			SpecialInstructions: req.SpecialInstructions,
		})
		if err != nil {
			var insErr *checkout.InsufficientStockError
			switch {
			case errors.Is(err, checkout.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "empty_cart"})
			case errors.As(err, &insErr):
				c.JSON(http.StatusConflict, gin.H{
					"error":              "insufficient_stock",
					"insufficient_lines": insErr.Lines,
				})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout_failed"})
			}
			return
		}

		// the coordinator cleared the in-memory cart; drop the stored copy too
		if err := cfg.Carts.Clear(ctx, key); err != nil {
			_ = cfg.Carts.Save(ctx, key, crt)
		}

		c.JSON(http.StatusCreated, gin.H{
			"order_number": order.OrderNumber,
			"total_amount": order.TotalAmount,
			"status":       order.Status,
		})
	})

	r.GET("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()
		email := c.Query("email")
		if email == "" {
			email = identity(c).KeyEmail()
		}
		list, err := cfg.Orders.ListByCustomer(ctx, email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	})

	r.GET("/orders/:orderNumber", func(c *gin.Context) {
		order, err := cfg.Orders.GetByNumber(c.Request.Context(), c.Param("orderNumber"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusOK, order)
	})

	// polled by the UI to animate progress; pure read
	r.GET("/orders/:orderNumber/status", func(c *gin.Context) {
		order, err := cfg.Orders.GetByNumber(c.Request.Context(), c.Param("orderNumber"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"order_number": order.OrderNumber,
			"status":       order.Status,
			"updated_at":   order.UpdatedAt,
		})
	})

	r.POST("/orders/:orderNumber/cancel", func(c *gin.Context) {
		ctx := c.Request.Context()
		order, err := cfg.Orders.GetByNumber(ctx, c.Param("orderNumber"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		id := identity(c)
		if !isStaff(c, cfg.StaffKey) && order.CustomerEmail != id.KeyEmail() {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		err = cfg.Orders.UpdateStatus(ctx, order.OrderID, orders.StatusPending, orders.StatusCancelled)
		if errors.Is(err, orders.ErrStatusMismatch) {
			c.JSON(http.StatusConflict, gin.H{"error": "not_cancellable", "status": order.Status})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cancel_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_number": order.OrderNumber, "status": orders.StatusCancelled})
	})

	r.GET("/orders/:orderNumber/receipt", func(c *gin.Context) {
		ctx := c.Request.Context()
		order, err := cfg.Orders.GetByNumber(ctx, c.Param("orderNumber"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}

		receipt, err := cfg.Receipts.GetOrCreate(ctx, order, analysis.ReceiptText(order))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "receipt_failed"})
			return
		}

		resp := gin.H{"receipt": receipt, "order_number": order.OrderNumber}
		if cust, err := cfg.Customers.GetByEmail(ctx, order.CustomerEmail); err == nil && cust != nil {
			email := cust.Email
			if customers.IsSyntheticEmail(email) {
				email = ""
			}
			resp["customer"] = gin.H{"name": cust.Name, "phone": cust.Phone, "email": email}
		}
		c.JSON(http.StatusOK, resp)
	})

	r.GET("/customers/:email", func(c *gin.Context) {
		cust, err := cfg.Customers.GetByEmail(c.Request.Context(), c.Param("email"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
			return
		}
		if cust == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusOK, cust)
	})

	registerAdminRoutes(r, cfg, v)
}
