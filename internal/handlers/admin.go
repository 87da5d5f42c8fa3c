package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/kithulovali/kfc-ordering/internal/catalog"
	"github.com/kithulovali/kfc-ordering/internal/validation"
)

// staffOnly rejects requests without the shared staff key. With no key
// configured the admin surface is disabled entirely.
func staffOnly(staffKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if staffKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin_disabled"})
			return
		}
		if c.GetHeader("X-Staff-Key") != staffKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func registerAdminRoutes(r *gin.Engine, cfg Config, v *validatorv10.Validate) {
	admin := r.Group("/admin", staffOnly(cfg.StaffKey))

	admin.POST("/products", func(c *gin.Context) {
		var req validation.ProductUpsertRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		p := &catalog.Product{
			ProductID:     uuid.NewString(),
			Name:          req.Name,
			Description:   req.Description,
			Category:      req.Category,
			Price:         req.Price,
			StockQuantity: req.StockQuantity,
			IsAvailable:   req.IsAvailable,
		}
		if err := cfg.Products.Save(c.Request.Context(), p); err != nil {
			log.Printf("[admin] create product failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save_failed"})
			return
		}
		c.JSON(http.StatusCreated, p)
	})

	admin.PUT("/products/:productID", func(c *gin.Context) {
		ctx := c.Request.Context()
		var req validation.ProductUpsertRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		p, err := cfg.Products.Get(ctx, c.Param("productID"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
			return
		}
		if p == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		p.Name = req.Name
		p.Description = req.Description
		p.Category = req.Category
		p.Price = req.Price
		p.StockQuantity = req.StockQuantity
		p.IsAvailable = req.IsAvailable
		if err := cfg.Products.Save(ctx, p); err != nil {
			log.Printf("[admin] update product %s failed: %v", p.ProductID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save_failed"})
			return
		}
		c.JSON(http.StatusOK, p)
	})

	// Manual override writes the status directly. It can interleave with the
	// progression engine; the most recent write wins.
	admin.POST("/orders/:orderID/status", func(c *gin.Context) {
		ctx := c.Request.Context()
		var req validation.StatusOverrideRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		orderID := c.Param("orderID")
		if err := cfg.Orders.SetStatus(ctx, orderID, req.Status); err != nil {
			log.Printf("[admin] status override for %s failed: %v", orderID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "override_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": orderID, "status": req.Status})
	})
}
