package adminapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/inventory"
	"github.com/stocklane/stocklane/internal/webserver"
	"github.com/stocklane/stocklane/pkg/common"
	"gorm.io/gorm"
)

type productPayload struct {
	Name          string  `json:"name" form:"name"`
	Sku           string  `json:"sku" form:"sku"`
	Description   string  `json:"description" form:"description"`
	CategoryID    int64   `json:"category_id,string" form:"category_id"`
	SupplierID    int64   `json:"supplier_id,string" form:"supplier_id"`
	Price         float64 `json:"price" form:"price"`
	CostPrice     float64 `json:"cost_price" form:"cost_price"`
	Quantity      *int    `json:"quantity" form:"quantity"`
	MinStockLevel *int    `json:"min_stock_level" form:"min_stock_level"`
	Unit          string  `json:"unit" form:"unit"`
	Location      string  `json:"location" form:"location"`
	Status        string  `json:"status" form:"status"`
	ImageUrl      string  `json:"image_url" form:"image_url"`
}

// productView decorates a product with its derived stock status
type productView struct {
	domain.Product
	StockStatus string `json:"stock_status"`
}

func toProductView(p domain.Product) productView {
	return productView{Product: p, StockStatus: p.StockStatus()}
}

// registerProductRoutes registers catalog product endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/stats/overview", productStats)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Product{})

	if q := strings.TrimSpace(c.QueryParam("search")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}
	if categoryID, err := strconv.ParseInt(c.QueryParam("category"), 10, 64); err == nil && categoryID > 0 {
		db = db.Where("category_id = ?", categoryID)
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if c.QueryParam("lowStock") == "true" {
		db = db.Where("quantity <= min_stock_level")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Order("created_at DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	views := make([]productView, 0, len(rows))
	for _, p := range rows {
		views = append(views, toProductView(p))
	}
	return paged(c, views, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, toProductView(p))
}

func createProduct(c echo.Context) error {
	if err := requireManager(c); err != nil {
		return err
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Sku = strings.TrimSpace(payload.Sku)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	if payload.Sku == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "SKU is required", nil)
	}
	if payload.Price < 0 || payload.CostPrice < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Prices must not be negative", nil)
	}
	if payload.Quantity != nil && *payload.Quantity < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Quantity must be >= 0", nil)
	}

	var dup domain.Product
	if err := GetDB(c).Where("sku = ?", payload.Sku).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_SKU", "SKU already exists", nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to check SKU", err.Error())
	}

	quantity := 0
	if payload.Quantity != nil {
		quantity = *payload.Quantity
	}
	minStock := 10
	if payload.MinStockLevel != nil {
		minStock = *payload.MinStockLevel
	}
	unit := payload.Unit
	if unit == "" {
		unit = "pcs"
	}
	status := payload.Status
	if status == "" {
		status = "active"
	}

	now := time.Now()
	p := domain.Product{
		ID:            common.UUIDint64(),
		Name:          payload.Name,
		Sku:           payload.Sku,
		Description:   payload.Description,
		CategoryID:    payload.CategoryID,
		SupplierID:    payload.SupplierID,
		Price:         payload.Price,
		CostPrice:     payload.CostPrice,
		Quantity:      quantity,
		MinStockLevel: minStock,
		Unit:          unit,
		Location:      payload.Location,
		Status:        status,
		ImageUrl:      strings.TrimSpace(payload.ImageUrl),
		CreatedBy:     currentOprID(c),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	return created(c, toProductView(p))
}

func updateProduct(c echo.Context) error {
	if err := requireManager(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	wasLowStock := p.IsLowStock()

	if name := strings.TrimSpace(payload.Name); name != "" {
		p.Name = name
	}
	if payload.Description != "" {
		p.Description = payload.Description
	}
	if payload.CategoryID != 0 {
		p.CategoryID = payload.CategoryID
	}
	if payload.SupplierID != 0 {
		p.SupplierID = payload.SupplierID
	}
	if payload.Price > 0 {
		p.Price = payload.Price
	}
	if payload.CostPrice > 0 {
		p.CostPrice = payload.CostPrice
	}
	if payload.Quantity != nil {
		if *payload.Quantity < 0 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Quantity must be >= 0", nil)
		}
		p.Quantity = *payload.Quantity
	}
	if payload.MinStockLevel != nil {
		p.MinStockLevel = *payload.MinStockLevel
	}
	if payload.Unit != "" {
		p.Unit = payload.Unit
	}
	if payload.Location != "" {
		p.Location = payload.Location
	}
	if payload.Status != "" {
		p.Status = payload.Status
	}
	if payload.ImageUrl != "" {
		p.ImageUrl = strings.TrimSpace(payload.ImageUrl)
	}
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}

	// Alert subscribed admins when the product crosses its reorder threshold
	if !wasLowStock && p.IsLowStock() && eventBus != nil {
		var admins []domain.SysOpr
		GetDB(c).Where("level IN ? AND email <> ''", []string{"super", "admin", "manager"}).Find(&admins)
		for _, admin := range admins {
			eventBus.Publish(inventory.TopicLowStock, admin.Email, []domain.Product{p})
		}
	}

	return ok(c, toProductView(p))
}

func deleteProduct(c echo.Context) error {
	if err := requireManager(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if err := GetDB(c).Delete(&domain.Product{}, id).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

func productStats(c echo.Context) error {
	db := GetDB(c)

	var totalProducts, lowStockProducts, outOfStock int64
	if err := db.Model(&domain.Product{}).Count(&totalProducts).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count products", err.Error())
	}
	db.Model(&domain.Product{}).Where("quantity <= min_stock_level").Count(&lowStockProducts)
	db.Model(&domain.Product{}).Where("quantity = 0").Count(&outOfStock)

	var totalValue float64
	db.Model(&domain.Product{}).
		Select("COALESCE(SUM(quantity * price), 0)").
		Scan(&totalValue)

	return ok(c, map[string]interface{}{
		"total_products":        totalProducts,
		"low_stock_products":    lowStockProducts,
		"out_of_stock":          outOfStock,
		"total_inventory_value": totalValue,
	})
}
