package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/orders"
	"github.com/stocklane/stocklane/internal/webserver"
)

func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/stats/overview", orderStats)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiPOST("/orders", createOrder)
	webserver.ApiPUT("/orders/:id", updateOrder)
	webserver.ApiDELETE("/orders/:id", cancelOrder)
}

// orderView decorates an order with display names resolved from the
// supplier and operator tables. Item names/skus are snapshots carried by
// the order itself.
type orderView struct {
	domain.Order
	SupplierName  string `json:"supplier_name,omitempty"`
	CreatedByName string `json:"created_by_name,omitempty"`
}

func toOrderView(c echo.Context, o domain.Order) orderView {
	view := orderView{Order: o}
	if o.SupplierID != 0 {
		var supplier domain.Supplier
		if err := GetDB(c).Select("name").Where("id = ?", o.SupplierID).First(&supplier).Error; err == nil {
			view.SupplierName = supplier.Name
		}
	}
	if o.CreatedBy != 0 {
		var opr domain.SysOpr
		if err := GetDB(c).Select("realname").Where("id = ?", o.CreatedBy).First(&opr).Error; err == nil {
			view.CreatedByName = opr.Realname
		}
	}
	return view
}

// failOrderError maps the order error taxonomy onto HTTP responses
func failOrderError(c echo.Context, err error) error {
	switch {
	case orders.IsValidation(err):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case orders.IsNotFound(err):
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case orders.IsInsufficientStock(err):
		return fail(c, http.StatusBadRequest, "INSUFFICIENT_STOCK", err.Error(), nil)
	default:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Order operation failed", err.Error())
	}
}

func listOrders(c echo.Context) error {
	filter := orders.ListFilter{
		Type:          c.QueryParam("type"),
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("paymentStatus"),
	}
	list, err := orderService.List(c.Request().Context(), filter)
	if err != nil {
		return failOrderError(c, err)
	}
	views := make([]orderView, 0, len(list))
	for _, o := range list {
		views = append(views, toOrderView(c, *o))
	}
	return ok(c, views)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := orderService.Get(c.Request().Context(), id)
	if err != nil {
		return failOrderError(c, err)
	}
	return ok(c, toOrderView(c, *order))
}

func createOrder(c echo.Context) error {
	if err := requireManager(c); err != nil {
		return err
	}
	var req orders.CreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters", err.Error())
	}
	req.CreatedBy = currentOprID(c)
	req.CreatorEmail = currentOprEmail(c)

	order, err := orderService.Create(c.Request().Context(), req)
	if err != nil {
		return failOrderError(c, err)
	}
	return created(c, toOrderView(c, *order))
}

func updateOrder(c echo.Context) error {
	if err := requireManager(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var req orders.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters", err.Error())
	}
	order, err := orderService.Update(c.Request().Context(), id, req)
	if err != nil {
		return failOrderError(c, err)
	}
	return ok(c, toOrderView(c, *order))
}

func cancelOrder(c echo.Context) error {
	if err := requireManager(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	if err := orderService.Cancel(c.Request().Context(), id); err != nil {
		return failOrderError(c, err)
	}
	return ok(c, map[string]interface{}{"message": "Order cancelled and inventory restored"})
}

func orderStats(c echo.Context) error {
	stats, err := orderService.Stats(c.Request().Context())
	if err != nil {
		return failOrderError(c, err)
	}
	return ok(c, stats)
}
