package adminapi

import (
	"github.com/asaskevich/EventBus"
	"github.com/stocklane/stocklane/config"
	"github.com/stocklane/stocklane/internal/orders"
)

var (
	appConfig    *config.AppConfig
	orderService *orders.Service
	eventBus     EventBus.Bus
)

// Register wires handler dependencies and registers every admin route on
// the web server. Must run after webserver.Init.
func Register(cfg *config.AppConfig, svc *orders.Service, bus EventBus.Bus) {
	appConfig = cfg
	orderService = svc
	eventBus = bus

	registerAuthRoutes()
	registerProductRoutes()
	registerCategoryRoutes()
	registerSupplierRoutes()
	registerOrderRoutes()
	registerSchedulerRoutes()
}
