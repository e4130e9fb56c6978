package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/glovo-marketplace/internal/handler"
	"github.com/iliyamo/glovo-marketplace/internal/middleware"
	"github.com/iliyamo/glovo-marketplace/internal/model"
	"github.com/iliyamo/glovo-marketplace/internal/repository"
)

// Resources holds one CRUD handler per marketplace entity.
type Resources struct {
	Category      *handler.Resource[model.Category, handler.CategoryPayload]
	Store         *handler.Resource[model.Store, handler.StorePayload]
	StoreContact  *handler.Resource[model.StoreContact, handler.StoreContactPayload]
	Product       *handler.Resource[model.Product, handler.ProductPayload]
	ProductCombo  *handler.Resource[model.ProductCombo, handler.ProductComboPayload]
	Order         *handler.Resource[model.Order, handler.OrderPayload]
	Courier       *handler.Resource[model.Courier, handler.CourierPayload]
	StoreReview   *handler.Resource[model.StoreReview, handler.StoreReviewPayload]
	CourierReview *handler.Resource[model.CourierReview, handler.CourierReviewPayload]
}

// NewResources wires every entity handler to its MySQL repository.
func NewResources(db *sql.DB) Resources {
	return Resources{
		Category:      handler.NewResource[model.Category, handler.CategoryPayload]("category", repository.NewCategoryRepo(db)),
		Store:         handler.NewResource[model.Store, handler.StorePayload]("store", repository.NewStoreRepo(db)),
		StoreContact:  handler.NewResource[model.StoreContact, handler.StoreContactPayload]("store_contact", repository.NewContactRepo(db)),
		Product:       handler.NewResource[model.Product, handler.ProductPayload]("product", repository.NewProductRepo(db)),
		ProductCombo:  handler.NewResource[model.ProductCombo, handler.ProductComboPayload]("product_combo", repository.NewComboRepo(db)),
		Order:         handler.NewResource[model.Order, handler.OrderPayload]("order", repository.NewOrderRepo(db)),
		Courier:       handler.NewResource[model.Courier, handler.CourierPayload]("courier", repository.NewCourierRepo(db)),
		StoreReview:   handler.NewResource[model.StoreReview, handler.StoreReviewPayload]("store_review", repository.NewStoreReviewRepo(db)),
		CourierReview: handler.NewResource[model.CourierReview, handler.CourierReviewPayload]("courier_review", repository.NewCourierReviewRepo(db)),
	}
}

type crud interface {
	Create(echo.Context) error
	List(echo.Context) error
	Get(echo.Context) error
	Update(echo.Context) error
	Delete(echo.Context) error
}

func mount(e *echo.Echo, name string, h crud, mw ...echo.MiddlewareFunc) {
	g := e.Group("/"+name, mw...)
	g.POST("/", h.Create)
	g.GET("/", h.List)
	g.GET("/:id/", h.Get)
	g.PUT("/:id/", h.Update)
	g.DELETE("/:id/", h.Delete)
}

// RegisterResources mounts the CRUD routes.  Catalog reads go through the
// response cache; a write to a catalog group also drops the groups whose
// rows its foreign keys cascade into.
func RegisterResources(e *echo.Echo, r Resources, cache *middleware.ResponseCache) {
	if r.Category != nil {
		mount(e, "category", r.Category, cache.For("category", "store", "product", "product_combo"))
	}
	if r.Store != nil {
		mount(e, "store", r.Store, cache.For("store", "product", "product_combo"))
	}
	if r.StoreContact != nil {
		mount(e, "store_contact", r.StoreContact)
	}
	if r.Product != nil {
		mount(e, "product", r.Product, cache.For("product"))
	}
	if r.ProductCombo != nil {
		mount(e, "product_combo", r.ProductCombo, cache.For("product_combo"))
	}
	if r.Order != nil {
		mount(e, "order", r.Order)
	}
	if r.Courier != nil {
		mount(e, "courier", r.Courier)
	}
	if r.StoreReview != nil {
		mount(e, "store_review", r.StoreReview)
	}
	if r.CourierReview != nil {
		mount(e, "courier_review", r.CourierReview)
	}
}
