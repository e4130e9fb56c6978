package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/glovo-marketplace/internal/repository"
)

// ResourceStore is the persistence contract shared by every CRUD
// repository.
type ResourceStore[T any] interface {
	Create(ctx context.Context, item *T) error
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint64) (*T, error)
	Update(ctx context.Context, id uint64, item *T) error
	Delete(ctx context.Context, id uint64) error
}

// Payload is a validated request body that knows how to fill a model.
type Payload[T any] interface {
	Apply(*T)
}

// Write actions reported to OnWrite.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// Resource serves create/list/get/update/delete for one entity.  Name is
// used in error and delete messages ("store not found").
type Resource[T any, P Payload[T]] struct {
	Name  string
	Store ResourceStore[T]
	// OnWrite, when set, runs after a successful create or update.
	OnWrite func(ctx context.Context, action string, item *T)
}

// NewResource returns a handler set for the named resource.
func NewResource[T any, P Payload[T]](name string, store ResourceStore[T]) *Resource[T, P] {
	if store == nil {
		panic("nil store passed to NewResource(" + name + ")")
	}
	return &Resource[T, P]{Name: name, Store: store}
}

// bind decodes and validates the request payload into a fresh model.  On
// failure the item is nil and the 400 response has already been written.
func (h *Resource[T, P]) bind(c echo.Context) (*T, error) {
	var p P
	if err := c.Bind(&p); err != nil {
		return nil, errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&p); err != nil {
		return nil, errorJSON(c, http.StatusBadRequest, err.Error())
	}
	item := new(T)
	p.Apply(item)
	return item, nil
}

// Create: POST /{r}/
func (h *Resource[T, P]) Create(c echo.Context) error {
	item, resp := h.bind(c)
	if item == nil {
		return resp
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	if err := h.Store.Create(ctx, item); err != nil {
		return h.fail(c, "create", err)
	}
	h.notify(c, ActionCreated, item)
	return c.JSON(http.StatusCreated, item)
}

// List: GET /{r}/
func (h *Resource[T, P]) List(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	items, err := h.Store.List(ctx)
	if err != nil {
		return h.fail(c, "list", err)
	}
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, items)
}

// Get: GET /{r}/:id/
func (h *Resource[T, P]) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	item, err := h.Store.Get(ctx, id)
	if err != nil {
		return h.fail(c, "get", err)
	}
	return c.JSON(http.StatusOK, item)
}

// Update: PUT /{r}/:id/ replaces every writable field.
func (h *Resource[T, P]) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	item, resp := h.bind(c)
	if item == nil {
		return resp
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	if err := h.Store.Update(ctx, id, item); err != nil {
		return h.fail(c, "update", err)
	}
	h.notify(c, ActionUpdated, item)
	return c.JSON(http.StatusOK, item)
}

// Delete: DELETE /{r}/:id/
func (h *Resource[T, P]) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	if err := h.Store.Delete(ctx, id); err != nil {
		return h.fail(c, "delete", err)
	}
	return messageJSON(c, h.Name+" deleted")
}

func (h *Resource[T, P]) notify(c echo.Context, action string, item *T) {
	if h.OnWrite != nil {
		h.OnWrite(c.Request().Context(), action, item)
	}
}

// fail maps repository errors onto HTTP responses.
func (h *Resource[T, P]) fail(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, h.Name+" not found")
	case errors.Is(err, repository.ErrConflict):
		return errorJSON(c, http.StatusConflict, h.Name+" already exists")
	case errors.Is(err, repository.ErrInvalidReference):
		return errorJSON(c, http.StatusBadRequest, "referenced record does not exist")
	}
	zap.L().Error("resource operation failed",
		zap.String("resource", h.Name), zap.String("op", op), zap.Error(err))
	return errorJSON(c, http.StatusInternalServerError, op+" "+h.Name+" failed")
}
