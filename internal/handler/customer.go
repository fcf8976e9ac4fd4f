package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental-api/internal/model"
	"github.com/iliyamo/movie-rental-api/internal/queue"
	"github.com/iliyamo/movie-rental-api/internal/repository"
	"github.com/iliyamo/movie-rental-api/internal/validation"
)

// CustomerStore is the subset of repository.CustomerRepo used by
// CustomerHandler.
type CustomerStore interface {
	List(ctx context.Context) ([]model.Customer, error)
	SearchByID(ctx context.Context, id uint64) ([]model.Customer, error)
	SearchByName(ctx context.Context, field model.CustomerSearchField, term string) ([]model.Customer, error)
	GetByID(ctx context.Context, id uint64) (*model.Customer, error)
	Create(ctx context.Context, c repository.NewCustomer) (uint64, error)
	Update(ctx context.Context, id uint64, u repository.CustomerUpdate) error
	Delete(ctx context.Context, id uint64) error
}

// CustomerHandler serves the /api/customers routes.
type CustomerHandler struct {
	Customers        CustomerStore
	Events           EventPublisher
	DefaultStoreID   uint64
	DefaultAddressID uint64
}

// NewCustomerHandler constructs a CustomerHandler.  defaultStore and
// defaultAddress fill the columns a create body may omit.
func NewCustomerHandler(customers CustomerStore, events EventPublisher, defaultStore, defaultAddress uint64) *CustomerHandler {
	return &CustomerHandler{
		Customers:        customers,
		Events:           events,
		DefaultStoreID:   defaultStore,
		DefaultAddressID: defaultAddress,
	}
}

// createCustomerRequest is the POST /api/customers body.
type createCustomerRequest struct {
	CustomerID *uint64 `json:"customer_id" validate:"omitempty,gt=0"`
	StoreID    *uint64 `json:"store_id" validate:"omitempty,gt=0"`
	AddressID  *uint64 `json:"address_id" validate:"omitempty,gt=0"`
	FirstName  string  `json:"first_name" validate:"required,max=45"`
	LastName   string  `json:"last_name" validate:"required,max=45"`
	Email      string  `json:"email" validate:"required,email,max=50"`
}

// updateCustomerRequest is the PUT /api/customers/:customer_id body.
type updateCustomerRequest struct {
	StoreID   *uint64 `json:"store_id" validate:"omitempty,gt=0"`
	FirstName string  `json:"first_name" validate:"required,max=45"`
	LastName  string  `json:"last_name" validate:"required,max=45"`
	Email     string  `json:"email" validate:"required,email,max=50"`
}

// List handles GET /api/customers.
func (h *CustomerHandler) List(c echo.Context) error {
	out, err := h.Customers.List(c.Request().Context())
	if err != nil {
		return internalError(c, "customer.list", err)
	}
	return c.JSON(http.StatusOK, nonNil(out))
}

// Search handles GET /api/customers/search?searchTerm=&searchField=.
// customer_id is matched exactly, name fields by substring.  Invalid
// input is rejected before any query runs.
func (h *CustomerHandler) Search(c echo.Context) error {
	term := c.QueryParam("searchTerm")
	field := model.CustomerSearchField(c.QueryParam("searchField"))
	if !field.Valid() {
		return badRequest(c, "invalid searchField: must be one of customer_id, first_name, last_name")
	}
	if err := validation.Var("searchTerm", strings.TrimSpace(term), "required"); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	var (
		out []model.Customer
		err error
	)
	if field == model.SearchByID {
		id, perr := strconv.ParseUint(strings.TrimSpace(term), 10, 64)
		if perr != nil {
			return badRequest(c, "searchTerm must be a numeric customer_id")
		}
		out, err = h.Customers.SearchByID(ctx, id)
	} else {
		out, err = h.Customers.SearchByName(ctx, field, term)
	}
	if err != nil {
		return internalError(c, "customer.search", err)
	}
	return c.JSON(http.StatusOK, nonNil(out))
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req createCustomerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	nc := repository.NewCustomer{
		CustomerID: req.CustomerID,
		StoreID:    h.DefaultStoreID,
		AddressID:  h.DefaultAddressID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
	}
	if req.StoreID != nil {
		nc.StoreID = *req.StoreID
	}
	if req.AddressID != nil {
		nc.AddressID = *req.AddressID
	}

	id, err := h.Customers.Create(c.Request().Context(), nc)
	if err != nil {
		return internalError(c, "customer.insert", err)
	}
	return respond(c, h.Events, http.StatusCreated, echo.Map{
		"message":     "Customer added successfully",
		"customer_id": id,
	}, queue.EventCustomerCreated, id, 0)
}

// Update handles PUT /api/customers/:customer_id.  There is no existence
// check: updating an absent customer succeeds without effect.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "customer_id")
	if !ok {
		return badRequest(c, "invalid customer id")
	}
	var req updateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.Customers.Update(c.Request().Context(), id, repository.CustomerUpdate{
		StoreID:   req.StoreID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return internalError(c, "customer.update", err)
	}
	return respond(c, h.Events, http.StatusOK, echo.Map{"message": "Customer updated successfully"},
		queue.EventCustomerUpdated, id, 0)
}

// Delete handles DELETE /api/customers/:customer_id.  There is no
// existence check.
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "customer_id")
	if !ok {
		return badRequest(c, "invalid customer id")
	}
	if err := h.Customers.Delete(c.Request().Context(), id); err != nil {
		return internalError(c, "customer.delete", err)
	}
	return respond(c, h.Events, http.StatusOK, echo.Map{"message": "Customer deleted successfully"},
		queue.EventCustomerDeleted, id, 0)
}

// Details handles GET /api/customers/details/:customer_id.
func (h *CustomerHandler) Details(c echo.Context) error {
	id, ok := parseID(c, "customer_id")
	if !ok {
		return badRequest(c, "invalid customer id")
	}
	cust, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return notFound(c, "customer not found")
		}
		return internalError(c, "customer.get", err)
	}
	return c.JSON(http.StatusOK, cust)
}

func nonNil(in []model.Customer) []model.Customer {
	if in == nil {
		return []model.Customer{}
	}
	return in
}
