package products

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/user/almacen-go/apperror"
	"github.com/user/almacen-go/auth"
)

// Handlers exposes the product CRUD endpoints over a Store. All routes are
// expected to be registered behind the auth middleware.
type Handlers struct {
	store    Store
	validate *validator.Validate
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store Store) *Handlers {
	return &Handlers{
		store:    store,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the product routes on the given router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

// decodeAndValidate reads a ProductRequest from the body and applies the
// validation rules shared by create and update: field constraints, a known
// status value, and an entry date that is present and not in the future.
func (h *Handlers) decodeAndValidate(r *http.Request) (*ProductRequest, error) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil)
	}
	defer r.Body.Close()

	if err := h.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError("validation failed: "+err.Error(), nil)
	}

	req.Status = strings.ToLower(req.Status)
	if req.Status != StatusActive && req.Status != StatusDiscontinued {
		return nil, apperror.NewValidationError("status must be 'active' or 'discontinued'", nil)
	}

	if req.EntryDate.Time.IsZero() {
		return nil, apperror.NewValidationError("entry_date is required", nil)
	}
	if req.EntryDate.Time.After(time.Now()) {
		return nil, apperror.NewValidationError("entry_date cannot be in the future", nil)
	}

	return &req, nil
}

func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, apperror.NewBadRequestError("invalid product id", nil)
	}
	return id, nil
}

func (h *Handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeAndValidate(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	product, err := h.store.Create(r.Context(), *req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// parseListParams extracts pagination, filter, and search parameters from
// the query string. Limits are clamped to 1..100, default 10; skip defaults
// to 0 and must not be negative.
func parseListParams(r *http.Request) (ListParams, error) {
	params := ListParams{Skip: 0, Limit: 10}
	q := r.URL.Query()

	if v := q.Get("skip"); v != "" {
		skip, err := strconv.Atoi(v)
		if err != nil || skip < 0 {
			return params, apperror.NewValidationError("skip must be a non-negative integer", nil)
		}
		params.Skip = skip
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 100 {
			return params, apperror.NewValidationError("limit must be an integer between 1 and 100", nil)
		}
		params.Limit = limit
	}
	if v := q.Get("status"); v != "" {
		status := strings.ToLower(v)
		if status != StatusActive && status != StatusDiscontinued {
			return params, apperror.NewValidationError("status must be 'active' or 'discontinued'", nil)
		}
		params.Status = status
	}
	if v := q.Get("supplier_id"); v != "" {
		supplierID, err := strconv.Atoi(v)
		if err != nil || supplierID < 1 {
			return params, apperror.NewValidationError("supplier_id must be a positive integer", nil)
		}
		params.SupplierID = supplierID
	}
	params.Search = q.Get("search")

	return params, nil
}

func (h *Handlers) handleList(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	products, err := h.store.List(r.Context(), params)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *Handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	product, err := h.store.Get(r.Context(), id)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	req, err := h.decodeAndValidate(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	product, err := h.store.Update(r.Context(), id, *req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{Message: "product deleted successfully"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}
