package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-shop-api/internal/model"
	"go-shop-api/internal/service"
)

type ProductHandler struct {
	service   *service.ProductService
	validator *Validator
	limits    PageLimits
}

func NewProductHandler(service *service.ProductService, validator *Validator, limits PageLimits) *ProductHandler {
	return &ProductHandler{service: service, validator: validator, limits: limits}
}

type productListData struct {
	Products   []model.ProductView `json:"products"`
	TotalCount int                 `json:"totalCount"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r.URL.Query(), h.limits)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.service.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK,
		fmt.Sprintf("Retrieved %d products out of %d", len(page.Items), page.TotalCount),
		productListData{Products: page.Items, TotalCount: page.TotalCount},
		pageMeta(q, page.TotalCount, page.HasNext, page.HasPrevious),
	)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, fmt.Sprintf("Retrieved product with ID %s", id), product, nil)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateProductRequest
	if err := decodeJSON(w, r, &payload, false); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validator.Struct(&payload); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.service.Create(r.Context(), actorFromRequest(r), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Product created successfully", product, nil)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload model.UpdateProductRequest
	if err := decodeJSON(w, r, &payload, false); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validator.Struct(&payload); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.service.Update(r.Context(), actorFromRequest(r), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, fmt.Sprintf("Product with ID %s updated successfully", id), product, nil)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.Delete(r.Context(), actorFromRequest(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, fmt.Sprintf("Product with ID %s deleted successfully", id), product, nil)
}
