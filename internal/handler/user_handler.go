package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-shop-api/internal/model"
	"go-shop-api/internal/service"
)

type UserHandler struct {
	service *service.UserService
	limits  PageLimits
}

func NewUserHandler(service *service.UserService, limits PageLimits) *UserHandler {
	return &UserHandler{service: service, limits: limits}
}

type userListData struct {
	Users      []model.Profile `json:"users"`
	TotalCount int             `json:"totalCount"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
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
		fmt.Sprintf("Retrieved %d users out of %d", len(page.Items), page.TotalCount),
		userListData{Users: page.Items, TotalCount: page.TotalCount},
		pageMeta(q, page.TotalCount, page.HasNext, page.HasPrevious),
	)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	profile, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, fmt.Sprintf("Retrieved user with ID %s", id), profile, nil)
}
