package handler

import (
	"fmt"
	"net/http"
	"strings"

	"go-shop-api/internal/model"
	"go-shop-api/internal/service"
)

type AuditHandler struct {
	service *service.AuditService
	limits  PageLimits
}

func NewAuditHandler(service *service.AuditService, limits PageLimits) *AuditHandler {
	return &AuditHandler{service: service, limits: limits}
}

type auditListData struct {
	Entries    []model.AuditEntry `json:"entries"`
	TotalCount int                `json:"totalCount"`
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q, err := parseListQuery(values, h.limits)
	if err != nil {
		writeError(w, err)
		return
	}

	entries, total, err := h.service.Query(r.Context(), model.AuditFilter{
		Action:  strings.TrimSpace(values.Get("action")),
		ActorID: strings.TrimSpace(values.Get("actorId")),
		Limit:   q.PageSize,
		Offset:  (q.Page - 1) * q.PageSize,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}

	offset := (q.Page - 1) * q.PageSize
	writeSuccess(w, http.StatusOK,
		fmt.Sprintf("Retrieved %d audit entries out of %d", len(entries), total),
		auditListData{Entries: entries, TotalCount: total},
		pageMeta(q, total, offset+q.PageSize < total, offset > 0),
	)
}
