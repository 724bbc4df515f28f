package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go-shop-api/internal/middleware"
	"go-shop-api/internal/model"
	"go-shop-api/internal/pagination"
	"go-shop-api/pkg/apierror"
)

const msgInvalidPagination = "Invalid pagination options"

// PageLimits bounds the page size accepted by list endpoints.
type PageLimits struct {
	Default int
	Max     int
}

func actorFromRequest(r *http.Request) model.Actor {
	actor := model.Actor{IP: middleware.ClientIP(r)}

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return actor
	}

	actor.UserID = identity.ID
	actor.Role = string(identity.Role)
	return actor
}

// parseListQuery reads page, pageSize, sortBy, sortOrder, query and
// filterBy[field]=value parameters.
func parseListQuery(values url.Values, limits PageLimits) (model.ListQuery, error) {
	q := model.ListQuery{
		Query:     strings.TrimSpace(values.Get("query")),
		Page:      1,
		PageSize:  limits.Default,
		SortBy:    strings.TrimSpace(values.Get("sortBy")),
		SortOrder: strings.ToLower(strings.TrimSpace(values.Get("sortOrder"))),
	}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return model.ListQuery{}, apierror.BadRequest(msgInvalidPagination, "page must be a positive integer")
		}
		q.Page = page
	}

	if raw := strings.TrimSpace(values.Get("pageSize")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return model.ListQuery{}, apierror.BadRequest(msgInvalidPagination, "pageSize must be a positive integer")
		}
		q.PageSize = size
	}
	if limits.Max > 0 && q.PageSize > limits.Max {
		q.PageSize = limits.Max
	}
	if !pagination.OffsetFits(q.Page, q.PageSize) {
		return model.ListQuery{}, apierror.BadRequest(msgInvalidPagination, "page is out of range")
	}

	if q.SortOrder != "" && q.SortOrder != string(pagination.Asc) && q.SortOrder != string(pagination.Desc) {
		return model.ListQuery{}, apierror.BadRequest(msgInvalidPagination, "sortOrder must be asc or desc")
	}

	for key, vals := range values {
		field, ok := strings.CutPrefix(key, "filterBy[")
		if !ok || !strings.HasSuffix(field, "]") || len(vals) == 0 {
			continue
		}
		field = strings.TrimSuffix(field, "]")
		if field == "" {
			continue
		}
		if q.FilterBy == nil {
			q.FilterBy = map[string]any{}
		}
		q.FilterBy[field] = vals[0]
	}

	return q, nil
}

// pageMeta derives the page block for a list response. nextPage and
// previousPage stay nil when there is no such page.
func pageMeta(q model.ListQuery, totalCount int, hasNext bool, hasPrevious bool) *model.Meta {
	meta := &model.Meta{
		CurrentPage: q.Page,
		PageSize:    q.PageSize,
		TotalCount:  totalCount,
		TotalPages:  pagination.TotalPages(totalCount, q.PageSize),
		HasNext:     hasNext,
		HasPrevious: hasPrevious,
	}
	if hasNext {
		next := q.Page + 1
		meta.NextPage = &next
	}
	if hasPrevious {
		previous := q.Page - 1
		meta.PreviousPage = &previous
	}
	return meta
}
