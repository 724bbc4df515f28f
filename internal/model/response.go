package model

import "go-shop-api/pkg/apierror"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type APIResponse struct {
	Status  string                `json:"status"`
	Code    string                `json:"code,omitempty"`
	Message string                `json:"message,omitempty"`
	Data    any                   `json:"data,omitempty"`
	Errors  []apierror.FieldError `json:"errors,omitempty"`
	Meta    *Meta                 `json:"meta,omitempty"`
}

// Meta describes the page returned by a list endpoint. NextPage and
// PreviousPage are null at the edges.
type Meta struct {
	CurrentPage  int  `json:"currentPage"`
	PageSize     int  `json:"pageSize"`
	TotalCount   int  `json:"totalCount"`
	TotalPages   int  `json:"totalPages"`
	NextPage     *int `json:"nextPage"`
	PreviousPage *int `json:"previousPage"`
	HasNext      bool `json:"hasNext"`
	HasPrevious  bool `json:"hasPrevious"`
}
