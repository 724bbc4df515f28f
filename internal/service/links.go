package service

import (
	"net/http"
	"strings"

	"go-shop-api/internal/model"
)

var itemMethods = []string{http.MethodGet, http.MethodPut, http.MethodDelete}

// LinkBuilder renders hypermedia links of the form
// {baseURL}/{version}/{resource}/{id}.
type LinkBuilder struct {
	baseURL string
	version string
}

func NewLinkBuilder(baseURL string, version string) LinkBuilder {
	return LinkBuilder{baseURL: strings.TrimRight(baseURL, "/"), version: strings.Trim(version, "/")}
}

func (b LinkBuilder) Item(resource string, id string) []model.Link {
	href := b.baseURL + "/" + b.version + "/" + resource + "/" + id

	links := make([]model.Link, 0, len(itemMethods))
	for _, method := range itemMethods {
		links = append(links, model.Link{Rel: strings.ToLower(method), Method: method, Href: href})
	}
	return links
}
