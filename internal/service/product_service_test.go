package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-shop-api/internal/event"
	"go-shop-api/internal/model"
	"go-shop-api/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func newProductFixture() (*repository.MockProductRepository, *recordingPublisher, *ProductService) {
	repo := &repository.MockProductRepository{}
	events := &recordingPublisher{}
	svc := NewProductService(repo, NewLinkBuilder("http://localhost:8080/api/", "v1"), events)
	return repo, events, svc
}

func TestProductList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	products := []*model.Product{
		{ID: repository.NewID(), Name: "Thirty", Category: "A", Price: 30},
		{ID: repository.NewID(), Name: "Ten", Category: "A", Price: 10},
		{ID: repository.NewID(), Name: "Twenty", Category: "B", Price: 20},
	}

	t.Run("plain listing sorts, filters and links", func(t *testing.T) {
		repo, _, svc := newProductFixture()
		repo.On("List", ctx).Return(products, nil)

		page, err := svc.List(ctx, model.ListQuery{Page: 1, PageSize: 10, SortBy: "price", SortOrder: "desc", FilterBy: map[string]any{"category": "A"}})
		require.NoError(t, err)
		require.Equal(t, 2, page.TotalCount)
		require.Equal(t, "Thirty", page.Items[0].Name)
		require.Equal(t, "Ten", page.Items[1].Name)

		links := page.Items[0].Links
		require.Len(t, links, 3)
		require.Equal(t, model.Link{Rel: "get", Method: "GET", Href: "http://localhost:8080/api/v1/products/" + products[0].ID}, links[0])
		require.Equal(t, "delete", links[2].Rel)
		repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("query routes to search", func(t *testing.T) {
		repo, _, svc := newProductFixture()
		repo.On("Search", ctx, "ten").Return(products[1:2], nil)

		page, err := svc.List(ctx, model.ListQuery{Query: "ten", Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		repo.AssertNotCalled(t, "List", mock.Anything)
	})
}

func TestProductCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	req := model.CreateProductRequest{
		Name:        "Kettle",
		Description: "Boils water quickly",
		Category:    "Kitchen",
		Price:       ptr(25.0),
		Stock:       ptr(3),
		SKU:         "KET-1",
	}

	t.Run("success", func(t *testing.T) {
		repo, events, svc := newProductFixture()
		repo.On("Create", ctx, mock.MatchedBy(func(p *model.Product) bool {
			return p.SKU == "KET-1" && p.Price == 25 && p.Stock == 3 && p.Images != nil && p.Tags != nil
		})).Return(nil)

		view, err := svc.Create(ctx, model.Actor{UserID: "admin"}, req)
		require.NoError(t, err)
		require.True(t, repository.ValidID(view.ID))
		require.Len(t, view.Links, 3)
		require.Equal(t, []event.Type{event.TypeProductCreated}, events.types())
	})

	t.Run("duplicate sku", func(t *testing.T) {
		repo, events, svc := newProductFixture()
		repo.On("Create", ctx, mock.Anything).Return(model.ErrDuplicateSKU)

		_, err := svc.Create(ctx, model.Actor{}, req)
		requireAPIError(t, err, http.StatusBadRequest, "A product with the provided SKU already exists.")
		require.Empty(t, events.types())
	})
}

func TestProductUpdateAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		repo, events, svc := newProductFixture()
		stored := &model.Product{ID: repository.NewID(), Name: "Old", Description: "Old description", Price: 5, SKU: "S-1"}
		repo.On("FindByID", ctx, stored.ID).Return(stored, nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		view, err := svc.Update(ctx, model.Actor{}, stored.ID, model.UpdateProductRequest{Name: ptr("New"), Stock: ptr(7)})
		require.NoError(t, err)
		require.Equal(t, "New", view.Name)
		require.Equal(t, 7, view.Stock)
		require.Equal(t, 5.0, view.Price)
		require.Equal(t, "Old description", view.Description)
		require.Equal(t, []string{"name", "stock"}, events.events[0].Payload["fields"])
	})

	t.Run("invalid and unknown ids", func(t *testing.T) {
		repo, _, svc := newProductFixture()
		id := repository.NewID()
		repo.On("FindByID", ctx, id).Return(nil, model.ErrProductNotFound)

		_, err := svc.Get(ctx, "xyz")
		requireAPIError(t, err, http.StatusBadRequest, "Invalid product ID.")

		_, err = svc.Get(ctx, id)
		requireAPIError(t, err, http.StatusNotFound, "Product not found")

		_, err = svc.Delete(ctx, model.Actor{}, id)
		requireAPIError(t, err, http.StatusNotFound, "")
	})

	t.Run("delete returns the removed product", func(t *testing.T) {
		repo, events, svc := newProductFixture()
		stored := &model.Product{ID: repository.NewID(), Name: "Gone", SKU: "G-1"}
		repo.On("FindByID", ctx, stored.ID).Return(stored, nil)
		repo.On("Delete", ctx, stored.ID).Return(nil)

		view, err := svc.Delete(ctx, model.Actor{}, stored.ID)
		require.NoError(t, err)
		require.Equal(t, "Gone", view.Name)
		require.Equal(t, []event.Type{event.TypeProductDeleted}, events.types())
	})
}
