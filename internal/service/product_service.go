package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-shop-api/internal/event"
	"go-shop-api/internal/model"
	"go-shop-api/internal/pagination"
	"go-shop-api/internal/repository"
	"go-shop-api/pkg/apierror"
)

const (
	msgInvalidProductID = "Invalid product ID."
	msgProductNotFound  = "Product not found"
	msgDuplicateSKU     = "A product with the provided SKU already exists."
)

type ProductService struct {
	products repository.ProductRepository
	links    LinkBuilder
	events   event.Publisher
}

func NewProductService(products repository.ProductRepository, links LinkBuilder, events event.Publisher) *ProductService {
	if events == nil {
		events = event.Discard{}
	}
	return &ProductService{products: products, links: links, events: events}
}

func (s *ProductService) view(p *model.Product) model.ProductView {
	return model.ProductView{Product: p, Links: s.links.Item("products", p.ID)}
}

// List pages through the catalogue, or through text-search matches when
// q.Query is set.
func (s *ProductService) List(ctx context.Context, q model.ListQuery) (pagination.Page[model.ProductView], error) {
	var (
		products []*model.Product
		err      error
	)
	if query := strings.TrimSpace(q.Query); query != "" {
		products, err = s.products.Search(ctx, query)
	} else {
		products, err = s.products.List(ctx)
	}
	if err != nil {
		return pagination.Page[model.ProductView]{}, err
	}

	return pagination.Paginate(products, listOptions[*model.Product](q), s.view), nil
}

func (s *ProductService) Get(ctx context.Context, id string) (model.ProductView, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return model.ProductView{}, err
	}
	return s.view(p), nil
}

func (s *ProductService) Create(ctx context.Context, actor model.Actor, req model.CreateProductRequest) (model.ProductView, error) {
	now := time.Now().UTC()
	p := &model.Product{
		ID:           repository.NewID(),
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		Category:     strings.TrimSpace(req.Category),
		Subcategory:  strings.TrimSpace(req.Subcategory),
		SalePrice:    req.SalePrice,
		SKU:          strings.TrimSpace(req.SKU),
		Images:       nonNil(req.Images),
		IsFeatured:   req.IsFeatured,
		IsPublished:  req.IsPublished,
		Rating:       req.Rating,
		TotalReviews: req.TotalReviews,
		Tags:         nonNil(req.Tags),
		Brand:        strings.TrimSpace(req.Brand),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}

	if err := s.products.Create(ctx, p); err != nil {
		return model.ProductView{}, s.mapWriteError(err, p.SKU)
	}

	s.events.Publish(event.New(event.TypeProductCreated, actor, "products/"+p.ID, map[string]any{"sku": p.SKU}))
	return s.view(p), nil
}

// Update applies the non-nil fields of req to the stored product.
func (s *ProductService) Update(ctx context.Context, actor model.Actor, id string, req model.UpdateProductRequest) (model.ProductView, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return model.ProductView{}, err
	}

	changed := applyUpdate(p, req)
	p.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, p); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			return model.ProductView{}, apierror.NotFound(msgProductNotFound, id)
		}
		return model.ProductView{}, s.mapWriteError(err, p.SKU)
	}

	s.events.Publish(event.New(event.TypeProductUpdated, actor, "products/"+p.ID, map[string]any{"fields": changed}))
	return s.view(p), nil
}

// Delete removes the product and returns it as it was before deletion.
func (s *ProductService) Delete(ctx context.Context, actor model.Actor, id string) (model.ProductView, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return model.ProductView{}, err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			return model.ProductView{}, apierror.NotFound(msgProductNotFound, id)
		}
		return model.ProductView{}, fmt.Errorf("delete product: %w", err)
	}

	s.events.Publish(event.New(event.TypeProductDeleted, actor, "products/"+id, map[string]any{"sku": p.SKU}))
	return s.view(p), nil
}

func (s *ProductService) find(ctx context.Context, id string) (*model.Product, error) {
	if !repository.ValidID(id) {
		return nil, apierror.BadRequest(msgInvalidProductID, id)
	}

	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, model.ErrProductNotFound) {
		return nil, apierror.NotFound(msgProductNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

func (s *ProductService) mapWriteError(err error, sku string) error {
	if errors.Is(err, model.ErrDuplicateSKU) {
		return apierror.BadRequest(msgDuplicateSKU, sku)
	}
	return err
}

func applyUpdate(p *model.Product, req model.UpdateProductRequest) []string {
	var changed []string
	setString := func(field string, dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			changed = append(changed, field)
		}
	}

	setString("name", &p.Name, req.Name)
	setString("description", &p.Description, req.Description)
	setString("category", &p.Category, req.Category)
	setString("subcategory", &p.Subcategory, req.Subcategory)
	setString("sku", &p.SKU, req.SKU)
	setString("brand", &p.Brand, req.Brand)

	if req.Price != nil {
		p.Price = *req.Price
		changed = append(changed, "price")
	}
	if req.SalePrice != nil {
		sale := *req.SalePrice
		p.SalePrice = &sale
		changed = append(changed, "salePrice")
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
		changed = append(changed, "stock")
	}
	if req.Images != nil {
		p.Images = nonNil(*req.Images)
		changed = append(changed, "images")
	}
	if req.IsFeatured != nil {
		p.IsFeatured = *req.IsFeatured
		changed = append(changed, "isFeatured")
	}
	if req.IsPublished != nil {
		p.IsPublished = *req.IsPublished
		changed = append(changed, "isPublished")
	}
	if req.Rating != nil {
		p.Rating = *req.Rating
		changed = append(changed, "rating")
	}
	if req.TotalReviews != nil {
		p.TotalReviews = *req.TotalReviews
		changed = append(changed, "totalReviews")
	}
	if req.Tags != nil {
		p.Tags = nonNil(*req.Tags)
		changed = append(changed, "tags")
	}

	return changed
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
