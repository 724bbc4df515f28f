package model

import "time"

type Product struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Description  string    `bson:"description" json:"description"`
	Category     string    `bson:"category" json:"category"`
	Subcategory  string    `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Price        float64   `bson:"price" json:"price"`
	SalePrice    *float64  `bson:"salePrice,omitempty" json:"salePrice,omitempty"`
	Stock        int       `bson:"stock" json:"stock"`
	SKU          string    `bson:"sku" json:"sku"`
	Images       []string  `bson:"images" json:"images"`
	IsFeatured   bool      `bson:"isFeatured" json:"isFeatured"`
	IsPublished  bool      `bson:"isPublished" json:"isPublished"`
	Rating       float64   `bson:"rating" json:"rating"`
	TotalReviews int       `bson:"totalReviews" json:"totalReviews"`
	Tags         []string  `bson:"tags" json:"tags"`
	Brand        string    `bson:"brand,omitempty" json:"brand,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Field exposes product attributes to the paginator by JSON name.
func (p *Product) Field(key string) (any, bool) {
	switch key {
	case "id":
		return p.ID, true
	case "name":
		return p.Name, true
	case "description":
		return p.Description, true
	case "category":
		return p.Category, true
	case "subcategory":
		return p.Subcategory, true
	case "price":
		return p.Price, true
	case "salePrice":
		if p.SalePrice == nil {
			return nil, true
		}
		return *p.SalePrice, true
	case "stock":
		return p.Stock, true
	case "sku":
		return p.SKU, true
	case "isFeatured":
		return p.IsFeatured, true
	case "isPublished":
		return p.IsPublished, true
	case "rating":
		return p.Rating, true
	case "totalReviews":
		return p.TotalReviews, true
	case "brand":
		return p.Brand, true
	case "createdAt":
		return p.CreatedAt, true
	case "updatedAt":
		return p.UpdatedAt, true
	default:
		return nil, false
	}
}

// Link is a hypermedia control attached to every product in a response.
type Link struct {
	Rel    string `json:"rel"`
	Method string `json:"method"`
	Href   string `json:"href"`
}

type ProductView struct {
	*Product
	Links []Link `json:"links"`
}
