package model

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	UserName    string `json:"userName" validate:"required,alphanum,min=3,max=30"`
	Password    string `json:"password" validate:"required,password"`
	FirstName   string `json:"firstName" validate:"required,min=2,max=30"`
	LastName    string `json:"lastName" validate:"required,min=2,max=30"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Role        string `json:"role" validate:"omitempty,oneof=user admin"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	ResetToken  string `json:"resetToken" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
}

type SuspendUserRequest struct {
	Suspend *bool `json:"suspend" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type CreateProductRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=255"`
	Description  string   `json:"description" validate:"required,min=10,max=5000"`
	Category     string   `json:"category" validate:"required,min=2,max=255"`
	Subcategory  string   `json:"subcategory" validate:"omitempty,min=2,max=255"`
	Price        *float64 `json:"price" validate:"required,gte=0"`
	SalePrice    *float64 `json:"salePrice" validate:"omitempty,gte=0"`
	Stock        *int     `json:"stock" validate:"required,gte=0"`
	SKU          string   `json:"sku" validate:"required,min=2,max=255"`
	Images       []string `json:"images" validate:"omitempty,dive,url"`
	IsFeatured   bool     `json:"isFeatured"`
	IsPublished  bool     `json:"isPublished"`
	Rating       float64  `json:"rating" validate:"gte=0,lte=5"`
	TotalReviews int      `json:"totalReviews" validate:"gte=0"`
	Tags         []string `json:"tags" validate:"omitempty,dive,min=2,max=255"`
	Brand        string   `json:"brand" validate:"omitempty,min=2,max=255"`
}

// UpdateProductRequest carries a partial update; nil fields are left alone.
type UpdateProductRequest struct {
	Name         *string   `json:"name" validate:"omitempty,min=2,max=255"`
	Description  *string   `json:"description" validate:"omitempty,min=10,max=5000"`
	Category     *string   `json:"category" validate:"omitempty,min=2,max=255"`
	Subcategory  *string   `json:"subcategory" validate:"omitempty,min=2,max=255"`
	Price        *float64  `json:"price" validate:"omitempty,gte=0"`
	SalePrice    *float64  `json:"salePrice" validate:"omitempty,gte=0"`
	Stock        *int      `json:"stock" validate:"omitempty,gte=0"`
	SKU          *string   `json:"sku" validate:"omitempty,min=2,max=255"`
	Images       *[]string `json:"images" validate:"omitempty,dive,url"`
	IsFeatured   *bool     `json:"isFeatured"`
	IsPublished  *bool     `json:"isPublished"`
	Rating       *float64  `json:"rating" validate:"omitempty,gte=0,lte=5"`
	TotalReviews *int      `json:"totalReviews" validate:"omitempty,gte=0"`
	Tags         *[]string `json:"tags" validate:"omitempty,dive,min=2,max=255"`
	Brand        *string   `json:"brand" validate:"omitempty,min=2,max=255"`
}

// ListQuery is the parsed query string of a list endpoint.
type ListQuery struct {
	Query     string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
	FilterBy  map[string]any
}
