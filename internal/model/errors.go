package model

import "errors"

var (
	// User related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Token related errors
	ErrInvalidToken = errors.New("invalid token")

	// Product related errors
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSKU    = errors.New("product sku already exists")

	// Storage errors
	ErrNotFound  = errors.New("entity not found")
	ErrDuplicate = errors.New("duplicate: entity already exists")
)
