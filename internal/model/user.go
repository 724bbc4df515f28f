package model

import (
	"time"

	"go-shop-api/internal/permission"
)

type User struct {
	ID           string          `bson:"_id" json:"id"`
	UserName     string          `bson:"userName" json:"userName"`
	FirstName    string          `bson:"firstName" json:"firstName"`
	LastName     string          `bson:"lastName" json:"lastName"`
	Email        string          `bson:"email" json:"email"`
	PasswordHash string          `bson:"password" json:"-"`
	PhoneNumber  string          `bson:"phoneNumber" json:"phoneNumber"`
	Role         permission.Role `bson:"role" json:"role"`
	Suspended    bool            `bson:"suspended" json:"suspended"`
	ResetToken   string          `bson:"resetToken,omitempty" json:"-"`
	Deleted      bool            `bson:"deleted" json:"-"`
	CreatedAt    time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// Identity is the authenticated subject attached to a request.
type Identity struct {
	ID        string
	UserName  string
	Email     string
	Role      permission.Role
	Suspended bool
}

// Permissions resolves the identity's role against table.
func (i Identity) Permissions(table *permission.Table) []permission.Permission {
	return table.Permissions(i.Role)
}

func (u *User) Identity() Identity {
	return Identity{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		Role:      u.Role,
		Suspended: u.Suspended,
	}
}

// Field exposes user attributes to the paginator by JSON name.
func (u *User) Field(key string) (any, bool) {
	switch key {
	case "id":
		return u.ID, true
	case "userName":
		return u.UserName, true
	case "firstName":
		return u.FirstName, true
	case "lastName":
		return u.LastName, true
	case "email":
		return u.Email, true
	case "phoneNumber":
		return u.PhoneNumber, true
	case "role":
		return string(u.Role), true
	case "suspended":
		return u.Suspended, true
	case "createdAt":
		return u.CreatedAt, true
	case "updatedAt":
		return u.UpdatedAt, true
	default:
		return nil, false
	}
}

// AuthUser is the short profile returned next to issued tokens.
type AuthUser struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	UserName string          `json:"username"`
	Role     permission.Role `json:"role"`
}

func (u *User) AuthView() AuthUser {
	return AuthUser{ID: u.ID, Email: u.Email, UserName: u.UserName, Role: u.Role}
}

// Profile is the public projection of a user. It never carries the password
// hash or a pending reset token.
type Profile struct {
	ID          string          `json:"id"`
	UserName    string          `json:"userName"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phoneNumber"`
	Role        permission.Role `json:"role"`
	Suspended   bool            `json:"suspended"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		UserName:    u.UserName,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Suspended:   u.Suspended,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type AuthResult struct {
	User         AuthUser `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

type BlacklistedToken struct {
	Token     string    `bson:"token"`
	CreatedAt time.Time `bson:"createdAt"`
}
