package domain

import (
	"context"

	"github.com/khasm-app/khasm/pkg/db/pagination"
)

type CreateCustomerRequest struct {
	Name         string
	MobileNumber string
	IDNumber     string
}

type UpdateCustomerRequest struct {
	ID           string
	Name         *string
	MobileNumber *string
	IDNumber     *string
	IsActive     *bool
}

type ListUserRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	Mobile    string
	Role      string
}

type ListUserFilter struct {
	Name   string
	Mobile string
	Role   string
}

type ListUserResponse struct {
	pagination.PageInfo
	Users []User `json:"users"`
}

type GetUserRequest struct {
	ID string
}

type EnsureAdminRequest struct {
	Name     string
	Email    string
	Password string
}

type Service interface {
	CreateCustomer(context.Context, CreateCustomerRequest) (User, error)
	List(context.Context, ListUserRequest) (ListUserResponse, error)
	GetByID(context.Context, GetUserRequest) (User, error)
	UpdateCustomer(context.Context, UpdateCustomerRequest) (User, error)
	Delete(context.Context, GetUserRequest) error

	// FindByIdentifier resolves a user by email or mobile number. Used by
	// the login flow.
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)

	// UpdatePasswordHash replaces the stored credential for a user.
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error

	// EnsureAdmin creates the bootstrap admin account when no admin
	// exists yet.
	EnsureAdmin(context.Context, EnsureAdminRequest) error
}
