package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrMobileExists    = errors.New("mobile number already registered")
	ErrInvalidArgument = errors.New("invalid argument")
)
