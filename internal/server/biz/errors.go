package biz

import (
	"errors"
)

var (
	ErrInvalidJWT = errors.New("invalid jwt token")
	ErrInternal   = errors.New("server internal error, please try again later")
)
