package user

import (
	"errors"
	"strings"
)

var (
	ErrEmptyUserID     = errors.New("user id cannot be empty")
	ErrUserIDTooLong   = errors.New("user id is too long (max 128 characters)")
	ErrInvalidRole     = errors.New("invalid role")
	ErrEmptyCredential = errors.New("username and password are required")
)

const MaxIDLength = 128

// ID is the opaque sender identity assigned by the chat transport.
type ID string

func NewID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyUserID
	}
	if len(s) > MaxIDLength {
		return "", ErrUserIDTooLong
	}
	return ID(s), nil
}

func (id ID) String() string {
	return string(id)
}

type Credentials struct {
	Username string
	Password string
}

func NewCredentials(username, password string) (Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Credentials{}, ErrEmptyCredential
	}
	return Credentials{Username: username, Password: password}, nil
}
