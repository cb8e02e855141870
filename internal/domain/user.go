// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"

	"github.com/google/uuid"
)

const (
	MaxUserIDLen   = 64
	MaxUsernameLen = 36
)

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUserIDEmpty     = errors.New("user id empty")
	ErrUserIDTooLong   = errors.New("user id too long")
	ErrInvalidStatus   = errors.New("invalid status")
)

type (
	UserID string
	// ConnID identifies one live transport connection.
	ConnID string
)

// NewConnID returns a fresh connection id.
func NewConnID() ConnID { return ConnID(uuid.NewString()) }

type Status string

const (
	StatusOnline    Status = "online"
	StatusIdle      Status = "idle"
	StatusDND       Status = "dnd"
	StatusInvisible Status = "invisible"
	StatusOffline   Status = "offline"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOnline, StatusIdle, StatusDND, StatusInvisible, StatusOffline:
		return true
	}
	return false
}

type User struct {
	ID       UserID `json:"userId"`
	Username string `json:"username"`
	Status   Status `json:"status"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
// An empty status is accepted and left for the registry to default.
func NewUser(id UserID, username string, status Status) (*User, error) {
	if id == "" {
		return nil, ErrUserIDEmpty
	}
	if len(id) > MaxUserIDLen {
		return nil, ErrUserIDTooLong
	}
	if len(username) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return &User{ID: id, Username: username, Status: status}, nil
}

// Connection is one registry entry: a live connection and the identity it carries.
type Connection struct {
	ConnectionID ConnID `json:"connectionId"`
	User
}
