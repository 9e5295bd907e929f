package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMalformedID         = errors.New("user: malformed id")
	ErrNotFound            = errors.New("user: not found")
	ErrIDRequired          = errors.New("user: id is required")
	ErrUsernameRequired    = errors.New("user: username is required")
	ErrEmailRequired       = errors.New("user: email is required")
	ErrPasswordHashMissing = errors.New("user: password hash is required")
	ErrUsernameAlreadyUsed = errors.New("user: username already used")
	ErrEmailAlreadyUsed    = errors.New("user: email already used")
)

type ID string

func NewID() ID {
	return ID(primitive.NewObjectID().Hex())
}

func ParseID(raw string) (ID, error) {
	if _, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw)); err != nil {
		return "", ErrMalformedID
	}
	return ID(strings.TrimSpace(raw)), nil
}

// User is a principal. Identity fields are immutable after registration and
// users are never deleted by any flow in this service.
type User struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByIDs(ctx context.Context, ids []ID) (map[ID]*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)
	Save(ctx context.Context, u *User) error
}

type CreateParams struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func New(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	username := NormalizeUsername(params.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	email := NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &User{
		ID:           ID(id),
		Username:     username,
		Email:        email,
		PasswordHash: params.PasswordHash,
		CreatedAt:    now.UTC(),
	}, nil
}

func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
