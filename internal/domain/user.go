package domain

import (
	"context"
	"time"
)

// User represents a domain user object
type User struct {
	ID             string
	Username       string
	Email          string
	HashedPassword string
	IsActive       bool
	IsSuperuser    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserProfile is created together with its User; every user has exactly one.
type UserProfile struct {
	UserID        string
	FirstName     string
	LastName      string
	AvatarURL     string
	Bio           string
	CurrentStreak int
	MaxStreak     int
	Currency      int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfileUpdate carries the user editable profile fields.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	AvatarURL string
	Bio       string
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	SetSuperuser(ctx context.Context, userID string, superuser bool) error
}

type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *UserProfile) error
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	// GetProfileForUpdate locks the profile row for the rest of the transaction.
	GetProfileForUpdate(ctx context.Context, userID string) (*UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error
	SetCurrency(ctx context.Context, userID string, currency int64) error
	// AddCurrency atomically adds amount to the stored balance.
	AddCurrency(ctx context.Context, userID string, amount int64) error
}
