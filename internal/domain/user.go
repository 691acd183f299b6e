package domain

import (
	"context"
	"time"
)

// ReservedUsername cannot be registered because it collides with the /users/me/ route.
const ReservedUsername = "me"

// User represents an account. The email is the login identifier.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"size:254;uniqueIndex;not null"`
	Username  string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	FirstName string    `json:"first_name" gorm:"size:150;not null"`
	LastName  string    `json:"last_name" gorm:"size:150;not null"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash
	IsActive  bool      `json:"-" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"-"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context, limit, offset int) ([]User, int64, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}
