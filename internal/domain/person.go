package domain

import "time"

type Address struct {
	Street     string `json:"street" dynamodbav:"street"`
	City       string `json:"city" dynamodbav:"city"`
	State      string `json:"state" dynamodbav:"state"`
	PostalCode string `json:"postalCode" dynamodbav:"postal_code"`
	Country    string `json:"country" dynamodbav:"country"`
}

type Person struct {
	PersonID               string     `json:"id" dynamodbav:"person_id"`
	FirstName              string     `json:"firstName" dynamodbav:"first_name"`
	LastName               string     `json:"lastName" dynamodbav:"last_name"`
	Email                  string     `json:"email" dynamodbav:"email"`
	Phone                  string     `json:"phone" dynamodbav:"phone"`
	DateOfBirth            string     `json:"dateOfBirth" dynamodbav:"date_of_birth"` // YYYY-MM-DD
	Address                Address    `json:"address" dynamodbav:"address"`
	IsAdmin                bool       `json:"isAdmin" dynamodbav:"is_admin"`
	IsActive               bool       `json:"isActive" dynamodbav:"is_active"`
	EmailVerified          bool       `json:"emailVerified" dynamodbav:"email_verified"`
	RequirePasswordChange  bool       `json:"requirePasswordChange" dynamodbav:"require_password_change"`
	PasswordHash          string     `json:"-" dynamodbav:"password_hash"`
	LastLoginAt           *time.Time `json:"lastLoginAt,omitempty" dynamodbav:"last_login_at"`
	LastPasswordChange    *time.Time `json:"-" dynamodbav:"last_password_change"`
	// omitempty keeps the refresh_token GSI key attribute absent (rather
	// than an illegal empty key) until the first login.
	RefreshToken     string    `json:"-" dynamodbav:"refresh_token,omitempty"`
	RefreshExpiresAt int64     `json:"-" dynamodbav:"refresh_expires_at,omitempty"`
	CreatedAt        time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type CreatePersonRequest struct {
	FirstName   string  `json:"firstName" validate:"required,max=100"`
	LastName    string  `json:"lastName" validate:"required,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8,max=72"`
	Phone       string  `json:"phone" validate:"max=20"`
	DateOfBirth string  `json:"dateOfBirth" validate:"required"` // expected format: YYYY-MM-DD
	Address     Address `json:"address"`
	IsAdmin     bool    `json:"isAdmin"`
}

// UpdatePersonRequest carries only the fields the caller explicitly sets.
// Address arrives as a raw map because legacy clients still send mixed
// camelCase / snake_case keys; it is normalized in the storage layer.
type UpdatePersonRequest struct {
	FirstName             *string        `json:"firstName"`
	LastName              *string        `json:"lastName"`
	Email                 *string        `json:"email" validate:"omitempty,email"`
	Phone                 *string        `json:"phone"`
	DateOfBirth           *string        `json:"dateOfBirth"`
	Address               map[string]any `json:"address"`
	IsAdmin               *bool          `json:"isAdmin"`
	IsActive              *bool          `json:"isActive"`
	RequirePasswordChange *bool          `json:"requirePasswordChange"`
}
