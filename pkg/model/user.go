package model

import (
	"time"
)

const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleBranch = "branch"
)

// CartData maps product id to size to quantity.
type CartData map[string]map[string]int

type User struct {
	ID                string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name              string    `json:"name" bson:"name"`
	Email             string    `json:"email" bson:"email"`
	PasswordHash      string    `json:"-" bson:"password_hash"`
	Role              string    `json:"role" bson:"role"`
	Gym               string    `json:"gym,omitempty" bson:"gym,omitempty"`
	CartData          CartData  `json:"cart_data" bson:"cart_data"`
	EmailVerified     bool      `json:"is_verified" bson:"is_verified"`
	CredentialVersion int       `json:"-" bson:"credential_version"`
	PasswordUpdatedAt time.Time `json:"-" bson:"password_updated_at"`
	OTPHash           string    `json:"-" bson:"otp_hash,omitempty"`
	OTPExpiresAt      time.Time `json:"-" bson:"otp_expires_at,omitempty"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// HasLiveOTP reports whether a login code was issued and has not expired.
func (u *User) HasLiveOTP(now time.Time) bool {
	return u.OTPHash != "" && now.Before(u.OTPExpiresAt)
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest carries the emailed one-time code on the second login step.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	OTP      string `json:"otp,omitempty" validate:"omitempty,len=6,numeric"`
}

type OTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type CartItemRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Size     string `json:"size" validate:"required,max=20"`
	Quantity int    `json:"quantity" validate:"gte=0,lte=1000"`
}

// AuthResponse has either a token or RequiresOTP set. requiresOTP keeps
// the key the storefront already reads.
type AuthResponse struct {
	Token       string `json:"token,omitempty"`
	User        *User  `json:"user,omitempty"`
	RequiresOTP bool   `json:"requiresOTP,omitempty"`
	Message     string `json:"message,omitempty"`
}

// BranchUserRequest creates a staff account scoped to one gym.
type BranchUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Gym      string `json:"gym" validate:"required,max=100"`
}
