package domain

import (
	"net/mail"
	"strings"
	"time"
)

type User struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
	CreatedAt time.Time
}

// DisplayName prefers the profile name and falls back to the email address.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Profile is the user-editable metadata attached to an account.
// Empty fields are left unchanged when merged.
type Profile struct {
	Name      string
	AvatarURL string
}

func (p Profile) MergeInto(u User) User {
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.AvatarURL != "" {
		u.AvatarURL = p.AvatarURL
	}
	return u
}

// MinPasswordLen matches the hosted auth provider's default policy.
const MinPasswordLen = 6

// ValidateCredentials checks sign-in and sign-up input before it reaches a backend.
func ValidateCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("email", "Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalid("email", "Please enter a valid email address")
	}
	if len(password) < MinPasswordLen {
		return invalid("password", "Password must be at least %d characters", MinPasswordLen)
	}
	return nil
}
