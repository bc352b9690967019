package users

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCandidate Role = "CANDIDATE"
	RoleHR        Role = "HR"
)

// ParseRole accepts a role name case-insensitively.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleCandidate:
		return RoleCandidate, true
	case RoleHR:
		return RoleHR, true
	default:
		return "", false
	}
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	FullName     string    `json:"fullName,omitempty"`
	PictureURL   string    `json:"pictureUrl,omitempty"`
	PasswordHash string    `json:"-"`
	ExternalID   string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is the public view of a user embedded in resumes, vacancies and matches.
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	FullName string `json:"fullName,omitempty"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, Role: u.Role, FullName: u.FullName}
}
