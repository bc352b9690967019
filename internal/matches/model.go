package matches

import (
	"fmt"
	"strings"
	"time"

	"jobmatch-backend/internal/resumes"
	"jobmatch-backend/internal/shared/apperr"
	"jobmatch-backend/internal/shared/pagination"
	"jobmatch-backend/internal/users"
	"jobmatch-backend/internal/vacancies"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

// ParseStatus accepts the four match statuses; anything else is a validation error.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToUpper(strings.TrimSpace(raw))); s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCanceled:
		return s, nil
	default:
		return "", apperr.Validation(fmt.Sprintf("Unknown match status '%s'", raw))
	}
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusCanceled
}

// Match links one resume and one vacancy through a sender and a receiver.
// Only Status and UpdatedAt change after creation.
type Match struct {
	ID         string    `json:"id"`
	ResumeID   string    `json:"resumeId"`
	VacancyID  string    `json:"vacancyId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Resume   resumes.Resume    `json:"resume"`
	Vacancy  vacancies.Vacancy `json:"vacancy"`
	Sender   users.Profile     `json:"sender"`
	Receiver users.Profile     `json:"receiver"`
}

// IsParty reports whether userID is the sender or the receiver.
func (m Match) IsParty(userID string) bool {
	return userID != "" && (m.SenderID == userID || m.ReceiverID == userID)
}

type ProposeInput struct {
	ResumeID  string `json:"resumeId"`
	VacancyID string `json:"vacancyId"`
}

// Transition is the outcome of a successful status update.
type Transition struct {
	Match Match
	From  Status
}

type ListResult struct {
	Matches    []Match         `json:"matches"`
	Pagination pagination.Info `json:"pagination"`
}
