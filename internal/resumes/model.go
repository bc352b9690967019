package resumes

import (
	"time"

	"jobmatch-backend/internal/shared/pagination"
	"jobmatch-backend/internal/users"
)

type Resume struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Salary        *float64      `json:"salary"`
	AuthorID      string        `json:"authorId"`
	Author        users.Profile `json:"author"`
	AttachmentKey string        `json:"attachmentKey,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Salary      *float64 `json:"salary"`
}

// UpdateInput changes only the fields that are set.
type UpdateInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Salary      *float64 `json:"salary"`
}

type ListFilter struct {
	IDs  []string
	Page int
}

type ListResult struct {
	Resumes    []Resume        `json:"resumes"`
	Pagination pagination.Info `json:"pagination"`
}
