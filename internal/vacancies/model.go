package vacancies

import (
	"time"

	"jobmatch-backend/internal/shared/pagination"
	"jobmatch-backend/internal/users"
)

type Vacancy struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Salary      *float64      `json:"salary"`
	AuthorID    string        `json:"authorId"`
	Author      users.Profile `json:"author"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
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
	Vacancies  []Vacancy       `json:"vacancies"`
	Pagination pagination.Info `json:"pagination"`
}
