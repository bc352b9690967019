package vacancies

import "errors"

var (
	ErrNotFound = errors.New("vacancy not found")
	ErrInUse    = errors.New("vacancy is referenced by a match")
)
