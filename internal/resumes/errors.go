package resumes

import "errors"

var (
	ErrNotFound = errors.New("resume not found")
	ErrInUse    = errors.New("resume is referenced by a match")
)
