package content

import (
	"errors"

	"github.com/harleyposts/backend/internal/repository"
)

var (
	// ErrDuplicateContent means an identical submission already exists.
	ErrDuplicateContent = errors.New("duplicate content")

	// ErrNotFound aliases the repository sentinel so callers can match
	// either one.
	ErrNotFound = repository.ErrNotFound

	// ErrInappropriateLanguage means moderation flagged the submission.
	// The flagged item has already been persisted with censored=true when
	// this is returned.
	ErrInappropriateLanguage = errors.New("contains inappropriate language")
)
