package chunk

import "errors"

var (
	// ErrVectorRepositoryRequired is returned when a vector repository is not provided.
	ErrVectorRepositoryRequired = errors.New("vector repository required")
)
