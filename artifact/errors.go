package artifact

import "fmt"

var (
	// ErrNotFound is returned when an artifact for the given owner / name pair
	// does not exist in the underlying store.
	ErrNotFound = fmt.Errorf("artifact not found")
	// ErrInvalidName is returned for names that would escape the owner scope.
	ErrInvalidName = fmt.Errorf("invalid artifact name")
)
