package mapping

import "fmt"

// CorruptStoreError is returned when the mapping file exists but is not
// well-formed JSON. The file is never silently replaced; the developer
// has to fix or remove it.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e CorruptStoreError) Error() string {
	return fmt.Sprintf("branch mapping file %s is corrupt: %v", e.Path, e.Err)
}

func (e CorruptStoreError) Unwrap() error {
	return e.Err
}

// InvariantViolationError is returned when a save would bind a default
// branch (main/master) to a development branch ID. Default branches
// always mean production.
type InvariantViolationError struct {
	Branch   string
	RemoteID string
}

func (e InvariantViolationError) Error() string {
	return fmt.Sprintf("default branch %q must not be mapped to development branch %s", e.Branch, e.RemoteID)
}
