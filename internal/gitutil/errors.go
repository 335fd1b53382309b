package gitutil

import "fmt"

// NotARepositoryError is returned when the working directory is not
// inside a git repository
type NotARepositoryError struct {
	Path string
}

func (e NotARepositoryError) Error() string {
	return fmt.Sprintf("not a git repository: %s", e.Path)
}

// DetachedHeadError is returned when no named branch is checked out
type DetachedHeadError struct {
	Path string
}

func (e DetachedHeadError) Error() string {
	return fmt.Sprintf("no branch checked out in %s (detached HEAD)", e.Path)
}
