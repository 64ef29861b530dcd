package fsutil

import "fmt"

// AccessError reports a sidecar or config file that could not be read or
// written. The in-memory state that triggered the access is left intact.
type AccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}
