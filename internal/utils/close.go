package utils

import "io"

// Close closes c and ignores any error.
// Use for best-effort cleanup in defer where error handling is not critical,
// such as response bodies and temp files on an error path.
func Close(c io.Closer) {
	_ = c.Close()
}
