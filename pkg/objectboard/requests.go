package objectboard

import "io"

// Request DTOs

// CreateObjectRequest contains parameters for registering a new object. Data
// carries the image bytes; File describes them.
type CreateObjectRequest struct {
	Title       string
	Description string
	Data        io.Reader
	File        FileInfo
}
