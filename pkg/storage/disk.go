// Package storage abstracts where project attachments live.
//
// Two drivers exist: "local" (default) and "s3" (AWS S3 or any
// S3-compatible store). Boot once with Connect, then use the package
// helpers against the default disk or pick one with Use.
package storage

import "io"

// Disk is the driver interface.
type Disk interface {
	Put(path string, content []byte) error
	PutStream(path string, r io.Reader) error
	Get(path string) ([]byte, error)
	GetStream(path string) (io.ReadCloser, error)
	Exists(path string) bool
	Delete(path string) error
	// URL returns the public URL for path.
	URL(path string) string
}
