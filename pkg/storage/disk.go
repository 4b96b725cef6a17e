// Package storage stores product photos on a pluggable disk: local
// filesystem by default, S3-compatible object storage when configured.
package storage

import "io"

// Disk is the minimal contract a photo store needs.
type Disk interface {
	Put(path string, content []byte) error
	Get(path string) ([]byte, error)
	GetStream(path string) (io.ReadCloser, error)
	Exists(path string) bool
	Delete(path string) error
	URL(path string) string
}
