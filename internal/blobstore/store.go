// Package blobstore provides key-value stores of whole text documents.
// Values are replaced as a whole; there are no partial updates or versions.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

//go:generate mockgen -source=store.go -destination=../mocks/blobstore/mock_store.go -package=mock_blobstore

// Store is a key-value store of text blobs.
type Store interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ErrInvalidKey is returned for keys a backend cannot address.
var ErrInvalidKey = errors.New("invalid blob key")

// validateKey rejects keys that are empty or would escape a directory.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || filepath.Base(key) != key {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
