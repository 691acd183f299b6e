package domain

import "context"

// ImageStore persists uploaded recipe images
type ImageStore interface {
	// Save decodes a data URI image and returns its public reference.
	Save(ctx context.Context, dataURI string) (string, error)
	// Remove deletes a stored image by the reference Save returned.
	// Unknown references are ignored.
	Remove(ctx context.Context, ref string) error
}
