package images

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Store deletes uploaded image assets by their public identifier.
// Uploads happen client-side; the backend only holds the returned
// reference string and destroys the asset when the photo is removed.
type Store interface {
	Destroy(ctx context.Context, publicID string) error
}

// CloudinaryStore implements Store against the Cloudinary API
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore creates a CloudinaryStore from a cloudinary:// URL
func NewCloudinaryStore(url string) (*CloudinaryStore, error) {
	if url == "" {
		return nil, fmt.Errorf("cloudinary URL is required")
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

// Destroy removes the asset identified by publicID
func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to destroy asset %s: %w", publicID, err)
	}
	return nil
}
