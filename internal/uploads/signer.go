// Package uploads issues time-limited pre-signed URLs for statement file
// uploads. The uploaded content itself is never read by this service.
package uploads

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// urlTTL bounds how long an issued upload URL stays valid.
const urlTTL = 15 * time.Minute

// Signer produces signed PUT URLs into one bucket. The storage client is
// injected and shared across requests.
type Signer struct {
	client *storage.Client
	bucket string
}

func NewSigner(client *storage.Client, bucket string) *Signer {
	return &Signer{client: client, bucket: bucket}
}

// SignedUpload is the response the frontend needs to perform the upload.
type SignedUpload struct {
	UploadURL  string    `json:"uploadUrl"`
	ObjectName string    `json:"objectName"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// CreateUploadURL generates a unique object name under the user's import
// prefix and signs a V4 PUT URL for it.
func (s *Signer) CreateUploadURL(ctx context.Context, userID, filename, contentType string) (*SignedUpload, error) {
	if s.bucket == "" {
		return nil, fmt.Errorf("no upload bucket configured")
	}

	// Strip any path the client sent along with the filename.
	filename = filepath.Base(filename)
	objectName := fmt.Sprintf("imports/%s/%s/%s-%s",
		userID, time.Now().Format("2006/01/02"), uuid.New().String(), filename)

	expires := time.Now().Add(urlTTL)
	opts := &storage.SignedURLOptions{
		Method:      "PUT",
		Expires:     expires,
		ContentType: contentType,
		Scheme:      storage.SigningSchemeV4,
	}

	url, err := s.client.Bucket(s.bucket).SignedURL(objectName, opts)
	if err != nil {
		return nil, fmt.Errorf("sign upload URL for %s: %w", objectName, err)
	}

	return &SignedUpload{
		UploadURL:  url,
		ObjectName: objectName,
		ExpiresAt:  expires,
	}, nil
}
