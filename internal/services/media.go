package services

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"goddit/internal/config"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const uploadURLTTL = time.Minute

// MediaService hands out pre-signed PUT URLs for image uploads. The server
// never proxies the bytes; clients upload straight to the bucket and submit
// the object key with the post.
type MediaService struct {
	bucket     string
	accessID   string
	privateKey []byte
	Enabled    bool
}

func NewMediaService(cfg *config.Config) *MediaService {
	s := &MediaService{
		bucket:   cfg.GCSBucket,
		accessID: cfg.GCSAccessID,
	}
	if cfg.GCSBucket == "" || cfg.GCSAccessID == "" || cfg.GCSPrivateKey == "" {
		log.Println("MediaService disabled: missing GCS environment variables")
		return s
	}

	key, err := os.ReadFile(cfg.GCSPrivateKey)
	if err != nil {
		log.Printf("MediaService disabled: cannot read GCS private key: %v", err)
		return s
	}
	s.privateKey = key
	s.Enabled = true
	return s
}

// UploadURL signs a PUT URL for one image object. The object key is a fresh
// uuid plus the extension implied by the content type.
func (s *MediaService) UploadURL(contentType string) (uploadURL, key string, err error) {
	if !s.Enabled {
		return "", "", fmt.Errorf("media uploads are not configured")
	}
	ext, ok := strings.CutPrefix(contentType, "image/")
	if !ok || ext == "" {
		return "", "", &ValidationError{Field: "content_type", Message: "only image uploads are supported"}
	}

	key = fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	uploadURL, err = storage.SignedURL(s.bucket, key, &storage.SignedURLOptions{
		GoogleAccessID: s.accessID,
		PrivateKey:     s.privateKey,
		Method:         http.MethodPut,
		Expires:        time.Now().Add(uploadURLTTL),
		ContentType:    contentType,
		Scheme:         storage.SigningSchemeV4,
	})
	if err != nil {
		return "", "", err
	}
	return uploadURL, key, nil
}

// PublicURL turns a stored object key into a fetchable URL.
func (s *MediaService) PublicURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}
