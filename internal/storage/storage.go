package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/yukikurage/event-rsvp/internal/config"
	"github.com/yukikurage/event-rsvp/internal/constants"
	"go.uber.org/zap"
)

var ErrUnsupportedImageType = errors.New("unsupported image type")

// sniffLen is how much of an upload is read to detect its type.
const sniffLen = 512

// Allowed event image MIME types and their canonical extensions.
var (
	AllowedImageTypes = map[string]string{
		"image/jpeg": ".jpg",
		"image/jpg":  ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
		"image/gif":  ".gif",
	}
	AllowedImageExtensions = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".webp": "image/webp",
		".gif":  "image/gif",
	}
)

// ImageStore persists uploaded event images and resolves them to URLs.
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (ImageStore, error) {
	switch cfg.Driver {
	case "local", "":
		return NewLocalStore(cfg.MediaDir, cfg.MediaURL)
	case "s3":
		return NewS3Store(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// ValidateImageType reports whether the content type or the filename extension is an allowed image.
func ValidateImageType(contentType, filename string) bool {
	if contentType != "" {
		if _, ok := AllowedImageTypes[strings.ToLower(contentType)]; ok {
			return true
		}
	}
	_, ok := AllowedImageExtensions[strings.ToLower(path.Ext(filename))]
	return ok
}

// SniffImage detects the image type from the leading bytes of body, ignoring what
// the client claimed. It returns the detected MIME type and a reader that yields the
// whole body again, or ErrUnsupportedImageType when the content is not an allowed image.
func SniffImage(body io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	for _, ct := range imageTypes {
		if detected.Is(ct) {
			return ct, io.MultiReader(bytes.NewReader(head), body), nil
		}
	}
	return "", nil, fmt.Errorf("%w: detected %s", ErrUnsupportedImageType, detected.String())
}

var imageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// ImageKey returns a fresh object key for an uploaded image: event_images/{uuid}{ext}.
// The extension follows contentType when it is an allowed image, else the filename.
func ImageKey(filename, contentType string) (string, error) {
	ext, ok := AllowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		ext = strings.ToLower(path.Ext(filename))
		if ext == ".jpeg" {
			ext = ".jpg"
		}
		if _, ok := AllowedImageExtensions[ext]; !ok {
			return "", ErrUnsupportedImageType
		}
	}
	return path.Join(constants.EventImageFolder, uuid.NewString()+ext), nil
}

// IsUploaded reports whether key refers to an uploaded image rather than the default one.
func IsUploaded(key string) bool {
	return key != "" && key != constants.DefaultEventImage
}
