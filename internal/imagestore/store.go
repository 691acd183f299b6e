// Package imagestore keeps uploaded recipe images on the local filesystem.
package imagestore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	// Register decoders for image.Decode.
	_ "image/gif"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
)

// Subdir is where recipe images live below the media root.
const Subdir = "recipes/images"

const jpegQuality = 85

// DefaultMaxPixels bounds the decoded size when Config.MaxPixels is unset
const DefaultMaxPixels = 24_000_000

// Config controls where images are written and how they are served
type Config struct {
	// Root is the media directory on disk.
	Root string
	// URL is the public prefix the media directory is served under.
	URL      string
	MaxWidth int
	MaxBytes int64
	// MaxPixels caps width*height declared by the image header.
	MaxPixels int
}

// Store implements domain.ImageStore on top of a directory
type Store struct {
	dir       string
	url       string
	maxWidth  int
	maxBytes  int64
	maxPixels int
	mu        sync.RWMutex
}

// New creates the image directory and returns a store writing into it
func New(cfg Config) (*Store, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("media root cannot be empty")
	}
	dir := filepath.Join(cfg.Root, filepath.FromSlash(Subdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	url := cfg.URL
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}

	maxPixels := cfg.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	return &Store{dir: dir, url: url, maxWidth: cfg.MaxWidth, maxBytes: cfg.MaxBytes, maxPixels: maxPixels}, nil
}

// Save decodes a data:image/<ext>;base64,<payload> URI, downscales it when it is
// wider than the configured maximum and writes it under a random name.
func (s *Store) Save(ctx context.Context, dataURI string) (string, error) {
	payload, err := s.decodeURI(dataURI)
	if err != nil {
		return "", err
	}

	// the header is checked first so a small payload cannot declare a huge canvas
	header, _, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return "", apperr.FieldValidation("image", "file is not a valid image")
	}
	if int64(header.Width)*int64(header.Height) > int64(s.maxPixels) {
		return "", apperr.FieldValidation("image",
			fmt.Sprintf("image is %dx%d, at most %d pixels are allowed", header.Width, header.Height, s.maxPixels))
	}

	img, format, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return "", apperr.FieldValidation("image", "file is not a valid image")
	}

	img = s.fit(img)

	ext := "png"
	if format == "jpeg" {
		ext = "jpg"
	}
	name := uuid.NewString() + "." + ext

	var buf bytes.Buffer
	if ext == "jpg" {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	} else {
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("failed to encode image: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(filepath.Join(s.dir, name), buf.Bytes(), 0o644); err != nil {
		return "", apperr.Internal(fmt.Errorf("failed to write image file: %w", err))
	}

	logger.Debug(ctx).
		Str("file", name).
		Str("source_format", format).
		Int("width", img.Bounds().Dx()).
		Msg("Image stored")

	return s.url + Subdir + "/" + name, nil
}

// Remove deletes the image behind ref. References that do not point into the
// store are ignored.
func (s *Store) Remove(ctx context.Context, ref string) error {
	name, ok := s.fileName(ref)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	logger.Debug(ctx).Str("file", name).Msg("Image removed")
	return nil
}

// Handler serves stored images under the public URL. Directory listings are not exposed.
func (s *Store) Handler() http.Handler {
	files := http.StripPrefix(s.url+Subdir+"/", http.FileServer(http.Dir(s.dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.fileName(r.URL.Path); !ok {
			http.NotFound(w, r)
			return
		}
		s.mu.RLock()
		defer s.mu.RUnlock()
		files.ServeHTTP(w, r)
	})
}

// Prefix is the URL path that Handler serves
func (s *Store) Prefix() string {
	return s.url + Subdir + "/"
}

func (s *Store) decodeURI(dataURI string) ([]byte, error) {
	meta, data, ok := strings.Cut(dataURI, ",")
	if !ok || !strings.HasPrefix(meta, "data:image/") || !strings.HasSuffix(meta, ";base64") {
		return nil, apperr.FieldValidation("image", "must be a base64 encoded data:image URI")
	}

	if s.maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(data))) > s.maxBytes+2 {
		return nil, apperr.FieldValidation("image", fmt.Sprintf("must not exceed %d bytes", s.maxBytes))
	}

	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, apperr.FieldValidation("image", "invalid base64 payload")
	}
	if len(payload) == 0 {
		return nil, apperr.FieldValidation("image", "image is empty")
	}
	if s.maxBytes > 0 && int64(len(payload)) > s.maxBytes {
		return nil, apperr.FieldValidation("image", fmt.Sprintf("must not exceed %d bytes", s.maxBytes))
	}
	return payload, nil
}

// fit scales img down to maxWidth keeping the aspect ratio
func (s *Store) fit(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if s.maxWidth <= 0 || width <= s.maxWidth {
		return img
	}

	ratio := float64(s.maxWidth) / float64(width)
	height = max(1, int(float64(height)*ratio))

	dst := image.NewRGBA(image.Rect(0, 0, s.maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// fileName extracts the stored file name from a public reference
func (s *Store) fileName(ref string) (string, bool) {
	name, ok := strings.CutPrefix(ref, s.url+Subdir+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", false
	}
	return name, true
}
