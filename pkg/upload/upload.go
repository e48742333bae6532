// Package upload stores files posted by file inputs. The browser uploads
// each selected file over HTTP before the change event fires; the event
// then carries temp IDs that handlers resolve against the Store.
package upload

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/filament-ui/filament/pkg/dom"
)

// ErrNotFound is returned when a temp file doesn't exist.
var ErrNotFound = errors.New("upload: file not found")

// ErrExpired is returned when a temp file has expired.
var ErrExpired = errors.New("upload: file expired")

// ErrTooLarge is returned when a file exceeds the size limit.
var ErrTooLarge = errors.New("upload: file too large")

// Store is the interface for upload storage backends.
type Store interface {
	// Save stores the uploaded file and returns a temp ID. The file is
	// held temporarily until Claim is called.
	Save(filename string, contentType string, size int64, r io.Reader) (tempID string, err error)

	// Claim retrieves and removes a temp file.
	Claim(tempID string) (*File, error)

	// Cleanup removes temp files older than maxAge. Call it
	// periodically.
	Cleanup(maxAge time.Duration) error
}

// File is a stored upload retrieved via Claim.
type File struct {
	TempID      string
	Filename    string
	ContentType string
	Size        int64

	// Path is the local filesystem path (DiskStore).
	Path string

	// Reader provides the file contents. May be nil when the file is
	// on disk; use Path instead.
	Reader io.ReadCloser
}

// Close closes the file reader if open.
func (f *File) Close() error {
	if f.Reader != nil {
		return f.Reader.Close()
	}
	return nil
}

// Ref returns the dom.File reference for this upload, as delivered in
// change events for file inputs.
func (f *File) Ref() dom.File {
	return dom.File{
		Name:        f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		TempID:      f.TempID,
	}
}

// Claim resolves a change-event file reference against the store.
//
//	for _, ref := range ev.Files {
//	    file, err := upload.Claim(store, ref)
//	    ...
//	    defer file.Close()
//	}
func Claim(store Store, ref dom.File) (*File, error) {
	return store.Claim(ref.TempID)
}

// Config holds configuration for the upload handler.
type Config struct {
	// MaxFileSize is the maximum allowed file size in bytes.
	// Default: 10MB.
	MaxFileSize int64

	// TempExpiry is how long temp files live before cleanup.
	// Default: 1 hour.
	TempExpiry time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxFileSize: 10 * 1024 * 1024,
		TempExpiry:  time.Hour,
	}
}

// Handler returns an http.Handler for file uploads. Mount it on the
// live router: r.Post("/upload", upload.Handler(store))
//
// The handler expects a multipart form with a "file" field and returns
// the temp ID as JSON:
//
//	{"temp_id": "abc123"}
func Handler(store Store) http.Handler {
	return HandlerWithConfig(store, DefaultConfig())
}

// HandlerWithConfig returns an upload handler with custom configuration.
func HandlerWithConfig(store Store, config *Config) http.Handler {
	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultConfig().MaxFileSize
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Limit the body before parsing so oversized uploads fail fast.
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "No file provided", http.StatusBadRequest)
			return
		}
		defer file.Close()

		tempID, err := store.Save(
			header.Filename,
			header.Header.Get("Content-Type"),
			header.Size,
			file,
		)
		if err != nil {
			if errors.Is(err, ErrTooLarge) {
				http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "Upload failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"temp_id": tempID,
		})
	})
}
