package upload

import (
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-formkit/pkg/control"
)

// File is the handle type accepted by the control.
type File = control.File

// Record is the metadata kept for an accepted file. Records are immutable once
// created.
type Record struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Type      string `json:"type"`
	Extension string `json:"extension"`
	// Preview holds a data URI for images and is empty otherwise.
	Preview string `json:"data,omitempty"`
}

// IsImage reports whether the record's MIME type is an image type.
func (r Record) IsImage() bool {
	return IsImage(r.Type)
}

// Icon returns the icon class for the record's extension.
func (r Record) Icon() string {
	return Icon(r.Extension)
}

// NewRecord derives the metadata for f. The preview is filled in later for
// images.
func NewRecord(f File) Record {
	return Record{
		Name:      f.Name,
		Size:      f.Size,
		Type:      detectType(f),
		Extension: Extension(f.Name),
	}
}

// Extension returns the lower-cased text after the last '.' in name, or "".
func Extension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// IsImage reports whether a MIME type starts with "image/".
func IsImage(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}

func detectType(f File) string {
	if t := strings.TrimSpace(f.Type); t != "" {
		return t
	}
	ext := Extension(f.Name)
	if ext == "" {
		return ""
	}
	t := mime.TypeByExtension("." + ext)
	if idx := strings.IndexByte(t, ';'); idx >= 0 {
		t = t[:idx]
	}
	return strings.TrimSpace(t)
}

// FileFromPath builds a handle for a file on disk.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, &os.PathError{Op: "open", Path: path, Err: ErrNotReadable}
	}
	f := File{
		Name: filepath.Base(path),
		Size: info.Size(),
	}
	f.Type = detectType(f)
	f.Open = func() (io.ReadCloser, error) {
		handle, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		return handle, nil
	}
	return f, nil
}
