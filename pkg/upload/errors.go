package upload

import "errors"

var (
	// ErrTypeNotAllowed reports a file whose MIME type matches none of the
	// allowed types.
	ErrTypeNotAllowed = errors.New("upload: file type not allowed")
	// ErrFileTooLarge reports a file above the configured size ceiling.
	ErrFileTooLarge = errors.New("upload: file too large")
	// ErrPreviewFailed reports an image whose preview could not be read.
	ErrPreviewFailed = errors.New("upload: preview read failed")
	// ErrNotReadable is returned by readers for handles without content.
	ErrNotReadable = errors.New("upload: file handle is not readable")
)

// Rejection describes a file that was not added to the list.
type Rejection struct {
	File   File
	Reason error
}

func (r Rejection) Error() string {
	if r.Reason == nil {
		return "upload: " + r.File.Name + " rejected"
	}
	return r.Reason.Error() + ": " + r.File.Name
}

func (r Rejection) Unwrap() error {
	return r.Reason
}
