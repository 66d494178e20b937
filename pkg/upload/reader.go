package upload

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Reader produces the inline preview for a file. Implementations must honour
// ctx cancellation; the control cancels reads whose file was dropped.
type Reader interface {
	ReadDataURI(ctx context.Context, file File) (string, error)
}

// ReaderFunc adapts a function into a Reader.
type ReaderFunc func(ctx context.Context, file File) (string, error)

func (fn ReaderFunc) ReadDataURI(ctx context.Context, file File) (string, error) {
	return fn(ctx, file)
}

// DataURIReader reads the whole file and encodes it as a base64 data URI.
type DataURIReader struct {
	// MaxBytes caps how much is read; 0 means no cap.
	MaxBytes int64
}

func (r DataURIReader) ReadDataURI(ctx context.Context, file File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if file.Open == nil {
		return "", ErrNotReadable
	}
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("upload: open %s: %w", file.Name, err)
	}
	defer src.Close()

	var reader io.Reader = src
	if r.MaxBytes > 0 {
		reader = io.LimitReader(src, r.MaxBytes+1)
	}
	payload, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("upload: read %s: %w", file.Name, err)
	}
	if r.MaxBytes > 0 && int64(len(payload)) > r.MaxBytes {
		return "", fmt.Errorf("upload: read %s: %w", file.Name, ErrFileTooLarge)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return EncodeDataURI(detectType(file), payload), nil
}

// EncodeDataURI builds a base64 data URI for payload.
func EncodeDataURI(mimeType string, payload []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	var b strings.Builder
	b.Grow(len(mimeType) + 13 + base64.StdEncoding.EncodedLen(len(payload)))
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(payload))
	return b.String()
}

// CachedReader memoises previews so re-adding the same file skips the read.
// Entries are keyed by name, size and type.
type CachedReader struct {
	next  Reader
	cache *lru.Cache[string, string]
}

// NewCachedReader wraps next with an LRU of the given size.
func NewCachedReader(next Reader, size int) (*CachedReader, error) {
	if next == nil {
		return nil, fmt.Errorf("upload: cached reader requires a reader")
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("upload: preview cache: %w", err)
	}
	return &CachedReader{next: next, cache: cache}, nil
}

func (r *CachedReader) ReadDataURI(ctx context.Context, file File) (string, error) {
	key := cacheKey(file)
	if uri, ok := r.cache.Get(key); ok {
		return uri, nil
	}
	uri, err := r.next.ReadDataURI(ctx, file)
	if err != nil {
		return "", err
	}
	r.cache.Add(key, uri)
	return uri, nil
}

// Len reports the number of cached previews.
func (r *CachedReader) Len() int {
	return r.cache.Len()
}

func cacheKey(file File) string {
	return file.Name + "|" + strconv.FormatInt(file.Size, 10) + "|" + detectType(file)
}
