package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRecordDerivesMetadata(t *testing.T) {
	cases := []struct {
		file File
		want Record
	}{
		{
			file: File{Name: "Report.Final.PDF", Size: 10, Type: "application/pdf"},
			want: Record{Name: "Report.Final.PDF", Size: 10, Type: "application/pdf", Extension: "pdf"},
		},
		{
			file: File{Name: "README", Size: 3, Type: "text/plain"},
			want: Record{Name: "README", Size: 3, Type: "text/plain", Extension: ""},
		},
		{
			file: File{Name: "photo.JPG", Size: 7},
			want: Record{Name: "photo.JPG", Size: 7, Type: "image/jpeg", Extension: "jpg"},
		},
		{
			file: File{Name: "archive.", Size: 1, Type: "application/zip"},
			want: Record{Name: "archive.", Size: 1, Type: "application/zip", Extension: ""},
		},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, NewRecord(tc.file)); diff != "" {
			t.Fatalf("record for %q mismatch (-want +got):\n%s", tc.file.Name, diff)
		}
	}
}

func TestIconLookup(t *testing.T) {
	cases := map[string]string{
		"pdf":  "bi-file-earmark-pdf text-danger",
		"docx": "bi-file-earmark-word text-primary",
		"rar":  "bi-file-earmark-zip text-secondary",
		"txt":  "bi-file-earmark-text text-dark",
		"":     "bi-file-earmark text-muted",
		"psd":  "bi-file-earmark text-muted",
	}
	for ext, want := range cases {
		if got := Icon(ext); got != want {
			t.Fatalf("icon %q: want %q, got %q", ext, want, got)
		}
	}
}

func TestFormatSize(t *testing.T) {
	cases := map[int64]string{
		0:        "0 Bytes",
		-1:       "0 Bytes",
		512:      "512 Bytes",
		1234:     "1.21 KB",
		1536:     "1.5 KB",
		1048576:  "1 MB",
		10485760: "10 MB",
		1 << 30:  "1 GB",
		5 << 40:  "5120 GB",
	}
	for in, want := range cases {
		if got := FormatSize(in); got != want {
			t.Fatalf("format %d: want %q, got %q", in, want, got)
		}
	}
}

func TestDataURIReaderEncodesContent(t *testing.T) {
	f := File{
		Name: "hi.txt",
		Type: "text/plain",
		Open: func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader("hi")), nil },
	}
	uri, err := DataURIReader{}.ReadDataURI(context.Background(), f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if uri != "data:text/plain;base64,aGk=" {
		t.Fatalf("unexpected uri %q", uri)
	}

	_, err = DataURIReader{MaxBytes: 1}.ReadDataURI(context.Background(), f)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected size error, got %v", err)
	}

	_, err = DataURIReader{}.ReadDataURI(context.Background(), File{Name: "x"})
	if !errors.Is(err, ErrNotReadable) {
		t.Fatalf("expected not readable, got %v", err)
	}
}

func TestCachedReaderSkipsRepeatReads(t *testing.T) {
	var calls atomic.Int32
	inner := ReaderFunc(func(_ context.Context, f File) (string, error) {
		calls.Add(1)
		return "data:image/png;base64," + f.Name, nil
	})
	cached, err := NewCachedReader(inner, 8)
	if err != nil {
		t.Fatalf("new cached reader: %v", err)
	}

	f := File{Name: "a.png", Size: 1, Type: "image/png"}
	for i := 0; i < 3; i++ {
		if _, err := cached.ReadDataURI(context.Background(), f); err != nil {
			t.Fatalf("read: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single inner read, got %d", got)
	}
	if cached.Len() != 1 {
		t.Fatalf("expected one cached entry, got %d", cached.Len())
	}

	if _, err := NewCachedReader(nil, 8); err == nil {
		t.Fatalf("expected error for nil reader")
	}
}

func TestFilterAccept(t *testing.T) {
	f := Filter{Allowed: []string{"image/*", " ", "application/pdf"}}
	if got := f.Accept(); got != "image/*,application/pdf" {
		t.Fatalf("accept: got %q", got)
	}
}
