package httpform

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/elnormous/contenttype"

	"github.com/goliatone/go-formkit/pkg/control"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/html"
	"github.com/goliatone/go-formkit/pkg/upload"
)

const defaultMaxMemory = 32 << 20

var (
	htmlMediaType      = contenttype.NewMediaType("text/html")
	jsonMediaType      = contenttype.NewMediaType("application/json")
	formMediaType      = contenttype.NewMediaType("application/x-www-form-urlencoded")
	multipartMediaType = contenttype.NewMediaType("multipart/form-data")
	responseMediaTypes = []contenttype.MediaType{htmlMediaType, jsonMediaType}
)

// Builder produces a fresh form, for example by re-reading a definition.
type Builder func() (*form.Form, error)

// Option configures a Handler.
type Option func(*Handler)

// WithRenderer sets the renderer used for HTML responses.
func WithRenderer(renderer render.Renderer) Option {
	return func(h *Handler) {
		if renderer != nil {
			h.renderer = renderer
		}
	}
}

// WithRenderOptions supplies the base options (hidden fields, theme) for
// every HTML response. Action and Method are filled from the request when
// empty.
func WithRenderOptions(opts render.RenderOptions) Option {
	return func(h *Handler) {
		h.options = opts
	}
}

// WithMaxMemory bounds the multipart bytes kept in memory per request.
func WithMaxMemory(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxMemory = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Handler is an http.Handler for a single form.
type Handler struct {
	build     Builder
	renderer  render.Renderer
	options   render.RenderOptions
	maxMemory int64
	logger    *slog.Logger

	mu   sync.Mutex
	form *form.Form
}

// New builds the initial form and the handler around it.
func New(build Builder, options ...Option) (*Handler, error) {
	if build == nil {
		return nil, errors.New("httpform: builder is required")
	}
	h := &Handler{
		build:     build,
		maxMemory: defaultMaxMemory,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	if h.renderer == nil {
		renderer, err := html.New(html.WithLogger(h.logger))
		if err != nil {
			return nil, fmt.Errorf("httpform: default renderer: %w", err)
		}
		h.renderer = renderer
	}
	f, err := build()
	if err != nil {
		return nil, fmt.Errorf("httpform: build form: %w", err)
	}
	h.form = f
	return h, nil
}

// Reload replaces the form with a freshly built one. On failure the current
// form is kept.
func (h *Handler) Reload() error {
	f, err := h.build()
	if err != nil {
		return fmt.Errorf("httpform: rebuild form: %w", err)
	}
	h.mu.Lock()
	old := h.form
	h.form = f
	h.mu.Unlock()
	old.Close()
	h.logger.Info("httpform: form reloaded", "form", f.Definition().ID)
	return nil
}

// Form returns the form currently served.
func (h *Handler) Form() *form.Form {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.form
}

// Close releases the current form.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.form.Close()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	accepted, _, err := contenttype.GetAcceptableMediaType(r, responseMediaTypes)
	if err != nil {
		http.Error(w, "acceptable types: text/html, application/json", http.StatusNotAcceptable)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.respond(w, r, accepted, http.StatusOK, nil)
	case http.MethodPost:
		h.handlePost(w, r, accepted)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request, accepted contenttype.MediaType) {
	ctype, err := contenttype.GetMediaType(r)
	if err != nil || !(ctype.Matches(formMediaType) || ctype.Matches(multipartMediaType)) {
		http.Error(w, "content-type must be application/x-www-form-urlencoded or multipart/form-data", http.StatusUnsupportedMediaType)
		return
	}
	if ctype.Matches(multipartMediaType) {
		err = r.ParseMultipartForm(h.maxMemory)
		if r.MultipartForm != nil {
			defer func() { _ = r.MultipartForm.RemoveAll() }()
		}
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	f := h.form
	if r.PostForm.Has("reset") {
		f.Reset()
		h.logger.Debug("httpform: reset", "form", f.Definition().ID)
		h.respond(w, r, accepted, http.StatusOK, nil)
		return
	}

	h.apply(f, r)

	if raw := r.PostForm.Get("remove"); raw != "" {
		if err := removeFile(f, raw); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.respond(w, r, accepted, http.StatusOK, nil)
		return
	}

	values, err := f.Submit()
	if err != nil {
		h.logger.Debug("httpform: submission rejected", "form", f.Definition().ID, "error", err)
		h.respond(w, r, accepted, http.StatusUnprocessableEntity, nil)
		return
	}
	h.logger.Info("httpform: submitted", "form", f.Definition().ID, "fields", len(values))
	h.respond(w, r, accepted, http.StatusOK, values)
}

// apply turns posted fields into control events. A checkbox that is absent
// from the payload is unchecked; other absent fields keep their value.
func (h *Handler) apply(f *form.Form, r *http.Request) {
	for _, entry := range f.Entries() {
		name := entry.Name()
		if up := entry.Upload; up != nil {
			if files := partFiles(r.MultipartForm, name); len(files) > 0 {
				up.AddFiles(files...)
				up.Wait()
			}
			up.HandleBlur()
			continue
		}

		c := entry.Input
		if c.Disabled() {
			continue
		}
		switch {
		case c.Mode() == control.ModeCheckbox:
			c.HandleInput(control.Event{Checked: r.PostForm.Has(name)})
		case r.PostForm.Has(name):
			c.HandleInput(control.Event{Text: r.PostForm.Get(name)})
		}
		c.HandleBlur()
	}
}

func partFiles(mf *multipart.Form, name string) []upload.File {
	if mf == nil {
		return nil
	}
	var files []upload.File
	for _, header := range mf.File[name] {
		if header == nil || header.Filename == "" {
			continue
		}
		files = append(files, upload.File{
			Name: header.Filename,
			Size: header.Size,
			Type: header.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return header.Open()
			},
		})
	}
	return files
}

// removeFile handles the "<field>:<index>" value posted by a remove button.
func removeFile(f *form.Form, raw string) error {
	name, index, ok := strings.Cut(raw, ":")
	if !ok {
		return fmt.Errorf("httpform: malformed remove value %q", raw)
	}
	up, found := f.Upload(name)
	if !found {
		return fmt.Errorf("httpform: %q is not a file field", name)
	}
	idx, err := strconv.Atoi(index)
	if err != nil {
		return fmt.Errorf("httpform: malformed remove index %q", index)
	}
	up.RemoveFile(idx)
	return nil
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, accepted contenttype.MediaType, status int, submitted map[string]any) {
	var (
		body        []byte
		contentType string
		err         error
	)
	if accepted.Matches(jsonMediaType) {
		body, err = json.Marshal(snapshot(h.form, submitted))
		contentType = "application/json"
	} else {
		opts := h.options
		if opts.Action == "" {
			opts.Action = r.URL.Path
		}
		if opts.Method == "" {
			opts.Method = http.MethodPost
		}
		opts.Submitted = submitted
		body, err = h.renderer.Render(r.Context(), h.form, opts)
		contentType = h.renderer.ContentType()
	}
	if err != nil {
		h.logger.Error("httpform: render", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(body); err != nil {
		h.logger.Debug("httpform: write response", "error", err)
	}
}

// State is the JSON view of a form.
type State struct {
	ID        string            `json:"id"`
	Valid     bool              `json:"valid"`
	Dirty     bool              `json:"dirty"`
	Values    map[string]any    `json:"values"`
	Errors    map[string]string `json:"errors,omitempty"`
	Submitted map[string]any    `json:"submitted,omitempty"`
}

// snapshot reports the errors a user would see, i.e. only for touched fields.
func snapshot(f *form.Form, submitted map[string]any) State {
	state := State{
		ID:        f.Definition().ID,
		Valid:     f.Valid(),
		Dirty:     f.Dirty(),
		Values:    render.Finite(f.Values()),
		Submitted: render.Finite(submitted),
	}
	for _, entry := range f.Entries() {
		if msg := f.ErrorMessage(entry.Name()); msg != "" {
			if state.Errors == nil {
				state.Errors = map[string]string{}
			}
			state.Errors[entry.Name()] = msg
		}
	}
	return state
}
