package upload

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/goliatone/go-formkit/pkg/control"
)

const defaultLabel = "Choose a file"

// Token identifies one in-flight preview read.
type Token string

// Attributes are the declarative properties of an upload control.
type Attributes struct {
	ID        string
	Name      string
	Label     string
	Hint      string
	UploadURL string
}

type pendingRead struct {
	record Record
	cancel context.CancelFunc
}

// Control is the file ingestion control.
type Control struct {
	// emitMu serialises list mutations with their host notification so the
	// host observes lists in the order they were folded.
	emitMu sync.Mutex
	mu     sync.Mutex

	attrs    Attributes
	filter   Filter
	reader   Reader
	host     control.Host[[]Record]
	onReject func(Rejection)
	logger   *slog.Logger

	files      []Record
	pending    map[Token]pendingRead
	order      []Token
	entropy    *ulid.MonotonicEntropy
	inflight   sync.WaitGroup
	dragActive bool
	disabled   bool
	touched    bool
	err        string
}

// New constructs an upload control.
func New(options ...Option) *Control {
	c := &Control{
		attrs:   Attributes{Label: defaultLabel},
		filter:  Filter{MaxSize: DefaultMaxFileSize},
		reader:  DataURIReader{},
		host:    control.Funcs[[]Record]{},
		logger:  discardLogger(),
		pending: make(map[Token]pendingRead),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.attrs.ID == "" {
		c.attrs.ID = control.NewPrefixedID("upload-")
	}
	return c
}

func (c *Control) ID() string { return c.attrs.ID }

func (c *Control) Name() string { return c.attrs.Name }

// Attributes returns the declarative attributes.
func (c *Control) Attributes() Attributes { return c.attrs }

// Filter returns the acceptance filter.
func (c *Control) Filter() Filter {
	return Filter{Allowed: slices.Clone(c.filter.Allowed), MaxSize: c.filter.MaxSize}
}

// AddFiles ingests files in order. Accepted non-images are appended before
// AddFiles returns; accepted images are appended when their preview is ready.
// The returned tokens identify the pending image reads.
func (c *Control) AddFiles(files ...File) []Token {
	if c.Disabled() {
		c.logger.Debug("upload: files ignored while disabled", "id", c.attrs.ID, "count", len(files))
		return nil
	}

	var tokens []Token
	for _, file := range files {
		rec := NewRecord(file)
		if err := c.filter.Check(rec); err != nil {
			c.reject(file, err)
			continue
		}
		if !rec.IsImage() {
			c.fold("", rec)
			continue
		}
		tokens = append(tokens, c.startRead(file, rec))
	}
	return tokens
}

// Drop is AddFiles for a drop gesture; it also clears the drag flag.
func (c *Control) Drop(files ...File) []Token {
	c.SetDragActive(false)
	return c.AddFiles(files...)
}

// RemoveFile deletes the record at index; later records shift down. It
// reports whether a record was removed.
func (c *Control) RemoveFile(index int) bool {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	if c.disabled || index < 0 || index >= len(c.files) {
		c.mu.Unlock()
		return false
	}
	next := make([]Record, 0, len(c.files)-1)
	next = append(next, c.files[:index]...)
	next = append(next, c.files[index+1:]...)
	c.files = next
	snapshot := slices.Clone(next)
	c.mu.Unlock()

	c.host.ValueChanged(snapshot)
	return true
}

// Cancel abandons a pending preview read. Its completion, if it still fires,
// is discarded.
func (c *Control) Cancel(token Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelLocked(token)
}

// SetValue replaces the list with records pushed by the host. Pending reads
// are invalidated and the host is not notified.
func (c *Control) SetValue(records []Record) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	for _, token := range slices.Clone(c.order) {
		c.cancelLocked(token)
	}
	c.files = slices.Clone(records)
	c.mu.Unlock()
}

// Value returns a copy of the current list. It is never nil.
func (c *Control) Value() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.files))
	copy(out, c.files)
	return out
}

// Pending lists tokens of reads that have not completed, in submission order.
func (c *Control) Pending() []Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.order)
}

// PendingRecords lists the records waiting on a preview, in submission order.
func (c *Control) PendingRecords() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, 0, len(c.order))
	for _, token := range c.order {
		out = append(out, c.pending[token].record)
	}
	return out
}

// Wait blocks until every started preview read has settled.
func (c *Control) Wait() {
	c.inflight.Wait()
}

// Close cancels pending reads and waits for their goroutines to exit.
func (c *Control) Close() {
	c.mu.Lock()
	for _, token := range slices.Clone(c.order) {
		c.cancelLocked(token)
	}
	c.mu.Unlock()
	c.inflight.Wait()
}

// SetDragActive toggles the purely visual drag-over flag.
func (c *Control) SetDragActive(active bool) {
	c.mu.Lock()
	c.dragActive = active
	c.mu.Unlock()
}

func (c *Control) DragActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragActive
}

// SetDisabled toggles interactivity; disabled controls ignore additions and
// removals.
func (c *Control) SetDisabled(disabled bool) {
	c.mu.Lock()
	c.disabled = disabled
	c.mu.Unlock()
}

func (c *Control) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// HandleBlur records the first loss of focus and tells the host once.
func (c *Control) HandleBlur() {
	c.mu.Lock()
	if c.touched {
		c.mu.Unlock()
		return
	}
	c.touched = true
	c.mu.Unlock()
	c.host.Touched()
}

func (c *Control) Touched() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched
}

// MarkTouched sets touched without notifying the host.
func (c *Control) MarkTouched() {
	c.mu.Lock()
	c.touched = true
	c.mu.Unlock()
}

// SetError replaces the host supplied error text; "" clears it.
func (c *Control) SetError(message string) {
	c.mu.Lock()
	c.err = message
	c.mu.Unlock()
}

// Error returns the host supplied error text.
func (c *Control) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Invalid reports touched with an error present.
func (c *Control) Invalid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched && c.err != ""
}

// Reset clears the touched flag.
func (c *Control) Reset() {
	c.mu.Lock()
	c.touched = false
	c.mu.Unlock()
}

func (c *Control) startRead(file File, rec Record) Token {
	ctx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	token := Token(ulid.MustNew(ulid.Timestamp(time.Now()), c.entropy).String())
	c.pending[token] = pendingRead{record: rec, cancel: cancel}
	c.order = append(c.order, token)
	c.inflight.Add(1)
	c.mu.Unlock()

	c.logger.Debug("upload: preview read started", "id", c.attrs.ID, "file", rec.Name, "token", token)

	go func() {
		defer c.inflight.Done()
		defer cancel()

		uri, err := c.reader.ReadDataURI(ctx, file)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				c.logger.Debug("upload: preview read cancelled", "file", rec.Name, "token", token)
				return
			}
			if c.Cancel(token) {
				c.logger.Warn("upload: preview read failed", "file", rec.Name, "error", err)
				c.reject(file, errors.Join(ErrPreviewFailed, err))
			}
			return
		}
		rec.Preview = uri
		c.fold(token, rec)
	}()
	return token
}

// fold appends rec onto the latest list and notifies the host. A non-empty
// token must still be live or the record is discarded.
func (c *Control) fold(token Token, rec Record) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	if token != "" {
		if _, live := c.pending[token]; !live {
			c.mu.Unlock()
			c.logger.Debug("upload: discarded stale preview", "file", rec.Name, "token", token)
			return
		}
		c.forgetLocked(token)
	}
	next := make([]Record, len(c.files), len(c.files)+1)
	copy(next, c.files)
	next = append(next, rec)
	c.files = next
	snapshot := slices.Clone(next)
	c.mu.Unlock()

	c.host.ValueChanged(snapshot)
}

func (c *Control) cancelLocked(token Token) bool {
	read, ok := c.pending[token]
	if !ok {
		return false
	}
	read.cancel()
	c.forgetLocked(token)
	return true
}

func (c *Control) forgetLocked(token Token) {
	delete(c.pending, token)
	if idx := slices.Index(c.order, token); idx >= 0 {
		c.order = slices.Delete(c.order, idx, idx+1)
	}
}

func (c *Control) reject(file File, reason error) {
	c.logger.Debug("upload: file rejected", "id", c.attrs.ID, "file", file.Name, "reason", reason)
	if c.onReject != nil {
		c.onReject(Rejection{File: file, Reason: reason})
	}
}
