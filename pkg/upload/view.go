package upload

// View is an immutable snapshot of an upload control for renderers.
type View struct {
	ID          string     `json:"id"`
	Name        string     `json:"name,omitempty"`
	Label       string     `json:"label"`
	Hint        string     `json:"hint,omitempty"`
	Accept      string     `json:"accept,omitempty"`
	MaxSize     int64      `json:"maxSize"`
	UploadURL   string     `json:"uploadUrl,omitempty"`
	DragActive  bool       `json:"dragActive"`
	Disabled    bool       `json:"disabled"`
	Touched     bool       `json:"touched"`
	Invalid     bool       `json:"invalid"`
	Error       string     `json:"error,omitempty"`
	Files       []FileView `json:"files"`
	Pending     []FileView `json:"pending,omitempty"`
	HasPreviews bool       `json:"hasPreviews"`
}

// FileView is a record as listed by a renderer. Index addresses RemoveFile;
// pending entries cannot be removed and carry -1.
type FileView struct {
	Index int `json:"index"`
	Record
	Image bool   `json:"image"`
	Icon  string `json:"icon"`
}

// View snapshots the control.
func (c *Control) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := View{
		ID:         c.attrs.ID,
		Name:       c.attrs.Name,
		Label:      c.attrs.Label,
		Hint:       c.attrs.Hint,
		Accept:     c.filter.Accept(),
		MaxSize:    c.filter.MaxSize,
		UploadURL:  c.attrs.UploadURL,
		DragActive: c.dragActive,
		Disabled:   c.disabled,
		Touched:    c.touched,
		Invalid:    c.touched && c.err != "",
		Files:      make([]FileView, len(c.files)),
	}
	if view.Invalid {
		view.Error = c.err
	}
	for idx, rec := range c.files {
		view.Files[idx] = newFileView(idx, rec)
		if rec.Preview != "" {
			view.HasPreviews = true
		}
	}
	for _, token := range c.order {
		view.Pending = append(view.Pending, newFileView(-1, c.pending[token].record))
	}
	return view
}

func newFileView(idx int, rec Record) FileView {
	return FileView{Index: idx, Record: rec, Image: rec.IsImage(), Icon: rec.Icon()}
}
