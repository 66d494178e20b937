package control

// View is an immutable snapshot of a control for renderers.
type View struct {
	ID          string       `json:"id"`
	Name        string       `json:"name,omitempty"`
	Label       string       `json:"label,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
	Hint        string       `json:"hint,omitempty"`
	Kind        Kind         `json:"kind"`
	Mode        RenderMode   `json:"mode"`
	InputType   string       `json:"inputType,omitempty"`
	Text        string       `json:"text"`
	Checked     bool         `json:"checked"`
	Options     []OptionView `json:"options,omitempty"`
	Disabled    bool         `json:"disabled"`
	Touched     bool         `json:"touched"`
	Invalid     bool         `json:"invalid"`
	// Error is only populated when Invalid is true.
	Error string `json:"error,omitempty"`
}

// OptionView is a catalog entry with its selection state resolved.
type OptionView struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// View snapshots the control.
func (c *Control) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()

	mode := c.kind.Mode()
	view := View{
		ID:          c.attrs.ID,
		Name:        c.attrs.Name,
		Label:       c.attrs.Label,
		Placeholder: c.attrs.Placeholder,
		Hint:        c.attrs.Hint,
		Kind:        c.kind,
		Mode:        mode,
		InputType:   mode.InputType(),
		Text:        c.value.Text(),
		Disabled:    c.disabled,
		Touched:     c.touched,
		Invalid:     c.touched && c.err != "",
	}
	if checked, ok := c.value.AsBool(); ok {
		view.Checked = checked
	}
	if view.Invalid {
		view.Error = c.err
	}
	if mode.UsesOptions() {
		selected := c.value.Text()
		view.Options = make([]OptionView, len(c.attrs.Options))
		for idx, opt := range c.attrs.Options {
			raw := OptionString(opt.Value)
			view.Options[idx] = OptionView{
				ID:       optionID(c.attrs.ID, idx),
				Label:    opt.Label,
				Value:    raw,
				Selected: !c.value.IsNull() && raw == selected,
			}
		}
	}
	return view
}

func optionID(controlID string, idx int) string {
	return controlID + "-" + OptionString(idx)
}
