package render

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Theme is the template-facing projection of a go-theme RendererConfig.
type Theme struct {
	Name         string            `json:"name,omitempty"`
	Variant      string            `json:"variant,omitempty"`
	Partials     map[string]string `json:"partials,omitempty"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVars      map[string]string `json:"cssVars,omitempty"`
	CSSVarsStyle string            `json:"cssVarsStyle,omitempty"`
	Stylesheet   string            `json:"stylesheet,omitempty"`
}

// StylesheetAsset is the asset key resolved through RendererConfig.AssetURL.
const StylesheetAsset = "formkit.stylesheet"

// BuildTheme copies cfg so renderers can hand it to templates. A nil cfg
// yields the zero Theme.
func BuildTheme(cfg *theme.RendererConfig) Theme {
	if cfg == nil {
		return Theme{}
	}
	out := Theme{
		Name:     cfg.Theme,
		Variant:  cfg.Variant,
		Partials: copyStringMap(cfg.Partials),
		Tokens:   copyStringMap(cfg.Tokens),
		CSSVars:  copyStringMap(cfg.CSSVars),
	}
	out.CSSVarsStyle = cssVarsStyle(out.CSSVars)
	if cfg.AssetURL != nil {
		out.Stylesheet = strings.TrimSpace(cfg.AssetURL(StylesheetAsset))
	}
	return out
}

// Partial returns the template overriding name, or fallback.
func (t Theme) Partial(name, fallback string) string {
	if override := strings.TrimSpace(t.Partials[name]); override != "" {
		return override
	}
	return fallback
}

// Token returns the token value for key, or fallback.
func (t Theme) Token(key, fallback string) string {
	if value := strings.TrimSpace(t.Tokens[key]); value != "" {
		return value
	}
	return fallback
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
