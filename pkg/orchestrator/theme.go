package orchestrator

import (
	"fmt"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// resolveTheme asks the selector for a theme and flattens the manifest, with
// variant entries overriding the base ones. It returns nil without a selector.
func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	if selection == nil {
		return nil, nil
	}
	return rendererConfig(selection), nil
}

func rendererConfig(selection *theme.Selection) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: map[string]string{},
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}

	files := map[string]string{}
	prefix := ""
	if manifest := selection.Manifest; manifest != nil {
		mergeStringMap(cfg.Partials, manifest.Templates)
		mergeStringMap(cfg.Tokens, manifest.Tokens)
		mergeStringMap(files, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if v, ok := manifest.Variants[selection.Variant]; ok {
			mergeStringMap(cfg.Partials, v.Templates)
			mergeStringMap(cfg.Tokens, v.Tokens)
			mergeStringMap(files, v.Assets.Files)
			if v.Assets.Prefix != "" {
				prefix = v.Assets.Prefix
			}
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.Contains(file, "://") || prefix == "" {
			return file
		}
		return path.Join(prefix, file)
	}
	return cfg
}
