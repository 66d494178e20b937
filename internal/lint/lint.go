// Package lint reports problems in form definition files that would either
// stop a form from building or silently change how it behaves.
package lint

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/goliatone/go-formkit/pkg/control"
	"github.com/goliatone/go-formkit/pkg/form"
)

// Violation is a single finding.
type Violation struct {
	File     string
	Location string
	Message  string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s -> %s", v.File, v.Location, v.Message)
}

// Paths expands glob patterns (including **) into a sorted, de-duplicated
// list of files. Plain paths are kept as given.
func Paths(patterns []string) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("lint: pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 && !strings.ContainsAny(pattern, "*?[{") {
			matches = []string{pattern}
		}
		for _, match := range matches {
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			out = append(out, match)
		}
	}
	sort.Strings(out)
	return out, nil
}

// File reads and lints one definition.
func File(path string) ([]Violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Definition(path, raw), nil
}

// Definition lints raw definition bytes. file is only used for reporting.
func Definition(file string, data []byte) []Violation {
	def, err := form.ParseDefinition(data, file)
	if err != nil {
		return []Violation{{File: file, Location: "definition", Message: err.Error()}}
	}

	var result []Violation
	if f, err := form.New(def); err != nil {
		result = append(result, Violation{File: file, Location: "definition", Message: err.Error()})
	} else {
		f.Close()
	}

	for _, field := range def.Fields {
		loc := "fields." + field.Name
		for _, msg := range fieldProblems(field) {
			result = append(result, Violation{File: file, Location: loc, Message: msg})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Location == result[j].Location {
			return result[i].Message < result[j].Message
		}
		return result[i].Location < result[j].Location
	})
	return result
}

func fieldProblems(field form.FieldDef) []string {
	var out []string
	mode := field.Kind.Mode()

	if strings.TrimSpace(field.Label) == "" {
		out = append(out, "label is empty")
	}

	switch {
	case mode.UsesOptions() && len(field.Options) == 0:
		out = append(out, fmt.Sprintf("%s field has no options", field.Kind))
	case !mode.UsesOptions() && len(field.Options) > 0:
		out = append(out, fmt.Sprintf("options are ignored for %s fields", field.Kind))
	}
	if mode.UsesOptions() && field.Default != nil && field.Options.Index(field.Default) < 0 {
		out = append(out, fmt.Sprintf("default %v is not one of the options", field.Default))
	}

	if field.Kind != control.KindFile {
		if len(field.AllowedTypes) > 0 || field.MaxFileSize != 0 || field.UploadURL != "" {
			out = append(out, "file settings are ignored for "+string(field.Kind)+" fields")
		}
		return out
	}

	if field.MaxFileSize < 0 {
		out = append(out, "maxFileSize must not be negative")
	}
	for _, pattern := range field.AllowedTypes {
		trimmed := strings.TrimSpace(pattern)
		switch {
		case trimmed == "":
			out = append(out, "allowedTypes contains an empty entry")
		case strings.HasPrefix(trimmed, "."):
		case !strings.Contains(trimmed, "/"):
			out = append(out, fmt.Sprintf("allowed type %q is neither a MIME type nor an extension", trimmed))
		case !doublestar.ValidatePattern(strings.ToLower(trimmed)):
			out = append(out, fmt.Sprintf("allowed type %q is not a valid pattern", trimmed))
		}
	}
	return out
}
