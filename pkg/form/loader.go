package form

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed definitions/profile.yaml
var demoDefinition []byte

// ParseDefinition decodes a JSON or YAML definition. source is only used in
// error messages.
func ParseDefinition(data []byte, source string) (Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Definition{}, fmt.Errorf("form: definition %s is empty", source)
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		def = Definition{}
		if yamlErr := yaml.Unmarshal(data, &def); yamlErr != nil {
			return Definition{}, fmt.Errorf("form: parse %s: invalid JSON or YAML: %w", source, yamlErr)
		}
	}
	if err := def.Validate(); err != nil {
		return Definition{}, fmt.Errorf("form: %s: %w", source, err)
	}
	return def, nil
}

// LoadDefinition reads and parses a definition from fsys.
func LoadDefinition(fsys fs.FS, path string) (Definition, error) {
	if fsys == nil {
		return Definition{}, fmt.Errorf("form: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Definition{}, fmt.Errorf("form: read %s: %w", path, err)
	}
	return ParseDefinition(data, path)
}

// DemoDefinition returns the built-in profile form.
func DemoDefinition() Definition {
	def, err := ParseDefinition(demoDefinition, "profile.yaml")
	if err != nil {
		panic(err)
	}
	return def
}
