package upload

import (
	"os"
	"time"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
