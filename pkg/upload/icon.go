package upload

import "github.com/dustin/go-humanize"

const defaultIcon = "bi-file-earmark text-muted"

var icons = map[string]string{
	"pdf":  "bi-file-earmark-pdf text-danger",
	"doc":  "bi-file-earmark-word text-primary",
	"docx": "bi-file-earmark-word text-primary",
	"xls":  "bi-file-earmark-excel text-success",
	"xlsx": "bi-file-earmark-excel text-success",
	"ppt":  "bi-file-earmark-slides text-warning",
	"pptx": "bi-file-earmark-slides text-warning",
	"zip":  "bi-file-earmark-zip text-secondary",
	"rar":  "bi-file-earmark-zip text-secondary",
	"txt":  "bi-file-earmark-text text-dark",
}

// Icon maps a lower-cased extension to an icon class.
func Icon(extension string) string {
	if icon, ok := icons[extension]; ok {
		return icon
	}
	return defaultIcon
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders a byte count in 1024 steps with at most two decimals,
// e.g. "0 Bytes", "1.5 KB", "10 MB". Sizes past GB stay in GB.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	return humanize.FtoaWithDigits(size, 2) + " " + sizeUnits[unit]
}
