package utils

import (
	"strconv"
	"strings"
)

const sizeStep = 1024

var sizeUnits = [...]string{"B", "KiB", "MiB", "GiB", "TiB"}

// FormatFileSize renders a snapshot length with binary units and at most one decimal,
// for example "512 B" or "1.5 KiB". Negative lengths render as zero.
func FormatFileSize(byteCount int64) string {
	if byteCount < sizeStep {
		return strconv.FormatInt(max(byteCount, 0), 10) + " " + sizeUnits[0]
	}
	scaled := float64(byteCount)
	unitIndex := 0
	for scaled >= sizeStep && unitIndex < len(sizeUnits)-1 {
		scaled /= sizeStep
		unitIndex++
	}
	rendered := strings.TrimSuffix(strconv.FormatFloat(scaled, 'f', 1, 64), ".0")
	return rendered + " " + sizeUnits[unitIndex]
}
