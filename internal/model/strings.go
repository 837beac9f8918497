package model

import (
	"strconv"
	"strings"
)

// FormatID renders an id for paths and display.
func FormatID(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
