package domain

import (
	"regexp"
	"strings"
	"time"
)

const (
	MaxVideoIDLen = 100

	PlaceholderDescription = "Auto-generated video entry"
)

var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// dangerous substrings are rejected even when every rune passes the charset
var videoIDDenied = []string{"..", "/", "\\", "%", "<", ">", `"`, "'", "&", ";", "|", "`", "$"}

type Video struct {
	ID          string
	FileID      string
	Title       string
	Description string
	ViewsCount  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidVideoID reports whether id is safe to use as an external video identifier.
// The value comes straight from a query string and is treated as attacker controlled.
func ValidVideoID(id string) bool {
	if len(id) < 1 || len(id) > MaxVideoIDLen {
		return false
	}
	if !videoIDPattern.MatchString(id) {
		return false
	}
	for _, p := range videoIDDenied {
		if strings.Contains(id, p) {
			return false
		}
	}
	return true
}

func ValidateVideoID(id string) error {
	if !ValidVideoID(id) {
		return ErrInvalidVideoID
	}
	return nil
}

func PlaceholderTitle(fileID string) string { return "Video " + fileID }
