package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	fileNamePrefix = "Demand_Letter_"
	fileNameExt    = ".docx"
	maxFileNameLen = 50
)

var (
	titleCharFilter = regexp.MustCompile(`[^a-zA-Z0-9\s_-]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// FileName builds the artifact name for an exported letter:
// Demand_Letter_<title>_<YYYY-MM-DD>.docx, capped at 50 characters. The title
// keeps only alphanumerics, spaces, underscores and hyphens, with whitespace
// folded to underscores; the date is never truncated. An unusable title
// degrades to Demand_Letter_<date>.docx.
func FileName(title string, date time.Time) string {
	dateStr := date.UTC().Format("2006-01-02")

	sanitized := titleCharFilter.ReplaceAllString(title, "")
	sanitized = whitespaceRuns.ReplaceAllString(strings.TrimSpace(sanitized), "_")
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		return fileNamePrefix + dateStr + fileNameExt
	}

	name := fmt.Sprintf("%s%s_%s%s", fileNamePrefix, sanitized, dateStr, fileNameExt)
	if len(name) <= maxFileNameLen {
		return name
	}

	maxTitle := maxFileNameLen - len(fileNamePrefix) - len(dateStr) - len(fileNameExt) - 1
	if maxTitle <= 0 {
		return fileNamePrefix + dateStr + fileNameExt
	}
	truncated := strings.Trim(sanitized[:maxTitle], "_")
	if truncated == "" {
		return fileNamePrefix + dateStr + fileNameExt
	}
	return fmt.Sprintf("%s%s_%s%s", fileNamePrefix, truncated, dateStr, fileNameExt)
}
