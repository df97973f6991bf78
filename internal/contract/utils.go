package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/pagewatch/a11ymon/schema"
)

// Score band label constants.
const (
	ExcellentValue = "Excellent"
	GoodValue      = "Good"
	FairValue      = "Fair"
	NeedsWorkValue = "Needs work"
	CriticalValue  = "Critical"
	DegradedValue  = "N/A (degraded)"
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold)
	GoodColor      = color.New(color.FgGreen)
	FairColor      = color.New(color.FgYellow)
	NeedsWorkColor = color.New(color.FgMagenta, color.Bold)
	CriticalColor  = color.New(color.FgRed, color.Bold)
	DegradedColor  = color.New(color.FgWhite, color.Faint)
)

// GetPlainLabel returns a plain text band label for a composite score.
// Fully degraded results get a sentinel label instead of a band, since a
// score with no live signal behind it would be misleading. This is the
// core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64, fullyDegraded bool) string {
	if fullyDegraded {
		return DegradedValue
	}
	switch {
	case score >= 95:
		return ExcellentValue
	case score >= 90:
		return GoodValue
	case score >= 80:
		return FairValue
	case score >= 60:
		return NeedsWorkValue
	default:
		return CriticalValue
	}
}

// GetColorLabel returns a colored band label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(score float64, fullyDegraded bool) string {
	text := GetPlainLabel(score, fullyDegraded)

	switch text {
	case ExcellentValue:
		return ExcellentColor.Sprint(text)
	case GoodValue:
		return GoodColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	case NeedsWorkValue:
		return NeedsWorkColor.Sprint(text)
	case DegradedValue:
		return DegradedColor.Sprint(text)
	default: // "Critical"
		return CriticalColor.Sprint(text)
	}
}

// SeverityColor returns the color used to render a finding severity.
func SeverityColor(sev schema.Severity) *color.Color {
	switch sev {
	case schema.SeverityCritical:
		return CriticalColor
	case schema.SeveritySerious:
		return NeedsWorkColor
	case schema.SeverityModerate:
		return FairColor
	default:
		return GoodColor
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetResultsDBFilePath returns the path to the SQLite DB file for result storage.
func GetResultsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".a11ymon_results.db"
	}
	return filepath.Join(homeDir, ".a11ymon_results.db")
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// TruncateErr collapses an error message to a single line of bounded
// length so a provider stack trace cannot flood a report cell.
func TruncateErr(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.Join(strings.Fields(err.Error()), " ")
	runes := []rune(msg)
	if len(runes) > schema.MaxErrorLen {
		return string(runes[:schema.MaxErrorLen-3]) + "..."
	}
	return msg
}

// TruncateURL truncates a URL to a maximum width with ellipsis suffix.
// Requires maxWidth > 3 so there is room for both content and the marker.
func TruncateURL(url string, maxWidth int) string {
	runes := []rune(url)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return url
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
