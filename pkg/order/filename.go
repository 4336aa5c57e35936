package order

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	filenamePrefix = "magnets"

	// maxStemBytes leaves room under the 255-byte filename limit for a
	// "-page-N" suffix and an extension.
	maxStemBytes = 255 - 32
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	pathSeparators = strings.NewReplacer("/", "-", "\\", "-")
)

// Filename returns the suggested artifact name for an order's sheet:
//
//	magnets-<orderNumber>-<Customer-Name>-<YYYY-MM-DD>.<ext>
//
// Runs of whitespace in the customer name become a single hyphen.
func Filename(info Info, date time.Time, ext string) string {
	return fmt.Sprintf("%s.%s", filenameStem(info, date), strings.TrimPrefix(ext, "."))
}

// PageFilename returns the artifact name for one page (0-indexed) of a
// sheet delivered page by page. Pages are numbered from 1 in the name.
func PageFilename(info Info, date time.Time, page int, ext string) string {
	return fmt.Sprintf("%s-page-%d.%s", filenameStem(info, date), page+1, strings.TrimPrefix(ext, "."))
}

func filenameStem(info Info, date time.Time) string {
	info = info.Normalize()
	name := whitespaceRun.ReplaceAllString(info.CustomerName, "-")
	day := date.Format(time.DateOnly)
	budget := maxStemBytes - len(filenamePrefix) - len(info.OrderNumber) - len(day) - 3
	name = strings.TrimRight(truncateBytes(name, budget), "-")
	stem := fmt.Sprintf("%s-%s-%s-%s", filenamePrefix, info.OrderNumber, name, day)
	return pathSeparators.Replace(stem)
}

// truncateBytes cuts s to at most n bytes without splitting a character.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
