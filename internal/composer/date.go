package composer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"
)

var sixDigits = regexp.MustCompile(`\d{6}`)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// DateTitleFromPath formats the first YYMMDD date in the base name of path
// as a Spanish date such as "02 enero 2024".
func DateTitleFromPath(path string) (string, bool) {
	match := sixDigits.FindString(filepath.Base(filepath.Clean(path)))
	if match == "" {
		return "", false
	}
	t, err := time.Parse("060102", match)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%02d %s %d", t.Day(), spanishMonths[t.Month()-1], t.Year()), true
}
