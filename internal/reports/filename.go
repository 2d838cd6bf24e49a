package reports

import (
	"regexp"
	"strings"
	"time"
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Filename derives an artifact filename from an investor display name:
// runs of non-alphanumeric characters collapse to a single underscore,
// and the generation date is appended before the extension.
func Filename(investorName string, generatedAt time.Time, ext string) string {
	name := nonAlnum.ReplaceAllString(investorName, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		name = "reporte"
	}
	return name + "_" + generatedAt.Format("2006-01-02") + "." + ext
}
