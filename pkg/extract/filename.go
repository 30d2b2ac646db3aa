package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jchronis/aknero/pkg/dates"
)

// filenamePattern matches the archive naming convention "A 123_2024.txt"
// (the "Ar" variant appears in older Areios Pagos exports).
var filenamePattern = regexp.MustCompile(`Ar?\s*(\d+)_(\d+)`)

// ParseFilename extracts the decision number and issue year encoded in an
// archive filename.
func ParseFilename(name string) (number, year string, err error) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", fmt.Errorf("filename %q does not encode number_year", name)
	}
	return m[1], m[2], nil
}

// SidecarMetadata is the content of a Council of State metadata file that
// accompanies a judgment text. Empty fields mean the sidecar did not carry
// the value.
type SidecarMetadata struct {
	DecisionNumber  string
	IssueYear       string
	PublicationDate string // ISO 8601, or empty
	ECLI            string
}

// SidecarPath returns the metadata path for a judgment text path, following
// the "<base>_meta.txt" convention.
func SidecarPath(textPath string) string {
	base := strings.TrimSuffix(textPath, filepath.Ext(textPath))
	return base + "_meta.txt"
}

// ReadSidecar parses a sidecar metadata file. The format is line-oriented:
// line 1 holds "number/year", line 4 the publication date, line 8 the ECLI.
// A lone "-" or an empty line means the value is absent.
func ReadSidecar(path string) (SidecarMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SidecarMetadata{}, fmt.Errorf("reading sidecar %s: %w", path, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	field := func(n int) string {
		if n > len(lines) {
			return ""
		}
		v := strings.TrimSpace(lines[n-1])
		if v == "-" {
			return ""
		}
		return v
	}

	var meta SidecarMetadata
	if numYear := field(1); numYear != "" {
		if slash := strings.Index(numYear, "/"); slash > 0 {
			meta.DecisionNumber = strings.TrimSpace(numYear[:slash])
			meta.IssueYear = strings.TrimSpace(numYear[slash+1:])
		}
	}
	meta.PublicationDate = sidecarDate(field(4))
	meta.ECLI = field(8)
	return meta, nil
}

// sidecarDate normalizes the publication date field. Dates are written
// d/m/Y; a bare year stands for January 1st of that year.
func sidecarDate(v string) string {
	if v == "" {
		return ""
	}
	if t, err := time.Parse("2/1/2006", v); err == nil {
		return t.Format("2006-01-02")
	}
	if yearPattern.MatchString(v) {
		return v + "-01-01"
	}
	// Greek long form shows up in a few sidecars
	if iso := greekLongDate(v); iso != "" {
		return iso
	}
	return ""
}

var yearPattern = regexp.MustCompile(`^\d{4}$`)

var longDatePattern = regexp.MustCompile(`(\d{1,2})(?:η|ης|ος|ου)?\s+(\p{L}+)\s+(\d{4})`)

func greekLongDate(v string) string {
	m := longDatePattern.FindStringSubmatch(v)
	if m == nil {
		return ""
	}
	iso, err := dates.ToISO(m[1], m[2], m[3])
	if err != nil {
		return ""
	}
	return iso
}
