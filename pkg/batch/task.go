package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jchronis/aknero/pkg/config"
)

// Task is one judgment file to convert.
type Task struct {
	// Rel is the archive-relative path, authority/year/name.
	Rel       string
	Authority string
	Year      string
	Name      string
	Profile   config.Profile
}

// Status is the terminal state of one task.
type Status string

const (
	StatusOK        Status = "ok"
	StatusXMLSyntax Status = "xml_syntax_error"
	StatusUnhandled Status = "unhandled_error"
	StatusSkipped   Status = "skipped"
)

// TaskResult records how one task ended. Duration is measured regardless of
// outcome.
type TaskResult struct {
	Rel      string        `json:"file"`
	Status   Status        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Checksum string        `json:"sha256,omitempty"`
	Dates    []string      `json:"dates,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Enumerate lists the conversion tasks for one authority. An empty year
// covers every year directory under the authority; a name pattern narrows
// the files within one year, so it requires one.
func Enumerate(layout Layout, cfg config.Config, authority, year, pattern string) ([]Task, error) {
	if authority == "" {
		return nil, fmt.Errorf("authority is required")
	}
	if pattern != "" && year == "" {
		return nil, fmt.Errorf("a name pattern requires a year")
	}
	profile, ok := cfg.Profiles[authority]
	if !ok {
		return nil, fmt.Errorf("no profile for authority %q", authority)
	}

	years := []string{year}
	if year == "" {
		var err error
		years, err = listYears(layout, authority)
		if err != nil {
			return nil, err
		}
	}

	var tasks []Task
	for _, yr := range years {
		entries, err := os.ReadDir(filepath.Join(layout.Root, textsDir, authority, yr))
		if err != nil {
			return nil, fmt.Errorf("reading input directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, "_meta.txt") {
				continue
			}
			if pattern != "" {
				matched, err := filepath.Match(pattern, name)
				if err != nil {
					return nil, fmt.Errorf("bad name pattern %q: %w", pattern, err)
				}
				if !matched {
					continue
				}
			}
			tasks = append(tasks, Task{
				Rel:       filepath.Join(authority, yr, name),
				Authority: authority,
				Year:      yr,
				Name:      name,
				Profile:   profile,
			})
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Rel < tasks[j].Rel })
	return tasks, nil
}

// listYears finds the year subdirectories of one authority's input tree.
func listYears(layout Layout, authority string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(layout.Root, textsDir, authority))
	if err != nil {
		return nil, fmt.Errorf("reading authority directory: %w", err)
	}
	var years []string
	for _, entry := range entries {
		if entry.IsDir() {
			years = append(years, entry.Name())
		}
	}
	sort.Strings(years)
	return years, nil
}
