// Package batch runs the conversion pipeline over an archive tree: task
// enumeration, a bounded worker pool with per-task fault isolation, side
// artifacts and per-file logs, and the final batch report.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// The archive is a set of mirrored trees under one root: inputs under
// legal_texts/, with logs/, XML/, NER/ and ste_metadata/ carrying the same
// authority/year/file structure.
const (
	textsDir    = "legal_texts"
	logsDir     = "logs"
	xmlDir      = "XML"
	nerDir      = "NER"
	metadataDir = "ste_metadata"
)

// reportName is the batch report artifact written at the XML tree root.
const reportName = "_batch_report.json"

// Layout maps between the mirrored trees of one archive root.
type Layout struct {
	Root string
}

// TextPath is the input judgment file for a relative archive path.
func (l Layout) TextPath(rel string) string {
	return filepath.Join(l.Root, textsDir, rel)
}

// XMLPath is the output artifact for a relative archive path.
func (l Layout) XMLPath(rel string) string {
	return filepath.Join(l.Root, xmlDir, stripExt(rel)+".xml")
}

// LogPath is the per-file log for a relative archive path.
func (l Layout) LogPath(rel string) string {
	return filepath.Join(l.Root, logsDir, stripExt(rel)+".log")
}

// NERPath is the optional entity annotation artifact for a relative archive
// path.
func (l Layout) NERPath(rel string) string {
	return filepath.Join(l.Root, nerDir, stripExt(rel)+".xml")
}

// SidecarPath is the optional Council of State metadata file for a relative
// archive path.
func (l Layout) SidecarPath(rel string) string {
	return filepath.Join(l.Root, metadataDir, stripExt(rel)+"_meta.txt")
}

// SideTextPath is the failure side artifact for a relative archive path:
// the recovered body text, or an empty file when nothing was recovered. It
// sits in the XML tree next to where the artifact would have gone, without
// touching any artifact from an earlier run.
func (l Layout) SideTextPath(rel string) string {
	return filepath.Join(l.Root, xmlDir, stripExt(rel)+".txt")
}

// JSONPath is the intermediate skeleton artifact for a relative archive
// path, written next to the XML output.
func (l Layout) JSONPath(rel string) string {
	return filepath.Join(l.Root, xmlDir, stripExt(rel)+".json")
}

// ParseErrorPath is the side artifact recording extraction fields that could
// not be found.
func (l Layout) ParseErrorPath(rel string) string {
	return filepath.Join(l.Root, xmlDir, stripExt(rel)+"_parse-error.json")
}

// ReportPath is the batch report artifact.
func (l Layout) ReportPath() string {
	return filepath.Join(l.Root, xmlDir, reportName)
}

// ChecksumPath is the sha256 manifest for the XML tree.
func (l Layout) ChecksumPath() string {
	return filepath.Join(l.Root, xmlDir, "sha256sums.txt")
}

func stripExt(rel string) string {
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

// writeFile writes an artifact, creating its mirrored directory first.
// Directory creation is idempotent so concurrent workers can share a year.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
