package batch

import (
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WriteChecksums writes a sha256 manifest covering every XML artifact under
// the output tree, in the coreutils sha256sum format so the archive can be
// verified with standard tooling.
func WriteChecksums(layout Layout) error {
	root := filepath.Join(layout.Root, xmlDir)

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".xml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking output tree: %w", err)
	}
	sort.Strings(paths)

	var manifest strings.Builder
	for _, path := range paths {
		sum, err := fileChecksum(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(&manifest, "%s  %s\n", sum, filepath.ToSlash(rel))
	}

	return writeFile(layout.ChecksumPath(), []byte(manifest.String()))
}

func textChecksum(text string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(text)))
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
