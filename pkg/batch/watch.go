package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/fsnotify.v1"
)

// Watch converts new judgment files as they appear under one authority/year
// input directory. Each event is converted on the single watch worker;
// conversion failures are reported through the runner's progress output and
// never stop the watch. Returns when the context is cancelled.
func (r *Runner) Watch(ctx context.Context, authority, year string) error {
	profile, ok := r.Config.Profiles[authority]
	if !ok {
		return fmt.Errorf("no profile for authority %q", authority)
	}

	dir := filepath.Join(r.Layout.Root, textsDir, authority, year)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	r.progress(fmt.Sprintf("watching %s", dir))

	worker := NewWorker(r.Layout, r.Validator, r.Config.SchemaPath)

	// editors and sync tools fire Create+Write pairs for one drop; content
	// hashing collapses them into a single conversion
	seen := make(map[string]string)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, "_meta.txt") {
				continue
			}
			sum, err := fileChecksum(event.Name)
			if err != nil {
				r.progress(fmt.Sprintf("watch error: %v", err))
				continue
			}
			if seen[name] == sum {
				continue
			}
			seen[name] = sum

			task := Task{
				Rel:       filepath.Join(authority, year, name),
				Authority: authority,
				Year:      year,
				Name:      name,
				Profile:   profile,
			}
			result := worker.Convert(ctx, task)
			r.progress(fmt.Sprintf("%s %s %s",
				result.Status, result.Rel, result.Duration.Round(time.Millisecond)))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.progress(fmt.Sprintf("watch error: %v", err))
		}
	}
}
