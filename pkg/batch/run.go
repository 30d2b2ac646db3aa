package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jchronis/aknero/pkg/config"
	"github.com/jchronis/aknero/pkg/schema"
)

// progressInterval is how many completed tasks pass between progress lines;
// every non-ok completion is also reported immediately.
const progressInterval = 50

// ProgressFunc receives one line of progress output.
type ProgressFunc func(line string)

// Runner drives a batch of tasks through a bounded worker pool.
type Runner struct {
	Layout   Layout
	Config   config.Config
	Progress ProgressFunc

	// Validator checks each written artifact; nil disables validation.
	Validator schema.Validator
}

// NewRunner builds a runner with the default validator wired in.
func NewRunner(layout Layout, cfg config.Config) *Runner {
	return &Runner{
		Layout:    layout,
		Config:    cfg,
		Validator: schema.Default(),
	}
}

// Run converts all tasks and writes the batch report. Worker failures are
// confined to their task; context cancellation stops the dispatch and is
// returned, and the report then covers only the tasks that actually ran.
func (r *Runner) Run(ctx context.Context, tasks []Task) (*BatchReport, error) {
	started := time.Now()
	workers := r.Config.WorkerCount()

	results := make([]TaskResult, len(tasks))
	completed := 0
	var mu sync.Mutex

	pool := make(chan *Worker, workers)
	for i := 0; i < workers; i++ {
		pool <- NewWorker(r.Layout, r.Validator, r.Config.SchemaPath)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, task := range tasks {
		if gctx.Err() != nil {
			break
		}

		i, task := i, task
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			worker := <-pool
			result := worker.Convert(gctx, task)
			pool <- worker

			mu.Lock()
			results[i] = result
			completed++
			count := completed
			mu.Unlock()

			if result.Status != StatusOK || count%progressInterval == 0 {
				r.progress(fmt.Sprintf("[%d/%d] %s %s %s",
					count, len(tasks), result.Status, result.Rel, result.Duration.Round(time.Millisecond)))
			}
			return nil
		})
	}

	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	ran := results[:0]
	for _, result := range results {
		if result.Status != "" {
			ran = append(ran, result)
		}
	}

	report := newBatchReport(started, workers, ran)
	if err := report.Write(r.Layout.ReportPath()); err != nil {
		return report, err
	}
	if r.Config.Checksums && runErr == nil {
		if err := WriteChecksums(r.Layout); err != nil {
			return report, err
		}
	}
	return report, runErr
}

func (r *Runner) progress(line string) {
	if r.Progress != nil {
		r.Progress(line)
		return
	}
	fmt.Println(line)
}
