package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jchronis/aknero/pkg/akn"
	"github.com/jchronis/aknero/pkg/extract"
	"github.com/jchronis/aknero/pkg/ner"
	"github.com/jchronis/aknero/pkg/schema"
	"github.com/jchronis/aknero/pkg/textnorm"
)

// Worker converts tasks one at a time. Its extractors and assembler are
// built on first use and reused for every task the worker picks up; each
// worker is driven by a single goroutine so no locking is needed.
type Worker struct {
	layout     Layout
	validator  schema.Validator
	schemaPath string

	grammar   *extract.Grammar
	heuristic *extract.Heuristic
	override  *extract.Override
	assembler *akn.Assembler
}

// NewWorker creates an idle worker. Passing a nil validator disables
// post-write validation.
func NewWorker(layout Layout, validator schema.Validator, schemaPath string) *Worker {
	return &Worker{layout: layout, validator: validator, schemaPath: schemaPath}
}

func (w *Worker) init() {
	if w.assembler != nil {
		return
	}
	w.grammar = extract.NewGrammar(nil, nil)
	w.heuristic = extract.NewHeuristic()
	w.override = extract.NewOverride()
	w.assembler = akn.NewAssembler()
}

// Convert runs the whole pipeline for one task. A panic anywhere in the
// pipeline is confined to this task: the worker recovers, leaves an empty
// side artifact and reports unhandled_error. The per-file log and the task
// duration are written on every path out.
func (w *Worker) Convert(ctx context.Context, task Task) (result TaskResult) {
	w.init()

	log := newTaskLog()
	result.Rel = task.Rel

	defer func() {
		if r := recover(); r != nil {
			result.Status = StatusUnhandled
			result.Error = fmt.Sprintf("panic: %v", r)
			log.Printf("panic: %v", r)
			_ = writeFile(w.layout.SideTextPath(task.Rel), nil)
		}
		result.Duration = time.Since(log.start)
		log.Printf("finished status=%s duration=%s", result.Status, result.Duration)
		if err := log.flush(w.layout.LogPath(task.Rel)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}()

	log.Printf("converting %s", task.Rel)

	doc, err := textnorm.Load(w.layout.TextPath(task.Rel), task.Authority)
	if err != nil {
		return w.fail(&result, log, task, err)
	}
	result.Checksum = textChecksum(doc.Text)

	meta := w.buildMeta(task, doc, log)

	extractor := w.extractorFor(task.Profile.Strategy)
	extracted, err := extractor.Extract(doc)
	if err != nil {
		var missing *extract.MissingFieldsError
		if errors.As(err, &missing) {
			return w.skipUnparseable(&result, log, task, missing)
		}
		return w.fail(&result, log, task, err)
	}
	for _, d := range extracted.Diagnostics {
		log.Printf("extract %s: %s", d.Stage, d.Message)
	}

	skeleton := extracted.Skeleton
	if task.Profile.Override {
		var diags []extract.Diagnostic
		skeleton, diags = w.override.Apply(doc, skeleton)
		for _, d := range diags {
			log.Printf("override: %s", d.Message)
		}
	}

	if task.Profile.EmitJSON {
		intermediate := struct {
			File     string           `json:"file"`
			Checksum string           `json:"sha256"`
			Document extract.Skeleton `json:"document"`
		}{task.Rel, result.Checksum, skeleton}
		if data, err := json.MarshalIndent(intermediate, "", "  "); err == nil {
			if err := writeFile(w.layout.JSONPath(task.Rel), data); err != nil {
				log.Printf("intermediate artifact: %v", err)
			}
		}
	}

	entities := w.loadEntities(task, log)

	root, resolved := w.assembler.Assemble(akn.Input{
		Meta:     meta,
		Skeleton: skeleton,
		Entities: entities,
	})
	for _, doi := range resolved {
		log.Printf("resolved %s=%s rule=%s", doi.Kind, doi.ISO, doi.Rule)
		result.Dates = append(result.Dates, fmt.Sprintf("%s=%s", doi.Kind, doi.ISO))
	}

	data, err := akn.Serialize(root)
	if err != nil {
		var syntaxErr *akn.SyntaxError
		if errors.As(err, &syntaxErr) {
			// the recovered body text goes next to the missing artifact
			_ = writeFile(w.layout.SideTextPath(task.Rel), []byte(skeleton.BodyText()))
			result.Status = StatusXMLSyntax
			result.Error = syntaxErr.Error()
			log.Printf("serialization failed: %v", syntaxErr)
			return result
		}
		return w.fail(&result, log, task, err)
	}
	if err := writeFile(w.layout.XMLPath(task.Rel), data); err != nil {
		return w.fail(&result, log, task, err)
	}

	if w.validator != nil {
		diags, err := w.validator.Validate(ctx, w.schemaPath, w.layout.XMLPath(task.Rel))
		if err != nil {
			log.Printf("validation: %v", err)
		}
		for _, d := range diags {
			log.Printf("validation line %d: %s", d.Line, d.Message)
		}
	}

	result.Status = StatusOK
	return result
}

// fail marks the task unhandled and leaves the empty side artifact next to
// where the output would have gone.
func (w *Worker) fail(result *TaskResult, log *taskLog, task Task, err error) TaskResult {
	result.Status = StatusUnhandled
	result.Error = err.Error()
	log.Printf("error: %v", err)
	_ = writeFile(w.layout.SideTextPath(task.Rel), nil)
	return *result
}

// skipUnparseable records which fields were missing and skips the task
// without producing an artifact.
func (w *Worker) skipUnparseable(result *TaskResult, log *taskLog, task Task, missing *extract.MissingFieldsError) TaskResult {
	payload, _ := json.MarshalIndent(map[string]any{
		"file":    task.Rel,
		"missing": missing.Fields,
	}, "", "  ")
	if err := writeFile(w.layout.ParseErrorPath(task.Rel), payload); err != nil {
		log.Printf("parse-error artifact: %v", err)
	}
	result.Status = StatusSkipped
	result.Error = missing.Error()
	log.Printf("skipped: %v", missing)
	return *result
}

// buildMeta derives the bibliographic identity: decision number and year
// from the filename convention, with the sidecar taking precedence whenever
// the profile reads one and it carries a number.
func (w *Worker) buildMeta(task Task, doc *textnorm.RawDocument, log *taskLog) akn.Meta {
	meta := akn.Meta{
		TextType: "judgment",
		Author:   task.Profile.Author,
		Foreas:   task.Profile.Foreas,
	}

	if number, year, err := extract.ParseFilename(task.Name); err == nil {
		meta.DecisionNumber = number
		meta.IssueYear = year
	} else {
		log.Printf("filename: %v", err)
	}

	if task.Profile.Sidecar {
		sidecar, err := extract.ReadSidecar(w.layout.SidecarPath(task.Rel))
		if err != nil {
			log.Printf("sidecar: %v", err)
		} else {
			if sidecar.DecisionNumber != "" {
				meta.DecisionNumber = sidecar.DecisionNumber
				meta.IssueYear = sidecar.IssueYear
			}
			meta.PublicationDate = sidecar.PublicationDate
			meta.ECLI = sidecar.ECLI
		}
	}
	return meta
}

// loadEntities reads the optional annotation artifact. Absence and malformed
// content both mean no entity markup, never a task failure.
func (w *Worker) loadEntities(task Task, log *taskLog) []ner.Entity {
	path := w.layout.NERPath(task.Rel)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	entities, err := ner.Load(path)
	if err != nil {
		log.Printf("entities: %v", err)
		return nil
	}
	log.Printf("entities: %d loaded", len(entities))
	return entities
}

func (w *Worker) extractorFor(strategy string) extract.Extractor {
	if strategy == "heuristic" {
		return w.heuristic
	}
	return w.grammar
}

// taskLog buffers the per-file log so one write creates the mirrored log
// artifact even when the task dies mid-pipeline.
type taskLog struct {
	start time.Time
	lines []string
}

func newTaskLog() *taskLog {
	return &taskLog{start: time.Now()}
}

func (t *taskLog) Printf(format string, args ...any) {
	line := time.Now().Format(time.RFC3339) + " " + fmt.Sprintf(format, args...)
	t.lines = append(t.lines, line)
}

func (t *taskLog) flush(path string) error {
	return writeFile(path, []byte(strings.Join(t.lines, "\n")+"\n"))
}
