// Package schema checks written XML artifacts after the fact. Validation is
// advisory: diagnostics are reported per file and the artifact is never
// removed or rewritten, whatever the result.
package schema

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Diagnostic is one validation finding against an artifact.
type Diagnostic struct {
	Line    int
	Message string
}

// Validator checks one written artifact, optionally against a schema. A nil
// diagnostics slice means the artifact passed.
type Validator interface {
	Validate(ctx context.Context, schemaPath, docPath string) ([]Diagnostic, error)
}

// Default returns the schema-aware command validator when the xmllint tool
// is installed, and the well-formedness reparse otherwise.
func Default() Validator {
	if _, err := exec.LookPath("xmllint"); err == nil {
		return &CommandValidator{}
	}
	return &ReparseValidator{}
}

// CommandValidator shells out to xmllint for full XSD validation.
type CommandValidator struct{}

func (v *CommandValidator) Validate(ctx context.Context, schemaPath, docPath string) ([]Diagnostic, error) {
	args := []string{"--noout"}
	if schemaPath != "" {
		args = append(args, "--schema", schemaPath)
	}
	args = append(args, docPath)

	cmd := exec.CommandContext(ctx, "xmllint", args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil, nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return nil, fmt.Errorf("running xmllint: %w", err)
	}
	return parseLintOutput(stderr.String(), docPath), nil
}

// parseLintOutput turns xmllint stderr lines ("file:line: message") into
// diagnostics. Lines that do not follow the shape are kept verbatim.
func parseLintOutput(output, docPath string) []Diagnostic {
	var diags []Diagnostic
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		d := Diagnostic{Message: line}
		if rest, ok := strings.CutPrefix(line, docPath+":"); ok {
			if colon := strings.Index(rest, ":"); colon > 0 {
				if n, err := strconv.Atoi(rest[:colon]); err == nil {
					d.Line = n
					d.Message = strings.TrimSpace(rest[colon+1:])
				}
			}
		}
		diags = append(diags, d)
	}
	return diags
}

// ReparseValidator re-reads the artifact and checks well-formedness only.
// It ignores the schema path.
type ReparseValidator struct{}

func (v *ReparseValidator) Validate(ctx context.Context, _, docPath string) ([]Diagnostic, error) {
	f, err := os.Open(docPath)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()

	decoder := xml.NewDecoder(f)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_, err := decoder.Token()
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) {
			return []Diagnostic{{Line: syntaxErr.Line, Message: syntaxErr.Msg}}, nil
		}
		return []Diagnostic{{Message: err.Error()}}, nil
	}
}
