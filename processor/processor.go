// Package processor drives a generation run: it loads sources, analyzes
// every @FreeBuilder type independently and writes the rendered builders.
package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/freebuilder/analysis"
	"github.com/dhamidi/freebuilder/codegen"
	"github.com/dhamidi/freebuilder/config"
	"github.com/dhamidi/freebuilder/diag"
	"github.com/dhamidi/freebuilder/format"
	"github.com/dhamidi/freebuilder/java"
	"github.com/dhamidi/freebuilder/java/codebase"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

type Processor struct {
	Config *config.Config
	Logger commonlog.Logger

	codebase *codebase.Codebase
	universe *java.Universe
}

func New(cfg *config.Config) *Processor {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Processor{
		Config: cfg,
		Logger: commonlog.GetLogger("freebuilder.processor"),
	}
}

// Result describes one run. Reports follow universe order whatever order
// the analyses finished in.
type Result struct {
	Reports []format.Report
	// Syntax holds one ERROR diagnostic per syntax error in the sources.
	Syntax  []diag.Diagnostic
	Written []string
}

// Count returns how many diagnostics of severity s the run produced.
func (r *Result) Count(s diag.Severity) int {
	n := 0
	for _, d := range r.Syntax {
		if d.Severity == s {
			n++
		}
	}
	for _, report := range r.Reports {
		for _, d := range report.Diagnostics {
			if d.Severity == s {
				n++
			}
		}
	}
	return n
}

func (r *Result) HasErrors() bool {
	return r.Count(diag.Error) > 0
}

// Load reads the .java files below paths, or below the configured source
// roots when paths is empty, and seals a universe over them.
func (p *Processor) Load(paths []string) error {
	if len(paths) == 0 {
		paths = p.Config.SourceRoots
	}
	p.codebase = codebase.New(paths...)
	if err := p.codebase.ScanAll(); err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	return p.Reload()
}

// Reload rebuilds the universe from the current codebase contents, as
// after a FileWatcher rescan.
func (p *Processor) Reload() error {
	if p.codebase == nil {
		return errors.New("reload: no sources loaded")
	}
	u, err := p.codebase.Universe()
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	p.universe = u
	p.Logger.Infof("loaded %d files, %d types", len(p.codebase.Paths()), len(u.Types()))
	return nil
}

func (p *Processor) Codebase() *codebase.Codebase {
	return p.codebase
}

func (p *Processor) Universe() *java.Universe {
	return p.universe
}

// Annotated returns the types carrying @FreeBuilder, by simple or qualified
// name, in universe order.
func Annotated(u *java.Universe) []*java.TypeDecl {
	var types []*java.TypeDecl
	for _, decl := range u.Types() {
		if _, ok := decl.Annotation("FreeBuilder"); ok {
			types = append(types, decl)
		}
	}
	return types
}

// Analyze runs the analysis of every annotated type, at most Config.Jobs at
// a time and one when Jobs is not positive. Each type gets its own
// diagnostic log.
func (p *Processor) Analyze(ctx context.Context) (*Result, error) {
	if p.universe == nil {
		return nil, errors.New("analyze: no sources loaded")
	}
	types := Annotated(p.universe)
	result := &Result{
		Reports: make([]format.Report, len(types)),
		Syntax:  syntaxDiagnostics(p.codebase.SyntaxErrors()),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.Config.Jobs, 1))
	for i, decl := range types {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var sink diag.Log
			md, err := analysis.Analyze(p.universe, decl, &sink)
			if err != nil && !errors.Is(err, analysis.ErrCannotGenerate) {
				return fmt.Errorf("analyze %s: %w", decl.QualifiedName(), err)
			}
			result.Reports[i] = format.Report{
				Type:        decl.QualifiedName(),
				Metadata:    md,
				Diagnostics: sink.Diagnostics(),
			}
			p.Logger.Debugf("analyzed %s (%d diagnostics)", decl.QualifiedName(), len(result.Reports[i].Diagnostics))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Run analyzes, renders the successes and writes them below Config.Output.
// Failing types never abort the run; only I/O failures are returned.
func (p *Processor) Run(ctx context.Context) (*Result, error) {
	result, err := p.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	gen := &codegen.Generator{GeneratedAnnotation: p.Config.GeneratedAnnotation}
	for _, report := range result.Reports {
		if report.Metadata == nil {
			p.Logger.Infof("skipped %s", report.Type)
			continue
		}
		file, err := gen.Generate(report.Metadata)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(p.Config.Output, filepath.FromSlash(file.Path))
		wrote, err := writeIfChanged(path, file.Source)
		if err != nil {
			return nil, err
		}
		if wrote {
			p.Logger.Infof("wrote %s", path)
		}
		result.Written = append(result.Written, path)
	}
	return result, nil
}

// writeIfChanged leaves files whose content is already current untouched.
func writeIfChanged(path string, content []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

func syntaxDiagnostics(errs []*java.SyntaxError) []diag.Diagnostic {
	var result []diag.Diagnostic
	for _, se := range errs {
		for _, e := range se.Errors {
			result = append(result, diag.Diagnostic{
				Severity: diag.Error,
				Pos:      e.Pos,
				Element:  se.Path,
				Message:  e.Message,
			})
		}
	}
	return result
}
