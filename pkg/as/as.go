// Package as is the embeddable facade over the lexer/parser/interp
// pipeline, grounded on the teacher's cmd/dwscript/cmd/run.go wiring
// (interp.New(os.Stdout) plus a filename-to-bytes read step) collapsed
// into a single reusable type rather than a CLI-only code path.
package as

import (
	"errors"
	"io"
	"os"
	"path"

	"github.com/ascript/as/internal/interp"
)

// ErrNotFound is returned by a Program's ReadSource collaborator (or by
// DefaultReadSource) when the requested path does not exist.
var ErrNotFound = interp.ErrNotFound

// SourceError is the fatal error type produced by any stage of the
// pipeline. Category distinguishes lexical, syntactic, and runtime
// failures (spec.md §7).
type SourceError = interp.SourceError

// Option configures a Program.
type Option func(*Program)

// WithOutput overrides the writer print() statements write to. Defaults
// to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Program) { p.out = w }
}

// WithReadSource overrides how import() and the initial file load resolve
// paths to bytes. Defaults to DefaultReadSource, which reads from the
// local filesystem.
func WithReadSource(rs interp.ReadSource) Option {
	return func(p *Program) { p.readSource = rs }
}

// Program is a single embeddable instance of the interpreter, wiring
// together the collaborators spec.md §1 treats as external: file I/O and
// the output sink for print().
type Program struct {
	out        io.Writer
	readSource interp.ReadSource
}

// New creates a Program. Without options it reads files from the local
// filesystem and writes print() output to os.Stdout.
func New(opts ...Option) *Program {
	p := &Program{out: os.Stdout, readSource: DefaultReadSource}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefaultReadSource reads path from the local filesystem, translating a
// missing file into ErrNotFound per the collaborator contract (spec.md §6).
func DefaultReadSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// RunFile reads path via the configured ReadSource and runs it as a
// top-level program rooted at filePath's directory.
func (p *Program) RunFile(filePath string) (interp.Value, error) {
	data, err := p.readSource(filePath)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &SourceError{Category: interp.CategoryImport, Message: "cannot find " + filePath}
		}
		return nil, &SourceError{Category: interp.CategoryImport, Message: err.Error()}
	}
	return p.Run(data, path.Dir(filePath), filePath)
}

// Run evaluates source as a fresh top-level program. baseDir resolves
// import() paths; file is used only for error reporting.
func (p *Program) Run(source []byte, baseDir, file string) (interp.Value, error) {
	ev := interp.NewEvaluator(p.out, p.readSource)
	return ev.Run(source, baseDir, file)
}
