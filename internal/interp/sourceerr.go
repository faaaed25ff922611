package interp

import (
	"fmt"
	"strings"

	"github.com/ascript/as/internal/lexer"
)

// Category is the error taxonomy from spec.md §7.
type Category string

const (
	CategoryLex    Category = "LexError"
	CategoryParse  Category = "ParseError"
	CategoryName   Category = "NameError"
	CategoryType   Category = "TypeError"
	CategoryImport Category = "ImportError"
)

// SourceError is a fatal, non-recoverable error. Its first line names the
// category, the message and the location; when the source text is known
// (lexical and parse errors), Format adds the offending source line and a
// caret under the column. Error and cmd/as both use Format(false). Ported
// from the teacher's internal/errors.CompilerError.
type SourceError struct {
	Category Category
	Message  string
	File     string
	Pos      lexer.Position
	Source   string
}

func (e *SourceError) Error() string {
	return e.Format(false)
}

// Format renders the error. With color=true, the message is wrapped in
// ANSI bold/red codes the way the teacher's formatter does for terminals.
func (e *SourceError) Format(color bool) string {
	var sb strings.Builder
	loc := fmt.Sprintf("line %d, column %d", e.Pos.Line, e.Pos.Column)
	if e.File != "" {
		loc = fmt.Sprintf("%s:%d:%d", e.File, e.Pos.Line, e.Pos.Column)
	}
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString(fmt.Sprintf("%s: %s at %s", e.Category, e.Message, loc))
	if color {
		sb.WriteString("\033[0m")
	}
	if line := e.sourceLine(); line != "" {
		sb.WriteString("\n")
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", max(e.Pos.Column-1, 0)))
		sb.WriteString("^")
	}
	return sb.String()
}

func (e *SourceError) sourceLine() string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return ""
	}
	return lines[e.Pos.Line-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func newRuntimeError(category Category, format string, args ...interface{}) *SourceError {
	return &SourceError{Category: category, Message: fmt.Sprintf(format, args...)}
}

func newRuntimeErrorAt(category Category, pos lexer.Position, format string, args ...interface{}) *SourceError {
	return &SourceError{Category: category, Message: fmt.Sprintf(format, args...), Pos: pos}
}
