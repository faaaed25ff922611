// Package interp implements the tree-walking evaluator: spec.md §4.3.
package interp

import (
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/ascript/as/internal/ast"
	"github.com/ascript/as/internal/lexer"
	"github.com/ascript/as/internal/parser"
)

// ErrNotFound is returned by a ReadSource collaborator when the requested
// path does not exist. Any other error from ReadSource is treated as
// fatal (spec.md §6 "Collaborator contract").
var ErrNotFound = errors.New("source not found")

// ReadSource resolves a source path to its bytes. The CLI's filesystem
// implementation and the import mechanism's file reads both go through
// this injected collaborator, keeping the evaluator itself free of any
// direct file I/O dependency (spec.md §1 Non-goals list file I/O as an
// external collaborator, not part of the core).
type ReadSource func(path string) ([]byte, error)

// Evaluator walks an AST against a stack of lexically-scoped Environments.
// One Evaluator corresponds to one top-level run (spec.md §3 "Interpreter
// context"): it owns the process-wide-for-this-run imported-files set and
// the current base_dir used to resolve import paths.
type Evaluator struct {
	Out        io.Writer
	ReadSource ReadSource

	imported map[string]bool
	baseDir  string
	file     string
	source   string
}

// NewEvaluator creates an Evaluator. Both out and readSource are required;
// neither has a default.
func NewEvaluator(out io.Writer, readSource ReadSource) *Evaluator {
	return &Evaluator{Out: out, ReadSource: readSource}
}

// Run evaluates source as a fresh top-level program rooted at baseDir and
// returns its terminal result value. The imported-files set is reset here
// and lives only for the duration of this call (spec.md §5).
func (ev *Evaluator) Run(source []byte, baseDir, file string) (Value, error) {
	ev.imported = make(map[string]bool)
	ev.baseDir = baseDir
	ev.file = file
	ev.source = string(source)

	program, err := ev.parse(source, file)
	if err != nil {
		return nil, err
	}

	env := NewEnvironment()
	return ev.evalStatements(program.Statements, env)
}

func (ev *Evaluator) parse(source []byte, file string) (*ast.Program, error) {
	l := lexer.New(string(source))
	p := parser.New(l)
	program, err := p.ParseProgram()
	if err != nil {
		pos := lexer.Position{}
		var lexErr *lexer.Error
		var parseErr *parser.Error
		category := CategoryParse
		switch {
		case errors.As(err, &lexErr):
			pos = lexErr.Pos
			category = CategoryLex
		case errors.As(err, &parseErr):
			pos = parseErr.Pos
			category = CategoryParse
		}
		return nil, &SourceError{Category: category, Message: err.Error(), File: file, Pos: pos, Source: string(source)}
	}
	return program, nil
}

// evalStatements executes stmts in order within env (no new frame is
// pushed here — callers that need one, Block and function bodies, decide
// that themselves). It returns the value of the last statement executed,
// or a *returnSignal the instant one is produced, per spec.md §4.3's
// return-unwinding state machine.
func (ev *Evaluator) evalStatements(stmts []ast.Statement, env *Environment) (Value, error) {
	var result Value = nullValue
	for _, stmt := range stmts {
		val, err := ev.evalStatement(stmt, env)
		if err != nil {
			return nil, err
		}
		result = val
		if _, ok := isReturn(result); ok {
			return result, nil
		}
	}
	return result, nil
}

func (ev *Evaluator) evalStatement(stmt ast.Statement, env *Environment) (Value, error) {
	switch node := stmt.(type) {
	case *ast.VarDecl:
		val, err := ev.evalExpr(node.Init, env)
		if err != nil {
			return nil, err
		}
		env.Define(node.Name, val)
		return val, nil

	case *ast.Assign:
		val, err := ev.evalExpr(node.Value, env)
		if err != nil {
			return nil, err
		}
		if !env.Set(node.Name, val) {
			return nil, newRuntimeErrorAt(CategoryName, node.Token.Pos, "assignment to undefined name %q", node.Name)
		}
		return val, nil

	case *ast.Block:
		return ev.evalStatements(node.Statements, NewEnclosedEnvironment(env))

	case *ast.If:
		test, err := ev.evalExpr(node.Test, env)
		if err != nil {
			return nil, err
		}
		if b, ok := test.(*Boolean); ok && b.Value {
			return ev.evalStatement(node.Consequent, env)
		}
		if node.Alternate != nil {
			return ev.evalStatement(node.Alternate, env)
		}
		return nullValue, nil

	case *ast.While:
		for {
			test, err := ev.evalExpr(node.Test, env)
			if err != nil {
				return nil, err
			}
			b, ok := test.(*Boolean)
			if !ok || !b.Value {
				return nullValue, nil
			}
			val, err := ev.evalStatement(node.Body, env)
			if err != nil {
				return nil, err
			}
			if _, ok := isReturn(val); ok {
				return val, nil
			}
		}

	case *ast.FunctionDecl:
		fn := &Function{Name: node.Name, Params: node.Params, Body: node.Body, Closure: env}
		env.Define(node.Name, fn)
		return fn, nil

	case *ast.Return:
		val, err := ev.evalExpr(node.Value, env)
		if err != nil {
			return nil, err
		}
		return &returnSignal{value: val}, nil

	case *ast.Print:
		val, err := ev.evalExpr(node.Value, env)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(ev.Out, val.String())
		return nullValue, nil

	case *ast.Import:
		return ev.evalImport(node, env)

	case *ast.ExpressionStatement:
		return ev.evalExpr(node.Expr, env)

	default:
		return nil, newRuntimeError(CategoryType, "unhandled statement type %T", stmt)
	}
}

func (ev *Evaluator) evalExpr(expr ast.Expression, env *Environment) (Value, error) {
	switch node := expr.(type) {
	case *ast.NumberLiteral:
		return &Number{Value: node.Value}, nil

	case *ast.StringLiteral:
		return &String{Value: node.Value}, nil

	case *ast.BooleanLiteral:
		return &Boolean{Value: node.Value}, nil

	case *ast.Identifier:
		val, ok := env.Get(node.Name)
		if !ok {
			return nil, newRuntimeErrorAt(CategoryName, node.Token.Pos, "undefined name %q", node.Name)
		}
		return val, nil

	case *ast.Binary:
		left, err := ev.evalExpr(node.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := ev.evalExpr(node.Right, env)
		if err != nil {
			return nil, err
		}
		return ev.applyBinary(node.Operator, left, right, node.Token.Pos)

	case *ast.Logical:
		return ev.evalLogical(node, env)

	case *ast.Call:
		return ev.evalCall(node, env)

	default:
		return nil, newRuntimeError(CategoryType, "unhandled expression type %T", expr)
	}
}

func (ev *Evaluator) evalLogical(node *ast.Logical, env *Environment) (Value, error) {
	left, err := ev.evalExpr(node.Left, env)
	if err != nil {
		return nil, err
	}

	if node.Operator == "&&" {
		if b, ok := left.(*Boolean); ok && !b.Value {
			return &Boolean{Value: false}, nil
		}
	} else {
		if b, ok := left.(*Boolean); ok && b.Value {
			return &Boolean{Value: true}, nil
		}
	}

	right, err := ev.evalExpr(node.Right, env)
	if err != nil {
		return nil, err
	}
	if b, ok := right.(*Boolean); ok {
		return b, nil
	}
	return &Boolean{Value: false}, nil
}

func (ev *Evaluator) evalCall(node *ast.Call, env *Environment) (Value, error) {
	callee, ok := env.Get(node.Callee)
	if !ok {
		return nil, newRuntimeErrorAt(CategoryName, node.Token.Pos, "undefined name %q", node.Callee)
	}
	fn, ok := callee.(*Function)
	if !ok {
		return nil, newRuntimeErrorAt(CategoryType, node.Token.Pos, "%q is not a function", node.Callee)
	}

	args := make([]Value, len(node.Args))
	for i, argExpr := range node.Args {
		val, err := ev.evalExpr(argExpr, env)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}

	return ev.applyFunction(fn, args)
}

// applyFunction installs the callee's closure snapshot as the lexical
// parent of a fresh call frame, binds parameters, evaluates the body, and
// restores nothing explicitly — the caller's own env reference was never
// touched, since every eval call threads its frame as a parameter rather
// than mutating shared interpreter state (spec.md §4.3 "Function call").
func (ev *Evaluator) applyFunction(fn *Function, args []Value) (Value, error) {
	callEnv := NewEnclosedEnvironment(fn.Closure)
	for i, name := range fn.Params {
		if i < len(args) {
			callEnv.Define(name, args[i])
		} else {
			callEnv.Define(name, nullValue)
		}
	}

	result, err := ev.evalStatements(fn.Body.Statements, callEnv)
	if err != nil {
		return nil, err
	}
	if rs, ok := isReturn(result); ok {
		return rs.value, nil
	}
	return result, nil
}

// evalImport resolves, dedups, reads, and re-enters the pipeline for an
// imported file, installing its top-level declarations into the caller's
// current frame (spec.md §4.3 "Import").
func (ev *Evaluator) evalImport(node *ast.Import, env *Environment) (Value, error) {
	resolved := path.Clean(path.Join(ev.baseDir, node.Path))

	if ev.imported[resolved] {
		return nullValue, nil
	}
	ev.imported[resolved] = true

	data, err := ev.ReadSource(resolved)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newRuntimeErrorAt(CategoryImport, node.Token.Pos, "cannot find %q", resolved)
		}
		return nil, newRuntimeErrorAt(CategoryImport, node.Token.Pos, "failed to read %q: %v", resolved, err)
	}

	savedBaseDir := ev.baseDir
	ev.baseDir = path.Dir(resolved)
	defer func() { ev.baseDir = savedBaseDir }()

	program, err := ev.parse(data, resolved)
	if err != nil {
		return nil, err
	}

	if _, err := ev.evalStatements(program.Statements, env); err != nil {
		return nil, err
	}
	return nullValue, nil
}

func (ev *Evaluator) applyBinary(op string, left, right Value, pos lexer.Position) (Value, error) {
	ln, lIsNum := left.(*Number)
	rn, rIsNum := right.(*Number)
	if lIsNum && rIsNum {
		return numberBinary(op, ln.Value, rn.Value, pos)
	}

	ls, lIsStr := left.(*String)
	rs, rIsStr := right.(*String)
	if lIsStr && rIsStr {
		switch op {
		case "+":
			return &String{Value: ls.Value + rs.Value}, nil
		case "==":
			return &Boolean{Value: ls.Value == rs.Value}, nil
		case "!=":
			return &Boolean{Value: ls.Value != rs.Value}, nil
		default:
			return nil, newRuntimeErrorAt(CategoryType, pos, "operator %q is not defined for strings", op)
		}
	}

	_, lIsBool := left.(*Boolean)
	_, rIsBool := right.(*Boolean)
	if lIsBool && rIsBool {
		lb := left.(*Boolean)
		rb := right.(*Boolean)
		switch op {
		case "==":
			return &Boolean{Value: lb.Value == rb.Value}, nil
		case "!=":
			return &Boolean{Value: lb.Value != rb.Value}, nil
		default:
			return nil, newRuntimeErrorAt(CategoryType, pos, "operator %q is not defined for booleans", op)
		}
	}

	// Operand types differ.
	switch op {
	case "+":
		return &String{Value: left.String() + right.String()}, nil
	case "==":
		return &Boolean{Value: false}, nil
	case "!=":
		return &Boolean{Value: true}, nil
	default:
		return nil, newRuntimeErrorAt(CategoryType, pos, "operator %q is not defined between %s and %s", op, left.Type(), right.Type())
	}
}

func numberBinary(op string, l, r float64, pos lexer.Position) (Value, error) {
	switch op {
	case "+":
		return &Number{Value: l + r}, nil
	case "-":
		return &Number{Value: l - r}, nil
	case "*":
		return &Number{Value: l * r}, nil
	case "/":
		return &Number{Value: l / r}, nil
	case "%":
		li, ri := int64(l), int64(r)
		if ri == 0 {
			return nil, newRuntimeErrorAt(CategoryType, pos, "modulo by zero")
		}
		return &Number{Value: float64(li % ri)}, nil
	case "==":
		return &Boolean{Value: l == r}, nil
	case "!=":
		return &Boolean{Value: l != r}, nil
	case ">":
		return &Boolean{Value: l > r}, nil
	case ">=":
		return &Boolean{Value: l >= r}, nil
	case "<":
		return &Boolean{Value: l < r}, nil
	case "<=":
		return &Boolean{Value: l <= r}, nil
	default:
		return nil, newRuntimeErrorAt(CategoryType, pos, "unknown numeric operator %q", op)
	}
}
