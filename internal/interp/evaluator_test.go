package interp

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func runOrFatal(t *testing.T, src string) (Value, string) {
	t.Helper()
	var out bytes.Buffer
	ev := NewEvaluator(&out, func(path string) ([]byte, error) {
		return nil, ErrNotFound
	})
	val, err := ev.Run([]byte(src), ".", "test.as")
	if err != nil {
		t.Fatalf("Run(%q) returned error: %v", src, err)
	}
	return val, out.String()
}

func TestArithmeticPrecedence(t *testing.T) {
	_, out := runOrFatal(t, `print(1 + 2 * 3);`)
	if out != "7\n" {
		t.Fatalf("got output %q, want %q", out, "7\n")
	}
}

func TestModuloTruncatesTowardZero(t *testing.T) {
	_, out := runOrFatal(t, `print(7.9 % 2.5); print((0 - 7.9) % 2);`)
	want := "1\n-1\n"
	if out != want {
		t.Fatalf("got output %q, want %q", out, want)
	}
}

func TestDivisionByZeroYieldsIEEEInfinity(t *testing.T) {
	_, out := runOrFatal(t, `print(1 / 0); print((0 - 1) / 0);`)
	want := "+Inf\n-Inf\n"
	if out != want {
		t.Fatalf("got output %q, want %q", out, want)
	}
}

func TestMixedTypePlusStringifies(t *testing.T) {
	_, out := runOrFatal(t, `print("x=" + 3);`)
	if out != "x=3\n" {
		t.Fatalf("got output %q, want %q", out, "x=3\n")
	}
}

func TestLogicalShortCircuit(t *testing.T) {
	_, out := runOrFatal(t, `
		function boom() {
			print("should not run");
			return true;
		}
		print(false && boom());
		print(true || boom());
	`)
	want := "false\ntrue\n"
	if out != want {
		t.Fatalf("got output %q, want %q", out, want)
	}
}

func TestIfElseAndWhileLoop(t *testing.T) {
	_, out := runOrFatal(t, `
		let i = 0;
		while (i < 3) {
			if (i == 1) {
				print("one");
			} else {
				print(i);
			}
			i = i + 1;
		}
	`)
	want := "0\none\n2\n"
	if out != want {
		t.Fatalf("got output %q, want %q", out, want)
	}
}

func TestClosureCapturesDeclarationEnvironment(t *testing.T) {
	_, out := runOrFatal(t, `
		function makeAdder(x) {
			function add(y) {
				return x + y;
			}
			return add;
		}
		let add5 = makeAdder(5);
		print(add5(3));
	`)
	if out != "8\n" {
		t.Fatalf("got output %q, want %q", out, "8\n")
	}
}

func TestRecursiveFunction(t *testing.T) {
	_, out := runOrFatal(t, `
		function fib(n) {
			if (n < 2) {
				return n;
			}
			return fib(n - 1) + fib(n - 2);
		}
		print(fib(10));
	`)
	if out != "55\n" {
		t.Fatalf("got output %q, want %q", out, "55\n")
	}
}

func TestMissingArgsDefaultToNull(t *testing.T) {
	_, out := runOrFatal(t, `
		function greet(name) {
			print(name);
		}
		greet();
	`)
	if out != "null\n" {
		t.Fatalf("got output %q, want %q", out, "null\n")
	}
}

func TestExtraArgsAreDiscarded(t *testing.T) {
	_, out := runOrFatal(t, `
		function first(a) {
			return a;
		}
		print(first(1, 2, 3));
	`)
	if out != "1\n" {
		t.Fatalf("got output %q, want %q", out, "1\n")
	}
}

func TestUndefinedNameIsNameError(t *testing.T) {
	var out bytes.Buffer
	ev := NewEvaluator(&out, func(string) ([]byte, error) { return nil, ErrNotFound })
	_, err := ev.Run([]byte(`print(missing);`), ".", "test.as")
	se, ok := err.(*SourceError)
	if !ok || se.Category != CategoryName {
		t.Fatalf("expected a NameError, got %v", err)
	}
}

func TestImportBindsIntoCallerScope(t *testing.T) {
	files := map[string]string{
		"lib.as": `function helper() { return 42; }`,
	}
	var out bytes.Buffer
	ev := NewEvaluator(&out, func(path string) ([]byte, error) {
		src, ok := files[path]
		if !ok {
			return nil, ErrNotFound
		}
		return []byte(src), nil
	})
	_, err := ev.Run([]byte(`
		import("lib.as");
		print(helper());
	`), ".", "main.as")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "42\n" {
		t.Fatalf("got output %q, want %q", out.String(), "42\n")
	}
}

func TestImportIsIdempotent(t *testing.T) {
	calls := 0
	files := map[string]string{
		"lib.as": `let x = 1;`,
	}
	var out bytes.Buffer
	ev := NewEvaluator(&out, func(path string) ([]byte, error) {
		src, ok := files[path]
		if !ok {
			return nil, ErrNotFound
		}
		calls++
		return []byte(src), nil
	})
	_, err := ev.Run([]byte(`
		import("lib.as");
		import("lib.as");
		print(x);
	`), ".", "main.as")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected import to resolve its source exactly once, got %d calls", calls)
	}
	if out.String() != "1\n" {
		t.Fatalf("got output %q, want %q", out.String(), "1\n")
	}
}

func TestImportMissingFileIsImportError(t *testing.T) {
	var out bytes.Buffer
	ev := NewEvaluator(&out, func(string) ([]byte, error) { return nil, ErrNotFound })
	_, err := ev.Run([]byte(`import("missing.as");`), ".", "main.as")
	se, ok := err.(*SourceError)
	if !ok || se.Category != CategoryImport {
		t.Fatalf("expected an ImportError, got %v", err)
	}
}

func TestReturnUnwindsThroughNestedBlocksAndLoops(t *testing.T) {
	_, out := runOrFatal(t, `
		function findFirstOdd(limit) {
			let i = 0;
			while (i < limit) {
				if (i % 2 == 1) {
					return i;
				}
				i = i + 1;
			}
			return limit;
		}
		print(findFirstOdd(7));
	`)
	if out != "1\n" {
		t.Fatalf("got output %q, want %q", out, "1\n")
	}
}

func TestBlockShadowsOuterBindingWithoutMutatingIt(t *testing.T) {
	_, out := runOrFatal(t, `
		let x = 1;
		{
			let x = 2;
			print(x);
		}
		print(x);
	`)
	want := "2\n1\n"
	if out != want {
		t.Fatalf("got output %q, want %q", out, want)
	}
}

func TestEmptyProgramEvaluatesToNull(t *testing.T) {
	var out bytes.Buffer
	ev := NewEvaluator(&out, func(string) ([]byte, error) { return nil, ErrNotFound })
	val, err := ev.Run([]byte(`
		// just a comment, no statements
	`), ".", "test.as")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(NullType, val.Type()); diff != "" {
		t.Fatalf("unexpected result type (-want +got):\n%s", diff)
	}
}
