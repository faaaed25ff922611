package as

import (
	"bytes"
	"errors"
	"testing"
)

func TestRunWritesPrintOutput(t *testing.T) {
	var out bytes.Buffer
	p := New(WithOutput(&out), WithReadSource(func(string) ([]byte, error) {
		return nil, ErrNotFound
	}))
	if _, err := p.Run([]byte(`print(1 + 2 * 3);`), ".", "inline.as"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "7\n" {
		t.Fatalf("got output %q, want %q", out.String(), "7\n")
	}
}

func TestRunFileUsesInjectedReadSource(t *testing.T) {
	files := map[string]string{
		"main.as": `print("hi" + " " + 1);`,
	}
	var out bytes.Buffer
	p := New(WithOutput(&out), WithReadSource(func(path string) ([]byte, error) {
		src, ok := files[path]
		if !ok {
			return nil, ErrNotFound
		}
		return []byte(src), nil
	}))
	if _, err := p.RunFile("main.as"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "hi 1\n" {
		t.Fatalf("got output %q, want %q", out.String(), "hi 1\n")
	}
}

func TestRunFileMissingIsFatal(t *testing.T) {
	p := New(WithReadSource(func(string) ([]byte, error) { return nil, ErrNotFound }))
	_, err := p.RunFile("missing.as")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	var se *SourceError
	if !errors.As(err, &se) {
		t.Fatalf("expected a *SourceError, got %T", err)
	}
}
