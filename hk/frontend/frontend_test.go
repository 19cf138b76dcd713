package frontend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/dhamidi/hkast/hk/ast"
	"github.com/google/uuid"
)

const sum = `{"token_type":"Number","value":"1","line":1,"column":1}
{"token_type":"MathematicalOp","value":"+","line":1,"column":3}
{"token_type":"Number","value":"2","line":1,"column":5}
`

func record(kind, value string, line, col int) string {
	return fmt.Sprintf(`{"token_type":%q,"value":%q,"line":%d,"column":%d}`+"\n", kind, value, line, col)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		opts         Options
		decodeErrors int
		syntaxErrors int
		want         string
	}{
		{
			name:  "expression",
			input: sum,
			opts:  Options{Expression: true},
			want:  "(1 + 2)",
		},
		{
			name:  "program",
			input: sum,
			want:  "(1 + 2)",
		},
		{
			name:         "malformed record is skipped",
			input:        record("Number", "1", 1, 1) + "not json\n" + record("MathematicalOp", "*", 1, 3) + record("Number", "2", 1, 5),
			opts:         Options{Expression: true},
			decodeErrors: 1,
			want:         "(1 * 2)",
		},
		{
			name:         "syntax error without recovery",
			input:        record("Number", "1", 1, 1) + record("MathematicalOp", "+", 1, 3),
			syntaxErrors: 1,
		},
		{
			name: "syntax error with recovery",
			input: record("Keyword", "let", 1, 1) + record("Punctuation", ";", 1, 5) +
				record("Identifier", "x", 2, 1) + record("Punctuation", ";", 2, 2),
			opts:         Options{Recover: true},
			syntaxErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(context.Background(), tt.name, strings.NewReader(tt.input), tt.opts)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if _, err := uuid.Parse(res.ID); err != nil {
				t.Errorf("ID %q is not a UUID: %v", res.ID, err)
			}
			if len(res.DecodeErrors) != tt.decodeErrors {
				t.Errorf("got %d decode errors, want %d", len(res.DecodeErrors), tt.decodeErrors)
			}
			if len(res.SyntaxErrors) != tt.syntaxErrors {
				t.Errorf("got %d syntax errors, want %d: %v", len(res.SyntaxErrors), tt.syntaxErrors, res.SyntaxErrors)
			}
			if tt.want == "" {
				return
			}
			var x ast.Expr
			switch {
			case res.Expr != nil:
				x = res.Expr
			case res.Program != nil && len(res.Program.Stmts) == 1:
				x = res.Program.Stmts[0].(*ast.ExprStmt).X
			default:
				t.Fatalf("no tree in result")
			}
			if got := ast.Infix(x); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRunIDsAreUnique(t *testing.T) {
	a, err := Run(context.Background(), "a", strings.NewReader(sum), Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(context.Background(), "b", strings.NewReader(sum), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Errorf("both runs got ID %s", a.ID)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, "cancelled", strings.NewReader(sum), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 1; i <= 6; i++ {
		path := filepath.Join(dir, "f"+strconv.Itoa(i)+".jsonl")
		src := record("Identifier", "v"+strconv.Itoa(i), 1, 1)
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	missing := filepath.Join(dir, "missing.jsonl")
	paths = append(paths, missing)

	results, err := RunFiles(context.Background(), paths, Options{Jobs: 2})
	if err == nil || !strings.Contains(err.Error(), "missing.jsonl") {
		t.Errorf("got error %v, want one naming missing.jsonl", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for i, res := range results[:6] {
		if res == nil {
			t.Fatalf("result %d is nil", i)
		}
		if res.Name != paths[i] {
			t.Errorf("result %d is for %s, want %s", i, res.Name, paths[i])
		}
		id := res.Program.Stmts[0].(*ast.ExprStmt).X.(*ast.Identifier)
		if want := "v" + strconv.Itoa(i+1); id.Name != want {
			t.Errorf("result %d parsed %s, want %s", i, id.Name, want)
		}
	}
	if results[6] != nil {
		t.Errorf("missing file produced a result")
	}
}
