package format

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/dhamidi/hkast/hk/ast"
	"github.com/dhamidi/hkast/hk/parser"
	"github.com/dhamidi/hkast/hk/token"
	"github.com/dhamidi/hkast/hk/tokenstream"
	"github.com/tliron/commonlog"
)

var testcasesDir string
var testFilter string

func init() {
	flag.StringVar(&testcasesDir, "testcases", "testdata", "directory containing .jsonl token streams")
	flag.StringVar(&testFilter, "filter", "", "filter test files by substring match on filename")
}

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(m.Run())
}

// TestRoundTrip_Testcases re-encodes every token stream in the testcases
// directory with TokenEncoder, ingests and parses the result again, and
// checks that both trees agree.
func TestRoundTrip_Testcases(t *testing.T) {
	var files []string
	err := filepath.WalkDir(testcasesDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".jsonl") {
			if testFilter != "" && !strings.Contains(path, testFilter) {
				return nil
			}
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk testcases directory: %v", err)
	}
	if len(files) == 0 {
		t.Skipf("no .jsonl files found in %s", testcasesDir)
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".jsonl")
		t.Run(name, func(t *testing.T) {
			runRoundTripTest(t, file)
		})
	}
}

func runRoundTripTest(t *testing.T, filename string) {
	source, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	origToks, origAST := ingestAndParse(t, source)

	var encoded bytes.Buffer
	if err := NewTokenEncoder(&encoded).Encode(origToks); err != nil {
		t.Fatalf("encode tokens: %v", err)
	}
	if !bytes.Equal(bytes.TrimSpace(encoded.Bytes()), bytes.TrimSpace(source)) {
		t.Errorf("re-encoded stream differs from the original")
	}

	_, fmtAST := ingestAndParse(t, encoded.Bytes())

	diffs := compareNodeCounts(countNodeKinds(origAST), countNodeKinds(fmtAST))
	if len(diffs) > 0 {
		t.Errorf("node counts differ after round trip:\n%s", strings.Join(diffs, "\n"))
	}

	origJSON, err := NewASTJSONEncoder(nil).MarshalText(origAST)
	if err != nil {
		t.Fatal(err)
	}
	fmtJSON, err := NewASTJSONEncoder(nil).MarshalText(fmtAST)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(origJSON, fmtJSON) {
		t.Errorf("trees differ after round trip")
	}
}

func ingestAndParse(t *testing.T, src []byte) ([]token.Token, *ast.Program) {
	t.Helper()
	buf := token.NewBuffer()
	r := tokenstream.NewReader(buf, tokenstream.WithLogger(commonlog.MOCK_LOGGER))
	if _, err := r.ReadAll(context.Background(), bytes.NewReader(src)); err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(r.Errors()) > 0 {
		t.Fatalf("decode errors: %v", r.Errors())
	}
	toks := buf.Tokens()
	prog, _ := parser.Program(buf, parser.WithRecovery(true), parser.WithLogger(commonlog.MOCK_LOGGER))
	if prog == nil {
		t.Fatal("no tree")
	}
	return toks, prog
}

func countNodeKinds(root ast.Node) map[string]int {
	counts := make(map[string]int)
	ast.Inspect(root, func(n ast.Node) bool {
		if n != nil {
			counts[n.Kind().String()]++
		}
		return true
	})
	return counts
}

func compareNodeCounts(orig, formatted map[string]int) []string {
	kinds := make(map[string]bool)
	for k := range orig {
		kinds[k] = true
	}
	for k := range formatted {
		kinds[k] = true
	}

	var sorted []string
	for k := range kinds {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	var diffs []string
	for _, k := range sorted {
		if orig[k] != formatted[k] {
			diffs = append(diffs, fmt.Sprintf("  %s: %d -> %d", k, orig[k], formatted[k]))
		}
	}
	return diffs
}
