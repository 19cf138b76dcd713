package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/hkast/config"
)

const sum = `{"token_type":"Number","value":"1","line":1,"column":1}
{"token_type":"MathematicalOp","value":"+","line":1,"column":3}
{"token_type":"Number","value":"2","line":1,"column":5}
`

// execute runs the CLI with a config file holding conf, which may be empty.
func execute(t *testing.T, conf string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hkast.toml")
	if err := os.WriteFile(path, []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvVar, path)

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCommand(t *testing.T) {
	file := writeFile(t, "sum.jsonl", sum)
	broken := writeFile(t, "broken.jsonl", `{"token_type":"Number","value":"1","line":1,"column":1}
{"token_type":"MathematicalOp","value":"+","line":1,"column":3}
`)

	tests := []struct {
		name    string
		conf    string
		args    []string
		stdout  string
		stderr  string
		wantErr bool
	}{
		{
			name:   "infix",
			args:   []string{"parse", "--format", "infix", file},
			stdout: "(1 + 2);\n",
		},
		{
			name:   "expression",
			args:   []string{"parse", "-f", "infix", "--expr", file},
			stdout: "(1 + 2)\n",
		},
		{
			name:   "format from config",
			conf:   "[output]\nformat = \"json\"\n",
			args:   []string{"parse", file},
			stdout: `{"kind":"Program"`,
		},
		{
			name:    "syntax error",
			args:    []string{"parse", "--color", "never", broken},
			stderr:  "broken.jsonl:1:4: error: expected operand after '+', found end of input",
			wantErr: true,
		},
		{
			name:    "unknown format",
			args:    []string{"parse", "--format", "xml", file},
			wantErr: true,
		},
		{
			name:    "missing file",
			args:    []string{"parse", "-f", "infix", file, filepath.Join(t.TempDir(), "nope.jsonl")},
			stdout:  "(1 + 2);",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := execute(t, tt.conf, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v\nstderr: %s", err, tt.wantErr, stderr)
			}
			if !strings.Contains(stdout, tt.stdout) {
				t.Errorf("stdout %q does not contain %q", stdout, tt.stdout)
			}
			if !strings.Contains(stderr, tt.stderr) {
				t.Errorf("stderr %q does not contain %q", stderr, tt.stderr)
			}
		})
	}
}

func TestTokensCommand(t *testing.T) {
	file := writeFile(t, "messy.jsonl", `  {"line":1,"column":1,"value":"x","token_type":"Identifier","extra":1}

oops
{"token_type":"Relop","value":"<=","line":1,"column":3}
`)
	stdout, stderr, err := execute(t, "", "tokens", "--color", "never", file)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	want := `{"token_type":"Identifier","value":"x","line":1,"column":1}
{"token_type":"Relop","value":"<=","line":1,"column":3}
`
	if stdout != want {
		t.Errorf("got:\n%s\nwant:\n%s", stdout, want)
	}
	if !strings.Contains(stderr, "messy.jsonl:3:1: warning: skipped token record") {
		t.Errorf("stderr %q does not report line 3", stderr)
	}

	if _, _, err := execute(t, "", "tokens", "--strict", "--color", "never", file); err == nil {
		t.Error("--strict accepted a malformed record")
	}
}

func TestGrammarCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "grammar", "check")
	if err != nil {
		t.Fatalf("grammar check: %v", err)
	}
	if !strings.HasPrefix(stdout, "ok: ") {
		t.Errorf("got %q", stdout)
	}

	bad := writeFile(t, "bad.ebnf", `Program = Missing .`)
	_, stderr, err := execute(t, "", "grammar", "check", bad)
	if err == nil {
		t.Fatal("grammar check accepted an undefined production")
	}
	if !strings.Contains(stderr, "Missing") {
		t.Errorf("stderr %q does not name the missing production", stderr)
	}
}

func TestGrammarAcceptCommand(t *testing.T) {
	file := writeFile(t, "sum.jsonl", sum)
	stdout, _, err := execute(t, "", "grammar", "accept", file)
	if err != nil {
		t.Fatalf("grammar accept: %v", err)
	}
	if !strings.HasSuffix(stdout, "accepted (3 tokens)\n") {
		t.Errorf("got %q", stdout)
	}

	chained := writeFile(t, "chained.jsonl", `{"token_type":"Identifier","value":"a","line":1,"column":1}
{"token_type":"Relop","value":"<","line":1,"column":3}
{"token_type":"Identifier","value":"b","line":1,"column":5}
{"token_type":"Relop","value":"<","line":1,"column":7}
{"token_type":"Identifier","value":"c","line":1,"column":9}
`)
	_, _, err = execute(t, "", "grammar", "accept", chained)
	if err == nil || !strings.Contains(err.Error(), "1:7") {
		t.Errorf("got %v, want a rejection at 1:7", err)
	}
}

func TestConfigErrors(t *testing.T) {
	_, _, err := execute(t, "[output]\nformat = \"xml\"\n", "parse", "--format", "tree")
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Errorf("got %v, want a config error", err)
	}
}
