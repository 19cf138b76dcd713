package lsp

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/dhamidi/hkast/format"
	"github.com/dhamidi/hkast/hk/frontend"
	"github.com/dhamidi/hkast/hk/parser"
	"github.com/dhamidi/hkast/hk/token"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Diagnostics converts the decode and syntax errors of res into LSP
// diagnostics for the token-stream document text. Each one covers the
// record that caused it; the source position reported by the parser is kept
// in the message.
func Diagnostics(uri protocol.DocumentUri, text string, res *frontend.Result) []protocol.Diagnostic {
	lines := splitLines(text)
	found := format.Diagnostics(res.Name, res.DecodeErrors, res.SyntaxErrors)

	diags := make([]protocol.Diagnostic, 0, len(found))
	for i, d := range found {
		if i < len(res.DecodeErrors) {
			diags = append(diags, convert(d, d.Message, recordRange(lines, res.DecodeErrors[i].Line)))
			continue
		}
		serr := res.SyntaxErrors[i-len(res.DecodeErrors)]
		pd := convert(d, fmt.Sprintf("%s (at %s)", d.Message, d.Pos), recordRange(lines, errorLine(res, serr)))
		if serr.Opener != nil {
			if line := tokenLine(res, *serr.Opener); line > 0 {
				pd.RelatedInformation = []protocol.DiagnosticRelatedInformation{{
					Location: protocol.Location{URI: uri, Range: recordRange(lines, line)},
					Message:  "opened here",
				}}
			}
		}
		diags = append(diags, pd)
	}
	return diags
}

func convert(d format.Diagnostic, msg string, rng protocol.Range) protocol.Diagnostic {
	sev := protocol.DiagnosticSeverityError
	if d.Severity == format.SeverityWarning {
		sev = protocol.DiagnosticSeverityWarning
	}
	src := lsName
	return protocol.Diagnostic{
		Range:    rng,
		Severity: &sev,
		Source:   &src,
		Message:  msg,
	}
}

// errorLine is the record line of the token an error was reported at. Errors
// at end of input land on the last record.
func errorLine(res *frontend.Result, e *parser.SyntaxError) int {
	if e.Got != nil {
		if line := tokenLine(res, e.Got.Pos()); line > 0 {
			return line
		}
	}
	if n := len(res.RecordLines); n > 0 {
		return res.RecordLines[n-1]
	}
	return 1
}

// tokenLine returns the record line of the first token at pos, or 0.
func tokenLine(res *frontend.Result, pos token.Position) int {
	for i, tok := range res.Tokens {
		if tok.Pos() == pos && i < len(res.RecordLines) {
			return res.RecordLines[i]
		}
	}
	return 0
}

// recordRange spans the whole of the 1-based line n, clamped to the
// document.
func recordRange(lines []string, n int) protocol.Range {
	if len(lines) == 0 {
		return protocol.Range{}
	}
	n = min(max(n, 1), len(lines))
	end := len(utf16.Encode([]rune(lines[n-1])))
	line := protocol.UInteger(n - 1)
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: 0},
		End:   protocol.Position{Line: line, Character: protocol.UInteger(end)},
	}
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
