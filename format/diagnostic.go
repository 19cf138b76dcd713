package format

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dhamidi/hkast/hk/parser"
	"github.com/dhamidi/hkast/hk/token"
	"github.com/dhamidi/hkast/hk/tokenstream"
	"github.com/muesli/termenv"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a positioned message about one input.
type Diagnostic struct {
	File     string
	Pos      token.Position
	End      token.Position // zero when the problem has no extent
	Severity Severity
	Message  string
}

// Diagnostics converts decode and syntax errors into diagnostics for file.
// Decode errors are warnings: the record was skipped and ingestion went on.
func Diagnostics(file string, decodeErrs []*tokenstream.DecodeError, syntaxErrs parser.ErrorList) []Diagnostic {
	diags := make([]Diagnostic, 0, len(decodeErrs)+len(syntaxErrs))
	for _, e := range decodeErrs {
		diags = append(diags, Diagnostic{
			File:     file,
			Pos:      token.Position{Line: e.Line, Column: 1},
			End:      token.Position{Line: e.Line, Column: len(e.Raw) + 1},
			Severity: SeverityWarning,
			Message:  "skipped token record: " + e.Cause.Error(),
		})
	}
	for _, e := range syntaxErrs {
		d := Diagnostic{
			File:     file,
			Pos:      e.Pos,
			Severity: SeverityError,
			Message:  e.Msg,
		}
		if e.Got != nil {
			d.End = e.Got.End()
		}
		diags = append(diags, d)
	}
	return diags
}

// DiagnosticsFromError is Diagnostics for a single error returned by the
// parser or the token stream reader.
func DiagnosticsFromError(file string, err error) []Diagnostic {
	var list parser.ErrorList
	var serr *parser.SyntaxError
	var derr *tokenstream.DecodeError
	switch {
	case errors.As(err, &list):
		return Diagnostics(file, nil, list)
	case errors.As(err, &serr):
		return Diagnostics(file, nil, parser.ErrorList{serr})
	case errors.As(err, &derr):
		return Diagnostics(file, []*tokenstream.DecodeError{derr}, nil)
	}
	return []Diagnostic{{File: file, Severity: SeverityError, Message: err.Error()}}
}

type diagnosticStyles struct {
	location lipgloss.Style
	err      lipgloss.Style
	warning  lipgloss.Style
	message  lipgloss.Style
	summary  lipgloss.Style
}

// DiagnosticRenderer writes diagnostics as "file:line:col: severity:
// message" lines.
type DiagnosticRenderer struct {
	w      io.Writer
	styles diagnosticStyles
}

// ColorMode selects whether diagnostics are styled.
type ColorMode int

const (
	// ColorAuto styles output only when w is a color-capable terminal.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode accepts "auto", "always" and "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode %q", s)
}

// NewDiagnosticRenderer returns a renderer writing to w.
func NewDiagnosticRenderer(w io.Writer, mode ColorMode) *DiagnosticRenderer {
	d := &DiagnosticRenderer{w: w}
	if mode == ColorNever {
		plain := lipgloss.NewStyle()
		d.styles = diagnosticStyles{plain, plain, plain, plain, plain}
		return d
	}
	r := lipgloss.NewRenderer(w)
	if mode == ColorAlways {
		r.SetColorProfile(termenv.TrueColor)
	}
	d.styles = diagnosticStyles{
		location: r.NewStyle().Bold(true),
		err:      r.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		warning:  r.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true),
		message:  r.NewStyle(),
		summary:  r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
	return d
}

func (d *DiagnosticRenderer) Render(diags []Diagnostic) error {
	var sb strings.Builder
	for _, diag := range diags {
		sb.WriteString(d.line(diag))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(d.w, sb.String())
	return err
}

// Summary writes a count of errors and warnings.
func (d *DiagnosticRenderer) Summary(diags []Diagnostic) error {
	var errs, warnings int
	for _, diag := range diags {
		if diag.Severity == SeverityWarning {
			warnings++
		} else {
			errs++
		}
	}
	text := fmt.Sprintf("%s, %s", plural(errs, "error"), plural(warnings, "warning"))
	_, err := fmt.Fprintln(d.w, d.styles.summary.Render(text))
	return err
}

func (d *DiagnosticRenderer) line(diag Diagnostic) string {
	loc := diag.File
	if diag.Pos.IsValid() {
		if loc != "" {
			loc += ":"
		}
		loc += diag.Pos.String()
	}
	sev := d.styles.err
	if diag.Severity == SeverityWarning {
		sev = d.styles.warning
	}
	var sb strings.Builder
	if loc != "" {
		sb.WriteString(d.styles.location.Render(loc + ":"))
		sb.WriteByte(' ')
	}
	sb.WriteString(sev.Render(diag.Severity.String() + ":"))
	sb.WriteByte(' ')
	sb.WriteString(d.styles.message.Render(diag.Message))
	return sb.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
