package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/hkast/hk/ast"
)

// LineEncoder writes one tab-separated line per node:
//
//	path	kind	line:col	op	value	flags
//
// The path lists child indices from the root, joined by '.', with "." for
// the root itself. Empty columns are written as "-", so every line has six
// fields and can be processed with cut or awk.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(node ast.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText(node ast.Node) ([]byte, error) {
	if node == nil {
		return nil, fmt.Errorf("lines: no tree to render")
	}
	var sb strings.Builder
	e.writeNode(&sb, node, nil)
	return []byte(sb.String()), nil
}

func (e *LineEncoder) writeNode(sb *strings.Builder, n ast.Node, path []int) {
	op, value, flags := describe(n)
	if end, ok := badEnd(n); ok {
		flags = append(flags, "to="+end.String())
	}
	fmt.Fprintf(sb, "%s\t%s\t%s\t%s\t%s\t%s\n",
		pathString(path),
		n.Kind(),
		n.Pos(),
		orDash(op),
		orDash(strconv.Quote(value), value != ""),
		orDash(strings.Join(flags, ",")),
	)
	for i, c := range ast.Children(n) {
		e.writeNode(sb, c, append(path, i))
	}
}

func pathString(path []int) string {
	if len(path) == 0 {
		return "."
	}
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ".")
}

// orDash returns s, or "-" when s is empty or any of present is false.
func orDash(s string, present ...bool) string {
	for _, ok := range present {
		if !ok {
			return "-"
		}
	}
	if s == "" {
		return "-"
	}
	return s
}
