package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/hkast/hk/ast"
	"github.com/dhamidi/hkast/hk/token"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node ast.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(node ast.Node) ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(node), "", "  ")
}

type astJSONNode struct {
	Kind     string           `json:"kind"`
	Pos      *astJSONPosition `json:"pos,omitempty"`
	Span     *astJSONSpan     `json:"span,omitempty"`
	Op       string           `json:"op,omitempty"`
	Value    string           `json:"value,omitempty"`
	Flags    []string         `json:"flags,omitempty"`
	Children []*astJSONNode   `json:"children,omitempty"`
}

// astJSONSpan is set for the placeholders left by error recovery.
type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func jsonPos(p token.Position) astJSONPosition {
	return astJSONPosition{Line: p.Line, Column: p.Column}
}

func nodeToJSON(n ast.Node) *astJSONNode {
	if n == nil {
		return nil
	}
	jn := &astJSONNode{
		Kind: n.Kind().String(),
	}
	if pos := n.Pos(); pos.IsValid() {
		p := jsonPos(pos)
		jn.Pos = &p
	}
	jn.Op, jn.Value, jn.Flags = describe(n)

	if end, ok := badEnd(n); ok {
		jn.Span = &astJSONSpan{Start: jsonPos(n.Pos()), End: jsonPos(end)}
	}

	children := ast.Children(n)
	if len(children) > 0 {
		jn.Children = make([]*astJSONNode, len(children))
		for i, child := range children {
			jn.Children[i] = nodeToJSON(child)
		}
	}

	return jn
}
