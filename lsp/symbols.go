package lsp

import (
	"github.com/dhamidi/hkast/hk/ast"
	"github.com/dhamidi/hkast/hk/frontend"
	"github.com/dhamidi/hkast/hk/token"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Symbols lists the top-level declarations of a parsed program. Ranges
// point at the records holding the declaring keyword and the name.
func Symbols(text string, res *frontend.Result) []protocol.DocumentSymbol {
	syms := []protocol.DocumentSymbol{}
	if res.Program == nil {
		return syms
	}
	lines := splitLines(text)
	at := func(pos token.Position) protocol.Range {
		return recordRange(lines, tokenLine(res, pos))
	}
	field := func(f *ast.Field, kind protocol.SymbolKind) protocol.DocumentSymbol {
		return protocol.DocumentSymbol{
			Name:           f.Name.Name,
			Detail:         typeDetail(f.Type),
			Kind:           kind,
			Range:          at(f.Pos()),
			SelectionRange: at(f.Pos()),
		}
	}

	for _, stmt := range res.Program.Stmts {
		switch d := stmt.(type) {
		case *ast.FuncDecl:
			sym := protocol.DocumentSymbol{
				Name:           d.Name.Name,
				Detail:         typeDetail(d.Result),
				Kind:           protocol.SymbolKindFunction,
				Range:          at(d.Pos()),
				SelectionRange: at(d.Name.Pos()),
			}
			for _, p := range d.Params {
				sym.Children = append(sym.Children, field(p, protocol.SymbolKindVariable))
			}
			syms = append(syms, sym)
		case *ast.StructDecl:
			sym := protocol.DocumentSymbol{
				Name:           d.Name.Name,
				Kind:           protocol.SymbolKindStruct,
				Range:          at(d.Pos()),
				SelectionRange: at(d.Name.Pos()),
			}
			for _, f := range d.Fields {
				sym.Children = append(sym.Children, field(f, protocol.SymbolKindField))
			}
			syms = append(syms, sym)
		case *ast.VarDecl:
			kind := protocol.SymbolKindVariable
			if d.Const {
				kind = protocol.SymbolKindConstant
			}
			syms = append(syms, protocol.DocumentSymbol{
				Name:           d.Name.Name,
				Detail:         typeDetail(d.Type),
				Kind:           kind,
				Range:          at(d.Pos()),
				SelectionRange: at(d.Name.Pos()),
			})
		}
	}
	return syms
}

func typeDetail(t *ast.TypeRef) *string {
	if t == nil {
		return nil
	}
	return &t.Name
}
