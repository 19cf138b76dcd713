package format

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/dhamidi/hkast/hk/token"
)

// TokenEncoder writes tokens back out in the wire format, one record per
// line.
type TokenEncoder struct {
	w io.Writer
}

func NewTokenEncoder(w io.Writer) *TokenEncoder {
	return &TokenEncoder{w: w}
}

func (e *TokenEncoder) Encode(toks []token.Token) error {
	bw := bufio.NewWriter(e.w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, tok := range toks {
		if err := enc.Encode(tok); err != nil {
			return err
		}
	}
	return bw.Flush()
}
