package tokenstream

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dhamidi/hkast/hk/token"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrInvalidField = errors.New("invalid field")
	ErrUnknownKind  = errors.New("unknown token_type")
)

// record is one line of the tokenizer output. Pointer fields distinguish
// an absent (or null) field from a zero value.
type record struct {
	TokenType *string
	Value     *string
	Line      *int
	Column    *int
}

func decodeRecord(raw string) (token.Token, error) {
	// Keys are matched exactly; encoding/json would fold case on a struct.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return token.Token{}, err
	}

	var rec record
	var err error
	if rec.TokenType, err = field[string](fields, "token_type"); err != nil {
		return token.Token{}, err
	}
	if rec.Value, err = field[string](fields, "value"); err != nil {
		return token.Token{}, err
	}
	if rec.Line, err = field[int](fields, "line"); err != nil {
		return token.Token{}, err
	}
	if rec.Column, err = field[int](fields, "column"); err != nil {
		return token.Token{}, err
	}

	switch {
	case rec.TokenType == nil:
		return token.Token{}, fmt.Errorf("%w %q", ErrMissingField, "token_type")
	case rec.Value == nil:
		return token.Token{}, fmt.Errorf("%w %q", ErrMissingField, "value")
	case rec.Line == nil:
		return token.Token{}, fmt.Errorf("%w %q", ErrMissingField, "line")
	case rec.Column == nil:
		return token.Token{}, fmt.Errorf("%w %q", ErrMissingField, "column")
	}

	kind, err := token.ParseKind(*rec.TokenType)
	if err != nil {
		return token.Token{}, fmt.Errorf("%w %q", ErrUnknownKind, *rec.TokenType)
	}
	if *rec.Value == "" {
		return token.Token{}, fmt.Errorf("%w %q: empty lexeme", ErrInvalidField, "value")
	}
	if *rec.Line < 1 {
		return token.Token{}, fmt.Errorf("%w %q: %d is not a 1-based line", ErrInvalidField, "line", *rec.Line)
	}
	if *rec.Column < 1 {
		return token.Token{}, fmt.Errorf("%w %q: %d is not a 1-based column", ErrInvalidField, "column", *rec.Column)
	}

	return token.New(kind, *rec.Value, token.Position{Line: *rec.Line, Column: *rec.Column}), nil
}

// field decodes fields[name]. It returns nil when the key is absent or null.
func field[T any](fields map[string]json.RawMessage, name string) (*T, error) {
	raw, ok := fields[name]
	if !ok {
		return nil, nil
	}
	var v *T
	if err := json.Unmarshal(raw, &v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w %q: got JSON %s", ErrInvalidField, name, typeErr.Value)
		}
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidField, name, err)
	}
	return v, nil
}
