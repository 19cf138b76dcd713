package token

import "errors"

// ErrFrozen is returned by Append once the buffer has been handed to a
// consumer.
var ErrFrozen = errors.New("token buffer is frozen")

// Buffer is an append-only token sequence with a read cursor. Tokens are
// appended during ingestion; after Freeze the contents never change and
// only the cursor moves.
//
// A Buffer is not safe for concurrent use. Use one buffer per parse.
type Buffer struct {
	tokens []Token
	cursor int
	frozen bool
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewBufferFrom returns a buffer holding toks, not yet frozen.
func NewBufferFrom(toks ...Token) *Buffer {
	b := &Buffer{tokens: make([]Token, 0, len(toks))}
	b.tokens = append(b.tokens, toks...)
	return b
}

func (b *Buffer) Append(tok Token) error {
	if b.frozen {
		return ErrFrozen
	}
	b.tokens = append(b.tokens, tok)
	return nil
}

// Freeze ends the append phase. It is idempotent.
func (b *Buffer) Freeze() {
	b.frozen = true
}

func (b *Buffer) Frozen() bool {
	return b.frozen
}

func (b *Buffer) Len() int {
	return len(b.tokens)
}

func (b *Buffer) Cursor() int {
	return b.cursor
}

// Peek returns the token offset positions past the cursor without
// consuming anything.
func (b *Buffer) Peek(offset int) (Token, bool) {
	i := b.cursor + offset
	if offset < 0 || i >= len(b.tokens) {
		return Token{}, false
	}
	return b.tokens[i], true
}

// Advance returns the token at the cursor and moves past it.
func (b *Buffer) Advance() (Token, bool) {
	if b.cursor >= len(b.tokens) {
		return Token{}, false
	}
	tok := b.tokens[b.cursor]
	b.cursor++
	return tok, true
}

func (b *Buffer) AtEnd() bool {
	return b.cursor >= len(b.tokens)
}

// At returns the token at absolute index i, independent of the cursor.
func (b *Buffer) At(i int) (Token, bool) {
	if i < 0 || i >= len(b.tokens) {
		return Token{}, false
	}
	return b.tokens[i], true
}

// Last returns the most recently consumed token.
func (b *Buffer) Last() (Token, bool) {
	if b.cursor == 0 {
		return Token{}, false
	}
	return b.tokens[b.cursor-1], true
}

// Mark is a saved cursor position.
type Mark int

func (b *Buffer) Mark() Mark {
	return Mark(b.cursor)
}

// Reset moves the cursor back to m. Marks from a different buffer, or
// positions ahead of the cursor, are ignored.
func (b *Buffer) Reset(m Mark) {
	if int(m) < 0 || int(m) > b.cursor {
		return
	}
	b.cursor = int(m)
}

// Tokens returns a copy of the buffered tokens.
func (b *Buffer) Tokens() []Token {
	out := make([]Token, len(b.tokens))
	copy(out, b.tokens)
	return out
}
