// Package complete classifies cursor positions for completion queries and
// builds the candidate item list from a workspace aggregate.
package complete

import (
	"github.com/standardbeagle/wrensense/internal/types"
)

// Kind classifies a completion position.
type Kind int

const (
	// KindIdentifier is bare-identifier completion over the current word.
	KindIdentifier Kind = iota
	// KindMember is completion after `receiver.`.
	KindMember
)

// ReceiverKind says how the receiver before the dot should be interpreted.
type ReceiverKind int

const (
	// ReceiverNone means there is no receiver.
	ReceiverNone ReceiverKind = iota
	// ReceiverType means the receiver names a class; offer its statics.
	ReceiverType
	// ReceiverValue means the receiver is a value; offer instance methods.
	ReceiverValue
)

// Context is the classification of one cursor position, derived purely from
// the text on the current line. Type-vs-value receiver dispatch happens
// later in Classify, where the scope resolver's bindings are available.
type Context struct {
	Kind        Kind
	Receiver    string
	Partial     string
	ReplaceSpan types.Span // absolute span of the partial word, for replacement
}

// Analyze classifies the cursor position at offset within source. The text
// immediately preceding the cursor on the current line decides everything:
// `<identifier>.<partial?>` is member access, anything else is
// bare-identifier completion over the current word range.
func Analyze(source string, offset int) Context {
	if offset > len(source) {
		offset = len(source)
	}
	lineStart := offset
	for lineStart > 0 && source[lineStart-1] != '\n' {
		lineStart--
	}

	// Current word, scanning back from the cursor.
	wordStart := offset
	for wordStart > lineStart && isWordByte(source[wordStart-1]) {
		wordStart--
	}
	partial := source[wordStart:offset]

	ctx := Context{
		Kind:        KindIdentifier,
		Partial:     partial,
		ReplaceSpan: types.SpanBetween(wordStart, offset),
	}

	if wordStart > lineStart && source[wordStart-1] == '.' {
		recvEnd := wordStart - 1
		recvStart := recvEnd
		for recvStart > lineStart && isWordByte(source[recvStart-1]) {
			recvStart--
		}
		if recvStart < recvEnd {
			ctx.Kind = KindMember
			ctx.Receiver = source[recvStart:recvEnd]
		}
	}
	return ctx
}

// Classify decides whether the receiver is a type or value reference. Known
// local bindings win: a receiver the scope resolver typed is a value of
// that type no matter how it is spelled. The capitalization heuristic
// (uppercase first letter means type) remains the documented fallback for
// receivers with no known binding.
func (c Context) Classify(locals map[string]string) (ReceiverKind, string) {
	if c.Kind != KindMember {
		return ReceiverNone, ""
	}
	if locals != nil {
		if typeName, ok := locals[c.Receiver]; ok {
			return ReceiverValue, typeName
		}
	}
	if isCapitalized(c.Receiver) {
		return ReceiverType, c.Receiver
	}
	return ReceiverValue, ""
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isCapitalized(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}
