// Package signature locates the active call around a cursor position and
// builds signature help from the workspace aggregate.
package signature

// Call describes the call expression enclosing the cursor.
type Call struct {
	Member     string
	Receiver   string // "" when the call has no explicit receiver
	ParamIndex int    // zero-based active parameter
}

// Find scans left from the cursor for the nearest unmatched '(' and
// extracts the called member, the optional receiver, and the active
// parameter index. Matched pairs between the cursor and the open paren are
// treated as opaque. Returns false when the cursor is not inside a call.
func Find(source string, offset int) (Call, bool) {
	if offset > len(source) {
		offset = len(source)
	}

	// Nearest unmatched '(' to the left.
	depth := 0
	open := -1
	for i := offset - 1; i >= 0; i-- {
		switch source[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		case '\n':
			// A call never spans the statement the cursor is on upward;
			// keep scanning, argument lists may wrap lines.
		}
		if open >= 0 {
			break
		}
	}
	if open < 0 {
		return Call{}, false
	}

	// Member name immediately left of the paren, trailing whitespace
	// trimmed.
	nameEnd := open
	for nameEnd > 0 && isSpaceByte(source[nameEnd-1]) {
		nameEnd--
	}
	nameStart := nameEnd
	for nameStart > 0 && isWordByte(source[nameStart-1]) {
		nameStart--
	}
	if nameStart == nameEnd {
		return Call{}, false
	}

	call := Call{Member: source[nameStart:nameEnd]}

	// Optional receiver: `<identifier>.` before the member.
	if nameStart > 0 && source[nameStart-1] == '.' {
		recvEnd := nameStart - 1
		recvStart := recvEnd
		for recvStart > 0 && isWordByte(source[recvStart-1]) {
			recvStart--
		}
		if recvStart < recvEnd {
			call.Receiver = source[recvStart:recvEnd]
		}
	}

	// Active parameter: top-level commas between the open paren and the
	// cursor, depth-tracked the same way.
	depth = 0
	for i := open + 1; i < offset; i++ {
		switch source[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				call.ParamIndex++
			}
		}
	}
	return call, true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t'
}
