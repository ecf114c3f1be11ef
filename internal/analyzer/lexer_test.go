package analyzer

import "testing"

func scanTypes(t *testing.T, source string) []TokenType {
	t.Helper()
	lexer := NewLexer(source)
	tokens, diags := lexer.Scan()
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	out := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Type)
	}
	return out
}

func TestLexerBasicTokens(t *testing.T) {
	got := scanTypes(t, "class Vec2 is Base {}")
	want := []TokenType{KwClass, IDENT, KwIs, IDENT, LBRACE, RBRACE, EOF}
	if len(got) != len(want) {
		t.Fatalf("token types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexerRangeVersusFloat(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []TokenType
	}{
		{"inclusive range", "1..10", []TokenType{NUMBER, DOTDOT, NUMBER, EOF}},
		{"exclusive range", "1...10", []TokenType{NUMBER, ELLIPSIS, NUMBER, EOF}},
		{"float", "1.5", []TokenType{NUMBER, EOF}},
		{"float range", "1.5..2.5", []TokenType{NUMBER, DOTDOT, NUMBER, EOF}},
		{"member on number", "1.abs", []TokenType{NUMBER, DOT, IDENT, EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scanTypes(t, tt.source)
			if len(got) != len(tt.want) {
				t.Fatalf("token types = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLexerFields(t *testing.T) {
	lexer := NewLexer("_x __count")
	tokens, _ := lexer.Scan()
	if tokens[0].Type != FIELD || tokens[0].Lexeme != "_x" {
		t.Errorf("field token = %v %q", tokens[0].Type, tokens[0].Lexeme)
	}
	if tokens[1].Type != STATICFIELD || tokens[1].Lexeme != "__count" {
		t.Errorf("static field token = %v %q", tokens[1].Type, tokens[1].Lexeme)
	}
}

func TestLexerComments(t *testing.T) {
	got := scanTypes(t, "a // line comment\nb /* block /* nested */ still */ c")
	want := []TokenType{IDENT, NEWLINE, IDENT, IDENT, EOF}
	if len(got) != len(want) {
		t.Fatalf("token types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexerStringInterpolation(t *testing.T) {
	lexer := NewLexer(`"count: %(items.count) done"`)
	tokens, diags := lexer.Scan()
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if tokens[0].Type != STRING {
		t.Fatalf("interpolated string should scan as one STRING token, got %v", tokens[0].Type)
	}
	if tokens[1].Type != EOF {
		t.Errorf("expected EOF after string, got %v", tokens[1].Type)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	lexer := NewLexer(`var s = "oops`)
	_, diags := lexer.Scan()
	if len(diags) == 0 {
		t.Fatal("unterminated string should produce a diagnostic")
	}
	if diags[0].Code != "lex-error" {
		t.Errorf("diagnostic code = %q, want lex-error", diags[0].Code)
	}
}

func TestLexerHexAndExponent(t *testing.T) {
	got := scanTypes(t, "0xFF 1e10 2.5e-3")
	want := []TokenType{NUMBER, NUMBER, NUMBER, EOF}
	if len(got) != len(want) {
		t.Fatalf("token types = %v, want %v", got, want)
	}
}

func TestLexerAttributeLinesSkipped(t *testing.T) {
	got := scanTypes(t, "#!attribute(key = value)\nclass A {}")
	if got[0] != NEWLINE && got[0] != KwClass {
		t.Errorf("attribute line should be skipped, first token %v", got[0])
	}
}
