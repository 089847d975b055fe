package compiler

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
		wantErr  bool
	}{
		{
			name:  "Empty",
			input: "",
			expected: []Token{
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Basic Commands",
			input: "ironman batman superman wonderwoman thor",
			expected: []Token{
				{Type: IRONMAN, Lexeme: "ironman", Line: 1},
				{Type: BATMAN, Lexeme: "batman", Line: 1},
				{Type: SUPERMAN, Lexeme: "superman", Line: 1},
				{Type: WONDERWOMAN, Lexeme: "wonderwoman", Line: 1},
				{Type: THOR, Lexeme: "thor", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Keywords Are Case Insensitive",
			input: "IronMan THOR Falcon",
			expected: []Token{
				{Type: IRONMAN, Lexeme: "IronMan", Line: 1},
				{Type: THOR, Lexeme: "THOR", Line: 1},
				{Type: FALCON, Lexeme: "Falcon", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Identifiers",
			input: "falcon my_label2",
			expected: []Token{
				{Type: FALCON, Lexeme: "falcon", Line: 1},
				{Type: IDENTIFIER, Lexeme: "my_label2", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Numbers and Cell References",
			input: "add 5 #12",
			expected: []Token{
				{Type: ADD, Lexeme: "add", Line: 1},
				{Type: NUMBER, Lexeme: "5", Line: 1, Value: 5},
				{Type: CELLREF, Lexeme: "#12", Line: 1, Value: 12},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Operators",
			input: "> < >= <= == !=",
			expected: []Token{
				{Type: OPERATOR, Lexeme: ">", Line: 1},
				{Type: OPERATOR, Lexeme: "<", Line: 1},
				{Type: OPERATOR, Lexeme: ">=", Line: 1},
				{Type: OPERATOR, Lexeme: "<=", Line: 1},
				{Type: OPERATOR, Lexeme: "==", Line: 1},
				{Type: OPERATOR, Lexeme: "!=", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Single Equals Normalizes To Double",
			input: "spiderman done vision = 0",
			expected: []Token{
				{Type: SPIDERMAN, Lexeme: "spiderman", Line: 1},
				{Type: IDENTIFIER, Lexeme: "done", Line: 1},
				{Type: VISION, Lexeme: "vision", Line: 1},
				{Type: OPERATOR, Lexeme: "==", Line: 1},
				{Type: NUMBER, Lexeme: "0", Line: 1, Value: 0},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Flash Header With Colon",
			input: "flash spin:",
			expected: []Token{
				{Type: FLASH, Lexeme: "flash", Line: 1},
				{Type: IDENTIFIER, Lexeme: "spin", Line: 1},
				{Type: COLON, Lexeme: ":", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Line Comment",
			input: "ironman hero> the rest is ignored\nbatman",
			expected: []Token{
				{Type: IRONMAN, Lexeme: "ironman", Line: 1},
				{Type: BATMAN, Lexeme: "batman", Line: 2},
				{Type: EOF, Lexeme: "", Line: 2},
			},
		},
		{
			name:  "Block Comment On One Line",
			input: "ironman heroes* hidden *heroes batman",
			expected: []Token{
				{Type: IRONMAN, Lexeme: "ironman", Line: 1},
				{Type: BATMAN, Lexeme: "batman", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Block Comment Across Lines",
			input: "ironman heroes* one\ntwo *heroes batman",
			expected: []Token{
				{Type: IRONMAN, Lexeme: "ironman", Line: 1},
				{Type: BATMAN, Lexeme: "batman", Line: 2},
				{Type: EOF, Lexeme: "", Line: 2},
			},
		},
		{
			name:    "Unterminated Block Comment",
			input:   "heroes* never closed",
			wantErr: true,
		},
		{
			name:  "String Literal",
			input: "starlord \"hello\"",
			expected: []Token{
				{Type: STARLORD, Lexeme: "starlord", Line: 1},
				{Type: STRING, Lexeme: "hello", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "String With Escapes",
			input: "starlord \"a\\nb\\t\\\"c\\\\\"",
			expected: []Token{
				{Type: STARLORD, Lexeme: "starlord", Line: 1},
				{Type: STRING, Lexeme: "a\nb\t\"c\\", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:    "Unknown Escape",
			input:   "starlord \"a\\qb\"",
			wantErr: true,
		},
		{
			name:    "Unterminated String",
			input:   "starlord \"hello",
			wantErr: true,
		},
		{
			name:    "String Does Not Span Lines",
			input:   "starlord \"hello\nironman",
			wantErr: true,
		},
		{
			name:    "Unexpected Character",
			input:   "@",
			wantErr: true,
		},
		{
			name:    "Bare Bang Is Not An Operator",
			input:   "!",
			wantErr: true,
		},
		{
			name:    "Cell Reference Needs Digits",
			input:   "#abc",
			wantErr: true,
		},
		{
			name:    "Cell Reference Rejects Trailing Letters",
			input:   "#12abc",
			wantErr: true,
		},
		{
			name:  "Indentation Is Recorded",
			input: "flash spin:\n    ironman\n        batman",
			expected: []Token{
				{Type: FLASH, Lexeme: "flash", Line: 1},
				{Type: IDENTIFIER, Lexeme: "spin", Line: 1},
				{Type: COLON, Lexeme: ":", Line: 1},
				{Type: IRONMAN, Lexeme: "ironman", Line: 2, Indent: 4},
				{Type: BATMAN, Lexeme: "batman", Line: 3, Indent: 8},
				{Type: EOF, Lexeme: "", Line: 3},
			},
		},
		{
			name:  "Tabs Count As One Column",
			input: "flash spin:\n\tironman",
			expected: []Token{
				{Type: FLASH, Lexeme: "flash", Line: 1},
				{Type: IDENTIFIER, Lexeme: "spin", Line: 1},
				{Type: COLON, Lexeme: ":", Line: 1},
				{Type: IRONMAN, Lexeme: "ironman", Line: 2, Indent: 1},
				{Type: EOF, Lexeme: "", Line: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Tokenize() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if !reflect.DeepEqual(got, tt.expected) {
					t.Errorf("Tokenize() = %v, want %v", got, tt.expected)
				}
			}
		})
	}
}

func TestTokenizeErrorsAreTyped(t *testing.T) {
	_, err := Tokenize("ironman @")
	if err == nil {
		t.Fatal("expected an error for an illegal character")
	}
	lexErr, ok := err.(*LexError)
	if !ok {
		t.Fatalf("expected *LexError, got %T", err)
	}
	if lexErr.Line != 1 {
		t.Errorf("LexError.Line = %d, want 1", lexErr.Line)
	}
}

func TestTokenizeReportsCommentOpenLine(t *testing.T) {
	_, err := Tokenize("ironman\nheroes* open\nbatman")
	if err == nil {
		t.Fatal("expected an error for an unterminated block comment")
	}
	lexErr, ok := err.(*LexError)
	if !ok {
		t.Fatalf("expected *LexError, got %T", err)
	}
	if lexErr.Line != 2 {
		t.Errorf("LexError.Line = %d, want 2 (where the comment opened)", lexErr.Line)
	}
}
