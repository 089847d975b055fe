package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals and references
	IDENTIFIER // label, loop or array name
	NUMBER     // decimal integer literal
	STRING     // string literal "..." with escapes translated
	CELLREF    // #N, a fixed tape cell

	// Punctuation
	OPERATOR // comparison operator, normalized (= becomes ==)
	COLON    // optional after falcon and flash names

	// Keywords, one per command plus the operand words
	IRONMAN        // increment the current cell
	BATMAN         // decrement the current cell
	SUPERMAN       // move the pointer right
	WONDERWOMAN    // move the pointer left
	FLASH          // named loop over an indented body
	SPIDERMAN      // conditional jump
	THOR           // print the current cell as a character
	THORNUM        // print the current cell as a number
	HULK           // read one byte into the current cell
	DOCTORSTRANGE  // declare a named byte array
	BLACKPANTHER   // fill an array from a literal or stdin
	CAPTAINAMERICA // print an array up to its terminator
	VISION         // the value under the pointer, as an operand
	STARLORD       // print a string literal
	DEADPOOL       // reset the pointer to cell zero
	LOKI           // clear the current cell
	FALCON         // define a label
	HAWKEYE        // jump to a label or loop
	THANOS         // end the program
	ADD            // add a value into a cell
	SUB            // subtract a value from a cell
	INTO           // target marker for blackpanther
	EMPTY          // zero, as a comparison operand
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	EOF:            "EOF",
	IDENTIFIER:     "IDENTIFIER",
	NUMBER:         "NUMBER",
	STRING:         "STRING",
	CELLREF:        "CELLREF",
	OPERATOR:       "OPERATOR",
	COLON:          "COLON",
	IRONMAN:        "IRONMAN",
	BATMAN:         "BATMAN",
	SUPERMAN:       "SUPERMAN",
	WONDERWOMAN:    "WONDERWOMAN",
	FLASH:          "FLASH",
	SPIDERMAN:      "SPIDERMAN",
	THOR:           "THOR",
	THORNUM:        "THORNUM",
	HULK:           "HULK",
	DOCTORSTRANGE:  "DOCTORSTRANGE",
	BLACKPANTHER:   "BLACKPANTHER",
	CAPTAINAMERICA: "CAPTAINAMERICA",
	VISION:         "VISION",
	STARLORD:       "STARLORD",
	DEADPOOL:       "DEADPOOL",
	LOKI:           "LOKI",
	FALCON:         "FALCON",
	HAWKEYE:        "HAWKEYE",
	THANOS:         "THANOS",
	ADD:            "ADD",
	SUB:            "SUB",
	INTO:           "INTO",
	EMPTY:          "EMPTY",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // the matched source text (STRING: the unquoted value)
	Line   int    // 1-based source line
	Indent int    // leading whitespace width of the token's line
	Value  int    // numeric payload for NUMBER and CELLREF tokens
}

func (t Token) String() string {
	return fmt.Sprintf("%-14s %-16q  line %d", t.Type, t.Lexeme, t.Line)
}
