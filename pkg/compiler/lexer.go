package compiler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// keywords maps lower-cased source text to its keyword TokenType. Keyword
// matching is case-insensitive, so IRONMAN and IronMan lex the same.
var keywords = map[string]TokenType{
	"ironman":        IRONMAN,
	"batman":         BATMAN,
	"superman":       SUPERMAN,
	"wonderwoman":    WONDERWOMAN,
	"flash":          FLASH,
	"spiderman":      SPIDERMAN,
	"thor":           THOR,
	"thornum":        THORNUM,
	"hulk":           HULK,
	"doctorstrange":  DOCTORSTRANGE,
	"blackpanther":   BLACKPANTHER,
	"captainamerica": CAPTAINAMERICA,
	"vision":         VISION,
	"starlord":       STARLORD,
	"deadpool":       DEADPOOL,
	"loki":           LOKI,
	"falcon":         FALCON,
	"hawkeye":        HAWKEYE,
	"thanos":         THANOS,
	"add":            ADD,
	"sub":            SUB,
	"into":           INTO,
	"empty":          EMPTY,
}

// Comment markers. hero> discards the rest of the line; heroes* opens a block
// that runs to the matching *heroes, possibly lines later.
const (
	lineComment = "hero>"
	blockOpen   = "heroes*"
	blockClose  = "*heroes"
)

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src    []rune
	pos    int // index of the next rune to consume
	line   int // current 1-based source line
	indent int // leading whitespace width of the current line
}

func newLexer(src string) *Lexer {
	l := &Lexer{src: []rune(src), pos: 0, line: 1}
	l.measureIndent()
	return l
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.measureIndent()
	}
	return r
}

// measureIndent records the leading whitespace width of the line starting at
// the current position. Tabs and spaces both count one column.
func (l *Lexer) measureIndent() {
	w := 0
	for i := l.pos; i < len(l.src); i++ {
		if l.src[i] != ' ' && l.src[i] != '\t' {
			break
		}
		w++
	}
	l.indent = w
}

// marker reports whether the literal marker text starts at the current
// position. Markers are ASCII, so a per-byte compare is enough.
func (l *Lexer) marker(m string) bool {
	if l.pos+len(m) > len(l.src) {
		return false
	}
	for i := 0; i < len(m); i++ {
		if l.src[l.pos+i] != rune(m[i]) {
			return false
		}
	}
	return true
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards the rest of the line, the hero> marker included,
// up to but not including the newline.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing
// *heroes. The opening heroes* must already have been consumed.
func (l *Lexer) skipBlockComment() error {
	startLine := l.line
	for l.pos < len(l.src) {
		if l.marker(blockClose) {
			for i := 0; i < len(blockClose); i++ {
				l.advance()
			}
			return nil
		}
		l.advance()
	}
	return &LexError{Line: startLine, Msg: "unterminated block comment"}
}

// scanWord collects a full keyword or identifier token. The first character
// (letter or '_') must still be at l.peek().
func (l *Lexer) scanWord() Token {
	line, indent := l.line, l.indent
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[strings.ToLower(lexeme)]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line, Indent: indent}
}

// scanNumber collects a decimal integer literal. The first digit must still
// be at l.peek().
func (l *Lexer) scanNumber() (Token, error) {
	line, indent := l.line, l.indent
	start := l.pos
	for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	n, err := strconv.Atoi(lexeme)
	if err != nil {
		return Token{}, &LexError{Line: line, Msg: fmt.Sprintf("integer literal %s out of range", lexeme)}
	}
	return Token{Type: NUMBER, Lexeme: lexeme, Line: line, Indent: indent, Value: n}, nil
}

// scanCellRef collects a #N cell reference. The '#' must still be at l.peek().
func (l *Lexer) scanCellRef() (Token, error) {
	line, indent := l.line, l.indent
	start := l.pos
	l.advance() // consume '#'
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	n, err := strconv.Atoi(lexeme[1:])
	if err != nil || n < 0 {
		return Token{}, &LexError{Line: line, Msg: fmt.Sprintf("invalid cell reference %q", lexeme)}
	}
	return Token{Type: CELLREF, Lexeme: lexeme, Line: line, Indent: indent, Value: n}, nil
}

// scanString collects a string literal "...". Strings cannot span lines.
func (l *Lexer) scanString() (Token, error) {
	line, indent := l.line, l.indent
	l.advance() // consume opening "
	var val []rune

	for l.pos < len(l.src) {
		r := l.peek()
		if r == '"' {
			break
		}
		if r == '\n' {
			return Token{}, &LexError{Line: line, Msg: "unterminated string literal"}
		}
		if r == '\\' {
			l.advance() // consume backslash
			next := l.peek()
			switch next {
			case 'n':
				val = append(val, '\n')
			case 't':
				val = append(val, '\t')
			case '"':
				val = append(val, '"')
			case '\\':
				val = append(val, '\\')
			default:
				return Token{}, &LexError{Line: l.line, Msg: fmt.Sprintf("unknown escape sequence \\%c", next)}
			}
			l.advance()
			continue
		}
		val = append(val, r)
		l.advance()
	}

	if l.pos >= len(l.src) {
		return Token{}, &LexError{Line: line, Msg: "unterminated string literal"}
	}
	l.advance() // consume closing "

	return Token{Type: STRING, Lexeme: string(val), Line: line, Indent: indent}, nil
}

// nextToken skips whitespace and comments and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Line: l.line}, nil
		}
		if l.marker(blockOpen) {
			for i := 0; i < len(blockOpen); i++ {
				l.advance()
			}
			if err := l.skipBlockComment(); err != nil {
				return Token{}, err
			}
			continue
		}
		if l.marker(lineComment) {
			l.skipLineComment()
			continue
		}
		break
	}

	ch := l.peek()
	line, indent := l.line, l.indent

	if unicode.IsLetter(ch) || ch == '_' {
		return l.scanWord(), nil
	}
	if unicode.IsDigit(ch) {
		return l.scanNumber()
	}
	if ch == '#' {
		return l.scanCellRef()
	}
	if ch == '"' {
		return l.scanString()
	}

	l.advance() // consume the character before the switch
	switch ch {
	case ':':
		return Token{Type: COLON, Lexeme: ":", Line: line, Indent: indent}, nil
	case '<':
		if l.peek() == '=' {
			l.advance()
			return Token{Type: OPERATOR, Lexeme: "<=", Line: line, Indent: indent}, nil
		}
		return Token{Type: OPERATOR, Lexeme: "<", Line: line, Indent: indent}, nil
	case '>':
		if l.peek() == '=' {
			l.advance()
			return Token{Type: OPERATOR, Lexeme: ">=", Line: line, Indent: indent}, nil
		}
		return Token{Type: OPERATOR, Lexeme: ">", Line: line, Indent: indent}, nil
	case '=':
		if l.peek() == '=' { // = and == both compare
			l.advance()
		}
		return Token{Type: OPERATOR, Lexeme: "==", Line: line, Indent: indent}, nil
	case '!':
		if l.peek() == '=' {
			l.advance()
			return Token{Type: OPERATOR, Lexeme: "!=", Line: line, Indent: indent}, nil
		}
		return Token{}, &LexError{Line: line, Msg: `invalid operator "!"`}
	default:
		return Token{}, &LexError{Line: line, Msg: fmt.Sprintf("unexpected character %q", ch)}
	}
}

// Tokenize scans src and returns every token including the final EOF token.
// It fails on the first illegal character, bad escape, unterminated string
// or unterminated block comment.
func Tokenize(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
