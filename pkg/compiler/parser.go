package compiler

import (
	"fmt"
	"strings"
)

// Parser consumes the flat token slice produced by the Lexer and builds the
// instruction tree.
//
// Grammar (statements are line-scoped; flash bodies nest by indentation):
//
//	program    = statement* EOF
//	statement  = ironman | batman | superman | wonderwoman | thor | thornum
//	           | deadpool | loki | thanos
//	           | hulk (NUMBER | STRING)?
//	           | starlord STRING
//	           | falcon IDENTIFIER ":"?
//	           | hawkeye IDENTIFIER
//	           | flash IDENTIFIER ":"? block
//	           | spiderman IDENTIFIER operand OPERATOR operand
//	           | ("add" | "sub") operand operand
//	           | doctorstrange NUMBER? IDENTIFIER
//	           | blackpanther ("into" (IDENTIFIER | NUMBER))? STRING?
//	           | captainamerica IDENTIFIER?
//	block      = statements indented strictly deeper than the flash header
//	operand    = NUMBER | CELLREF | "vision" | "empty"
//
// Parsing runs in two passes. Jumps (spiderman, hawkeye) may name a falcon
// or flash that appears later in the source, so pass 1 walks the tokens once
// collecting every definition into the symbol table, and pass 2 builds the
// tree resolving names against it. Arrays are the exception: a doctorstrange
// declaration takes effect in source order and must precede any use.
type Parser struct {
	tokens      []Token
	pos         int
	syms        *SymbolTable
	opts        Options
	sourceLines []string
}

func NewParser(tokens []Token, rawSource string, opts Options) *Parser {
	return &Parser{
		tokens:      tokens,
		syms:        NewSymbolTable(),
		opts:        opts.withDefaults(),
		sourceLines: strings.Split(rawSource, "\n"),
	}
}

// fmtError wraps an error message with the source line where the token appears.
func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	lineIdx := tok.Line - 1 // Lines are 1-based

	snippet := "<source unavailable>"
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}

	return &ParseError{Line: tok.Line, Msg: msg, Snippet: snippet}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// peekOn returns the current token when it sits on the given source line.
// Once the line is exhausted it returns an EOF token, so statement parsers
// never read past their own line.
func (p *Parser) peekOn(line int) Token {
	tok := p.peek()
	if tok.Type == EOF || tok.Line != line {
		return Token{Type: EOF, Line: line}
	}
	return tok
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// finishLine verifies the statement consumed its whole line.
func (p *Parser) finishLine(line int) error {
	if tok := p.peekOn(line); tok.Type != EOF {
		return p.fmtError(tok, "unexpected %s %q after the statement", tok.Type, tok.Lexeme)
	}
	return nil
}

// Parse runs both passes and returns the instruction tree and the symbol
// table it was resolved against.
func (p *Parser) Parse() ([]Instruction, *SymbolTable, error) {
	if err := p.collectSymbols(); err != nil {
		return nil, nil, err
	}
	program, err := p.run()
	if err != nil {
		return nil, nil, err
	}
	return program, p.syms, nil
}

// cKeywords are reserved words in the generated C. A falcon or flash with
// one of these names would lower to a label C refuses to parse. Nothing else
// needs screening, C labels live in their own namespace.
var cKeywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true,
	"else": true, "enum": true, "extern": true, "float": true, "for": true,
	"goto": true, "if": true, "inline": true, "int": true, "long": true,
	"register": true, "restrict": true, "return": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "struct": true,
	"switch": true, "typedef": true, "union": true, "unsigned": true,
	"void": true, "volatile": true, "while": true,
	"_Alignas": true, "_Alignof": true, "_Atomic": true, "_Bool": true,
	"_Complex": true, "_Generic": true, "_Imaginary": true,
	"_Noreturn": true, "_Static_assert": true, "_Thread_local": true,
}

// collectSymbols is pass 1: record every falcon and flash definition so pass
// 2 can resolve forward jumps. Malformed definitions (a missing name, say)
// are left for pass 2, which reports them with full context.
func (p *Parser) collectSymbols() error {
	for i := 0; i < len(p.tokens); i++ {
		tok := p.tokens[i]
		if tok.Type != FALCON && tok.Type != FLASH {
			continue
		}
		if i > 0 && p.tokens[i-1].Line == tok.Line {
			continue // not at the start of a statement
		}
		if i+1 >= len(p.tokens) {
			continue
		}
		name := p.tokens[i+1]
		if name.Type != IDENTIFIER || name.Line != tok.Line {
			continue
		}
		if cKeywords[name.Lexeme] {
			kind := "label"
			if tok.Type == FLASH {
				kind = "loop"
			}
			return p.fmtError(name, "%s name %q is a C keyword", kind, name.Lexeme)
		}
		var err error
		if tok.Type == FALCON {
			err = p.syms.DefineLabel(name.Lexeme, tok.Line)
		} else {
			err = p.syms.DefineLoop(name.Lexeme, tok.Line)
		}
		if err != nil {
			return p.fmtError(tok, "%v", err)
		}
		i++
	}
	return nil
}

// openLoop is a flash whose body is still being collected. bodyIndent stays
// -1 until the first body statement fixes the block's width.
type openLoop struct {
	name         string
	line         int
	headerIndent int
	bodyIndent   int
	body         []Instruction
}

// run is pass 2: walk the statements, nesting flash bodies by indentation.
func (p *Parser) run() ([]Instruction, error) {
	var program []Instruction
	var stack []*openLoop

	appendInstr := func(in Instruction) {
		if n := len(stack); n > 0 {
			stack[n-1].body = append(stack[n-1].body, in)
		} else {
			program = append(program, in)
		}
	}
	closeTop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		loop := &Loop{Name: top.name, Body: top.body}
		if n := len(stack); n > 0 {
			stack[n-1].body = append(stack[n-1].body, loop)
		} else {
			program = append(program, loop)
		}
	}

	for {
		tok := p.peek()
		if tok.Type == EOF {
			break
		}
		w := tok.Indent

		// Settle indentation before reading the statement itself.
		if n := len(stack); n > 0 && stack[n-1].bodyIndent < 0 {
			top := stack[n-1]
			if w <= top.headerIndent {
				return nil, p.fmtError(tok, "flash %q has no indented body", top.name)
			}
			top.bodyIndent = w
		} else {
			for len(stack) > 0 && w <= stack[len(stack)-1].headerIndent {
				closeTop()
			}
			if n := len(stack); n > 0 {
				top := stack[n-1]
				if w < top.bodyIndent {
					return nil, p.fmtError(tok, "unindent matches no open flash block")
				}
				if w > top.bodyIndent {
					return nil, p.fmtError(tok, "unexpected indent")
				}
			} else if w > 0 {
				return nil, p.fmtError(tok, "unexpected indent")
			}
		}

		if tok.Type == FLASH {
			open, err := p.parseFlashHeader()
			if err != nil {
				return nil, err
			}
			stack = append(stack, open)
			continue
		}

		in, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		appendInstr(in)
	}

	if n := len(stack); n > 0 && stack[n-1].bodyIndent < 0 {
		top := stack[n-1]
		return nil, p.fmtError(Token{Line: top.line}, "flash %q has no indented body", top.name)
	}
	for len(stack) > 0 {
		closeTop()
	}
	return program, nil
}

// parseFlashHeader consumes "flash name:" and opens a block for its body.
func (p *Parser) parseFlashHeader() (*openLoop, error) {
	kw := p.advance() // flash
	name := p.peekOn(kw.Line)
	if name.Type != IDENTIFIER {
		return nil, p.fmtError(kw, "expected loop name after flash")
	}
	p.advance()
	if p.peekOn(kw.Line).Type == COLON {
		p.advance()
	}
	if err := p.finishLine(kw.Line); err != nil {
		return nil, err
	}
	return &openLoop{name: name.Lexeme, line: kw.Line, headerIndent: kw.Indent, bodyIndent: -1}, nil
}

// parseStatement builds one instruction from the tokens of a single line.
func (p *Parser) parseStatement() (Instruction, error) {
	tok := p.advance()
	line := tok.Line

	var in Instruction
	switch tok.Type {
	case IRONMAN:
		in = &Increment{}
	case BATMAN:
		in = &Decrement{}
	case SUPERMAN:
		in = &MoveRight{}
	case WONDERWOMAN:
		in = &MoveLeft{}
	case THOR:
		in = &Print{}
	case THORNUM:
		in = &PrintNum{}
	case DEADPOOL:
		in = &ResetPointer{}
	case LOKI:
		in = &ClearCell{}
	case THANOS:
		in = &End{}

	case HULK:
		node := &Input{}
		switch next := p.peekOn(line); next.Type {
		case NUMBER:
			p.advance()
			node.Direct = next.Value
			node.HasDirect = true
		case STRING:
			p.advance()
			runes := []rune(next.Lexeme)
			if len(runes) != 1 {
				return nil, p.fmtError(next, "hulk takes a single character, got %q", next.Lexeme)
			}
			node.Direct = int(runes[0])
			node.HasDirect = true
			node.IsChar = true
		}
		in = node

	case STARLORD:
		str := p.peekOn(line)
		if str.Type != STRING {
			return nil, p.fmtError(tok, "expected a string after starlord")
		}
		p.advance()
		in = &PrintString{Text: str.Lexeme}

	case FALCON:
		name := p.peekOn(line)
		if name.Type != IDENTIFIER {
			return nil, p.fmtError(tok, "expected label name after falcon")
		}
		p.advance()
		if p.peekOn(line).Type == COLON {
			p.advance()
		}
		in = &Label{Name: name.Lexeme}

	case HAWKEYE:
		name := p.peekOn(line)
		if name.Type != IDENTIFIER {
			return nil, p.fmtError(tok, "expected jump target after hawkeye")
		}
		p.advance()
		if !p.syms.HasTarget(name.Lexeme) {
			return nil, p.fmtError(name, "undefined label or loop %q", name.Lexeme)
		}
		in = &Goto{Target: name.Lexeme}

	case SPIDERMAN:
		node, err := p.parseSpiderman(tok)
		if err != nil {
			return nil, err
		}
		in = node

	case ADD, SUB:
		left, err := p.parseArithOperand(line, true)
		if err != nil {
			return nil, err
		}
		right, err := p.parseArithOperand(line, false)
		if err != nil {
			return nil, err
		}
		in = &Arith{Op: tok.Type, Left: left, Right: right}

	case DOCTORSTRANGE:
		node, err := p.parseArrayDecl(tok)
		if err != nil {
			return nil, err
		}
		in = node

	case BLACKPANTHER:
		node, err := p.parseArrayInput(tok)
		if err != nil {
			return nil, err
		}
		in = node

	case CAPTAINAMERICA:
		target := BufferRef{Kind: BufferPointer}
		if name := p.peekOn(line); name.Type == IDENTIFIER {
			p.advance()
			if _, ok := p.syms.ArraySize(name.Lexeme); !ok {
				return nil, p.fmtError(name, "undeclared array %q", name.Lexeme)
			}
			target = BufferRef{Kind: BufferArray, Name: name.Lexeme}
		}
		in = &ArrayOutput{Target: target}

	case IDENTIFIER:
		if p.syms.IsLoop(tok.Lexeme) {
			return nil, p.fmtError(tok, "loop %q is entered with hawkeye or spiderman, not by name", tok.Lexeme)
		}
		return nil, p.fmtError(tok, "unexpected IDENTIFIER %q", tok.Lexeme)

	default:
		return nil, p.fmtError(tok, "unexpected %s %q", tok.Type, tok.Lexeme)
	}

	if err := p.finishLine(line); err != nil {
		return nil, err
	}
	return in, nil
}

// parseSpiderman handles: spiderman target left OPERATOR right.
func (p *Parser) parseSpiderman(kw Token) (Instruction, error) {
	target := p.peekOn(kw.Line)
	if target.Type != IDENTIFIER {
		return nil, p.fmtError(kw, "expected jump target after spiderman")
	}
	p.advance()
	if !p.syms.HasTarget(target.Lexeme) {
		return nil, p.fmtError(target, "undefined label or loop %q", target.Lexeme)
	}

	var left Operand
	switch next := p.peekOn(kw.Line); next.Type {
	case VISION:
		p.advance()
		left = Operand{Kind: OperandVision}
	case NUMBER:
		p.advance()
		left = Operand{Kind: OperandNumber, Value: next.Value}
	default:
		return nil, p.fmtError(next, "expected vision or a number, got %s %q", next.Type, next.Lexeme)
	}

	op := p.peekOn(kw.Line)
	if op.Type != OPERATOR {
		return nil, p.fmtError(op, "expected comparison operator, got %s %q", op.Type, op.Lexeme)
	}
	p.advance()

	var right Operand
	switch next := p.peekOn(kw.Line); next.Type {
	case NUMBER:
		p.advance()
		right = Operand{Kind: OperandNumber, Value: next.Value}
	case VISION:
		p.advance()
		right = Operand{Kind: OperandVision}
	case EMPTY:
		p.advance()
		right = Operand{Kind: OperandEmpty}
	default:
		return nil, p.fmtError(next, "expected a number, vision or empty, got %s %q", next.Type, next.Lexeme)
	}

	return &If{Target: target.Lexeme, Op: op.Lexeme, Left: left, Right: right}, nil
}

// parseArithOperand reads one side of an add/sub. The left side names the
// destination cell, so a bare number means that tape cell rather than a
// literal value.
func (p *Parser) parseArithOperand(line int, isLeft bool) (Operand, error) {
	switch next := p.peekOn(line); next.Type {
	case VISION:
		p.advance()
		return Operand{Kind: OperandVision}, nil
	case NUMBER:
		p.advance()
		if isLeft {
			return p.cellOperand(next)
		}
		return Operand{Kind: OperandNumber, Value: next.Value}, nil
	case CELLREF:
		p.advance()
		return p.cellOperand(next)
	default:
		if isLeft {
			return Operand{}, p.fmtError(next, "expected vision, a cell or a number, got %s %q", next.Type, next.Lexeme)
		}
		return Operand{}, p.fmtError(next, "expected a value, vision or a cell, got %s %q", next.Type, next.Lexeme)
	}
}

// cellOperand turns a NUMBER or CELLREF token into a fixed-cell operand,
// checking it stays on the tape.
func (p *Parser) cellOperand(tok Token) (Operand, error) {
	if tok.Value >= p.opts.TapeSize {
		return Operand{}, p.fmtError(tok, "cell #%d is outside the tape (size %d)", tok.Value, p.opts.TapeSize)
	}
	return Operand{Kind: OperandCell, Value: tok.Value}, nil
}

// parseArrayDecl handles: doctorstrange [size] name.
func (p *Parser) parseArrayDecl(kw Token) (Instruction, error) {
	size := p.opts.ArraySize
	if next := p.peekOn(kw.Line); next.Type == NUMBER {
		p.advance()
		if next.Value < 1 {
			return nil, p.fmtError(next, "array size must be at least 1")
		}
		size = next.Value
	}
	name := p.peekOn(kw.Line)
	if name.Type != IDENTIFIER {
		return nil, p.fmtError(kw, "expected array name after doctorstrange")
	}
	p.advance()
	if err := p.syms.DeclareArray(name.Lexeme, size, kw.Line); err != nil {
		return nil, p.fmtError(name, "%v", err)
	}
	return &ArrayDecl{Name: name.Lexeme, Size: size}, nil
}

// parseArrayInput handles: blackpanther [into target] [string].
func (p *Parser) parseArrayInput(kw Token) (Instruction, error) {
	node := &ArrayInput{Target: BufferRef{Kind: BufferPointer}}

	if p.peekOn(kw.Line).Type == INTO {
		p.advance()
		switch next := p.peekOn(kw.Line); next.Type {
		case IDENTIFIER:
			p.advance()
			if _, ok := p.syms.ArraySize(next.Lexeme); !ok {
				return nil, p.fmtError(next, "undeclared array %q", next.Lexeme)
			}
			node.Target = BufferRef{Kind: BufferArray, Name: next.Lexeme}
		case NUMBER:
			p.advance()
			if next.Value >= p.opts.TapeSize {
				return nil, p.fmtError(next, "tape offset %d is outside the tape (size %d)", next.Value, p.opts.TapeSize)
			}
			node.Target = BufferRef{Kind: BufferTape, Index: next.Value}
		default:
			return nil, p.fmtError(next, "expected an array name or tape offset after into")
		}
	}

	if str := p.peekOn(kw.Line); str.Type == STRING {
		p.advance()
		node.Literal = str.Lexeme
		node.HasLiteral = true
		if err := p.checkLiteralFits(str, node); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// checkLiteralFits rejects a literal that cannot fit, terminator included,
// in the blackpanther target.
func (p *Parser) checkLiteralFits(str Token, node *ArrayInput) error {
	need := len(node.Literal) + 1
	switch node.Target.Kind {
	case BufferArray:
		size, _ := p.syms.ArraySize(node.Target.Name)
		if need > size {
			return p.fmtError(str, "string (%d bytes) does not fit in array %q (%d bytes)", len(node.Literal), node.Target.Name, size)
		}
	case BufferTape:
		if node.Target.Index+need > p.opts.TapeSize {
			return p.fmtError(str, "string (%d bytes) does not fit at tape offset %d (tape size %d)", len(node.Literal), node.Target.Index, p.opts.TapeSize)
		}
	default:
		if need > p.opts.TapeSize {
			return p.fmtError(str, "string (%d bytes) does not fit on the tape (size %d)", len(node.Literal), p.opts.TapeSize)
		}
	}
	return nil
}
