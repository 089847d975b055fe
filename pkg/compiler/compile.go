package compiler

import "fmt"

// Options control the sizes baked into a generated program.
type Options struct {
	TapeSize    int // number of cells on the tape
	InputBuffer int // bytes reserved for line input
	ArraySize   int // doctorstrange capacity when a declaration has no size
}

// DefaultOptions returns the sizes programs get when nothing is configured.
func DefaultOptions() Options {
	return Options{TapeSize: 30000, InputBuffer: 1024, ArraySize: 1024}
}

// withDefaults fills unset fields so a zero Options behaves like the default.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.TapeSize <= 0 {
		o.TapeSize = def.TapeSize
	}
	if o.InputBuffer <= 0 {
		o.InputBuffer = def.InputBuffer
	}
	if o.ArraySize <= 0 {
		o.ArraySize = def.ArraySize
	}
	return o
}

// Result carries every artifact of one compilation, so callers can surface
// the intermediate stages as well as the final C text.
type Result struct {
	Tokens  []Token
	Program []Instruction
	Symbols *SymbolTable
	CSource string
}

// Compile runs the full pipeline over src: tokenize, two-pass parse, C
// generation. The first failing stage aborts the pipeline; its error is
// wrapped with the stage name and carries the typed *LexError or
// *ParseError underneath.
func Compile(src string, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	tokens, err := Tokenize(src)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}

	program, syms, err := NewParser(tokens, src, opts).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	return &Result{
		Tokens:  tokens,
		Program: program,
		Symbols: syms,
		CSource: Generate(program, syms, opts),
	}, nil
}
