package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// CodeGen walks the instruction tree and emits one self-contained C source
// text implementing it.
type CodeGen struct {
	syms   *SymbolTable
	opts   Options
	out    strings.Builder
	indent int
}

func newCodeGen(syms *SymbolTable, opts Options) *CodeGen {
	return &CodeGen{syms: syms, opts: opts}
}

// line writes one indented line, formatting only when args are given.
func (cg *CodeGen) line(format string, args ...any) {
	if len(args) == 0 {
		cg.raw(format)
		return
	}
	for i := 0; i < cg.indent; i++ {
		cg.out.WriteString("    ")
	}
	fmt.Fprintf(&cg.out, format, args...)
	cg.out.WriteByte('\n')
}

// raw writes one indented line with no format expansion. Emitted C that
// itself contains a % verb must come through here, never through line.
func (cg *CodeGen) raw(text string) {
	for i := 0; i < cg.indent; i++ {
		cg.out.WriteString("    ")
	}
	cg.out.WriteString(text)
	cg.out.WriteByte('\n')
}

func (cg *CodeGen) blank() {
	cg.out.WriteByte('\n')
}

func (cg *CodeGen) comment(format string, args ...any) {
	cg.line("// "+format, args...)
}

// label emits a C label one level out from the surrounding statements, the
// way a human would indent it.
func (cg *CodeGen) label(name string) {
	save := cg.indent
	if cg.indent > 0 {
		cg.indent--
	}
	cg.line("%s:", name)
	cg.indent = save
}

// cEscape makes s safe inside a double-quoted C string literal.
func cEscape(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if c < 32 || c == 127 {
				fmt.Fprintf(&b, `\%03o`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}

// charLit renders v as a C character literal when it is printable ASCII,
// else as a plain number.
func charLit(v int) string {
	switch v {
	case '\'':
		return `'\''`
	case '\\':
		return `'\\'`
	}
	if v >= 32 && v <= 126 {
		return fmt.Sprintf("'%c'", v)
	}
	return strconv.Itoa(v)
}

// value renders an operand read for its value.
func (cg *CodeGen) value(o Operand) string {
	switch o.Kind {
	case OperandVision:
		return "tape[ptr]"
	case OperandCell:
		return fmt.Sprintf("tape[%d]", o.Value)
	case OperandEmpty:
		return "0"
	default:
		return strconv.Itoa(o.Value)
	}
}

// cell renders an operand used as a destination cell. The parser only
// produces vision or fixed-cell operands on that side.
func (cg *CodeGen) cell(o Operand) string {
	if o.Kind == OperandVision {
		return "tape[ptr]"
	}
	return fmt.Sprintf("tape[%d]", o.Value)
}

// buffer renders the region an array operation touches.
func (cg *CodeGen) buffer(b BufferRef) string {
	switch b.Kind {
	case BufferArray:
		return "doctorstrange_" + b.Name
	case BufferTape:
		return fmt.Sprintf("tape + %d", b.Index)
	default:
		return "tape + ptr"
	}
}

// helpers is the fixed runtime emitted into every program.
const helpers = `// Helper functions
void thor() {
    printf("%c\n", tape[ptr]);
}

void thornum() {
    printf("%d\n", tape[ptr]);
}

void hulk(int direct_val, char direct_char) {
    if (direct_val != -1) {
        tape[ptr] = direct_val;
        return;
    }

    if (direct_char != 0) {
        tape[ptr] = direct_char;
        return;
    }

    printf("Hulk smash input: ");
    fflush(stdout);

    int ch = getchar();
    if (ch == EOF || ch == '\n') {
        tape[ptr] = 0;  // Set to empty on EOF or newline
    } else {
        tape[ptr] = ch;
        // Eat up rest of the line
        while ((ch = getchar()) != '\n' && ch != EOF);
    }
}

void blackpanther(uint8_t *target, const char *content) {
    if (content != NULL) {
        // Direct content provided
        int i = 0;
        while (content[i] != '\0') {
            target[i] = content[i];
            i++;
        }
        target[i] = 0;  // Null-terminate
    } else {
        // User input
        printf("Wakanda forever: ");
        fflush(stdout);

        fgets(input_buffer, MAX_INPUT, stdin);
        size_t len = strlen(input_buffer);

        // Remove trailing newline if present
        if (len > 0 && input_buffer[len-1] == '\n') {
            input_buffer[len-1] = '\0';
            len--;
        }

        // Copy to target
        for (size_t i = 0; i < len; i++) {
            target[i] = input_buffer[i];
        }
        target[len] = 0;  // Null-terminate
    }
}

void captainamerica(uint8_t *source) {
    int i = 0;
    while (source[i] != 0) {
        putchar(source[i]);
        i++;
    }
    printf("\n");
}
`

// prologue emits everything before main: headers, globals, array storage
// and the helper runtime.
func (cg *CodeGen) prologue() {
	cg.line("#include <stdio.h>")
	cg.line("#include <stdlib.h>")
	cg.line("#include <string.h>")
	cg.line("#include <stdint.h>")
	cg.blank()
	cg.line("#define TAPE_SIZE %d", cg.opts.TapeSize)
	cg.line("#define MAX_INPUT %d", cg.opts.InputBuffer)
	cg.blank()
	cg.comment("Globals")
	cg.line("uint8_t tape[TAPE_SIZE] = {0};")
	cg.line("int ptr = 0;")
	cg.line("char input_buffer[MAX_INPUT];")
	cg.blank()
	cg.comment("Forward declarations")
	cg.line("void thor();")
	cg.line("void hulk(int direct_val, char direct_char);")
	cg.blank()

	if arrays := cg.syms.Arrays(); len(arrays) > 0 {
		cg.comment("doctorstrange arrays")
		for _, a := range arrays {
			cg.line("uint8_t doctorstrange_%s[%d] = {0};", a.Name, a.Size)
		}
		cg.blank()
	}

	cg.out.WriteString(helpers)
	cg.blank()
	cg.line("int main() {")
}

// instruction lowers a single node, recursing into flash bodies.
func (cg *CodeGen) instruction(in Instruction) {
	switch n := in.(type) {
	case *Increment:
		cg.line("tape[ptr]++;")

	case *Decrement:
		cg.line("tape[ptr]--;")

	case *MoveRight:
		cg.line("if (ptr < TAPE_SIZE - 1) ptr++;")

	case *MoveLeft:
		cg.line("if (ptr > 0) ptr--;")

	case *Print:
		cg.line("thor();")

	case *PrintNum:
		cg.line("thornum();")

	case *Input:
		switch {
		case n.HasDirect && n.IsChar:
			cg.line("hulk(-1, %s);", charLit(n.Direct))
		case n.HasDirect:
			cg.line("hulk(%d, 0);", n.Direct)
		default:
			cg.line("hulk(-1, 0);")
		}

	case *PrintString:
		cg.line(`printf("%%s\n", "%s");`, cEscape(n.Text))

	case *ResetPointer:
		cg.line("ptr = 0;")

	case *ClearCell:
		cg.line("tape[ptr] = 0;")
		cg.raw(`printf("Loki cleared cell %d\n", ptr);`)

	case *Label:
		cg.label(n.Name)

	case *Goto:
		cg.line("goto %s;", n.Target)

	case *If:
		cg.line("if (%s %s %s) {", cg.value(n.Left), n.Op, cg.value(n.Right))
		cg.line("    goto %s;", n.Target)
		cg.line("}")

	case *Loop:
		cg.label(n.Name)
		cg.line("{ // flash %s", n.Name)
		cg.indent++
		for _, body := range n.Body {
			cg.instruction(body)
		}
		// C forbids a label directly before a closing brace, so a trailing
		// falcon gets a null statement to land on.
		if k := len(n.Body); k > 0 {
			if _, ok := n.Body[k-1].(*Label); ok {
				cg.line(";")
			}
		}
		cg.indent--
		cg.line("}")

	case *Arith:
		op := "+="
		if n.Op == SUB {
			op = "-="
		}
		cg.line("%s %s %s;", cg.cell(n.Left), op, cg.value(n.Right))

	case *ArrayDecl:
		// Storage already emitted in the globals section.

	case *ArrayInput:
		content := "NULL"
		if n.HasLiteral {
			content = `"` + cEscape(n.Literal) + `"`
		}
		cg.line("blackpanther(%s, %s);", cg.buffer(n.Target), content)

	case *ArrayOutput:
		cg.line("captainamerica(%s);", cg.buffer(n.Target))

	case *End:
		cg.line(`printf("Thanos snapped his fingers...\n");`)
		cg.line("return 0;")

	default:
		panic(fmt.Sprintf("codegen: unknown instruction %T", in))
	}
}

// Generate lowers a parsed program to a single self-contained C source text.
// The same program and options always produce identical output. Generate
// never fails on a tree built by Parse; an unknown node is a programming
// error and panics.
func Generate(program []Instruction, syms *SymbolTable, opts Options) string {
	cg := newCodeGen(syms, opts.withDefaults())
	cg.prologue()
	cg.indent = 1
	for _, in := range program {
		cg.instruction(in)
	}
	cg.line("return 0;")
	cg.indent = 0
	cg.line("}")
	return cg.out.String()
}
