package compiler

import (
	"fmt"
	"strconv"
)

//  Operands

// OperandKind says how a comparison or arithmetic operand reads its value.
type OperandKind int

const (
	OperandNumber OperandKind = iota // a literal value
	OperandVision                    // the cell under the pointer
	OperandCell                      // a fixed tape cell, #N
	OperandEmpty                     // the word "empty", compares as zero
)

// Operand is one side of a spiderman comparison or an add/sub operation.
//
//	spiderman again vision > 0
//	                ^^^^^^   ^
//	                |        Operand{Kind: OperandNumber, Value: 0}
//	                Operand{Kind: OperandVision}
type Operand struct {
	Kind  OperandKind
	Value int // literal value or cell index, depending on Kind
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandVision:
		return "vision"
	case OperandCell:
		return "#" + strconv.Itoa(o.Value)
	case OperandEmpty:
		return "empty"
	default:
		return strconv.Itoa(o.Value)
	}
}

//  Instruction nodes

// Instruction is implemented by every node of the instruction tree.
type Instruction interface {
	instrNode()
	String() string
}

// Increment represents ironman: bump the cell under the pointer.
type Increment struct{}

func (*Increment) instrNode()     {}
func (*Increment) String() string { return "ironman" }

// Decrement represents batman: lower the cell under the pointer.
type Decrement struct{}

func (*Decrement) instrNode()     {}
func (*Decrement) String() string { return "batman" }

// MoveRight represents superman: advance the pointer one cell.
type MoveRight struct{}

func (*MoveRight) instrNode()     {}
func (*MoveRight) String() string { return "superman" }

// MoveLeft represents wonderwoman: retreat the pointer one cell.
type MoveLeft struct{}

func (*MoveLeft) instrNode()     {}
func (*MoveLeft) String() string { return "wonderwoman" }

// Loop represents a flash block: a named body entered by jumping to it.
//
//	flash spin:
//	    ironman
//	    ^^^^^^^  Body
type Loop struct {
	Name string
	Body []Instruction
}

func (*Loop) instrNode() {}
func (l *Loop) String() string {
	return fmt.Sprintf("flash %s (%d instructions)", l.Name, len(l.Body))
}

// If represents spiderman: jump to Target when the comparison holds.
//
//	spiderman spin vision > 0
//	          ^^^^ ^^^^^^ ^ ^
//	          |    |      | Right
//	          |    Left   Op
//	          Target
type If struct {
	Target string
	Op     string
	Left   Operand
	Right  Operand
}

func (*If) instrNode() {}
func (i *If) String() string {
	return fmt.Sprintf("spiderman %s %s %s %s", i.Target, i.Left, i.Op, i.Right)
}

// Print represents thor: write the current cell as a character.
type Print struct{}

func (*Print) instrNode()     {}
func (*Print) String() string { return "thor" }

// PrintNum represents thornum: write the current cell as a decimal number.
type PrintNum struct{}

func (*PrintNum) instrNode()     {}
func (*PrintNum) String() string { return "thornum" }

// Input represents hulk: read one byte into the current cell. A direct
// operand (hulk 65, hulk "A") skips the prompt and stores the value
// immediately; IsChar records which spelling the source used so the
// generated C keeps the same shape.
type Input struct {
	Direct    int
	HasDirect bool
	IsChar    bool
}

func (*Input) instrNode() {}
func (i *Input) String() string {
	if !i.HasDirect {
		return "hulk"
	}
	if i.IsChar {
		return fmt.Sprintf("hulk %q", rune(i.Direct))
	}
	return fmt.Sprintf("hulk %d", i.Direct)
}

// ArrayDecl represents doctorstrange: reserve a named byte array.
//
//	doctorstrange 80 name
//	              ^^ ^^^^  ArrayDecl{Name: "name", Size: 80}
//
// Size is always resolved; a declaration without one gets the configured
// default.
type ArrayDecl struct {
	Name string
	Size int
}

func (*ArrayDecl) instrNode() {}
func (d *ArrayDecl) String() string {
	return fmt.Sprintf("doctorstrange %d %s", d.Size, d.Name)
}

// BufferKind says where array input and output operate.
type BufferKind int

const (
	BufferPointer BufferKind = iota // the tape at the current pointer
	BufferArray                     // a declared doctorstrange array
	BufferTape                      // the tape at a fixed offset
)

// BufferRef names the region an ArrayInput or ArrayOutput touches.
type BufferRef struct {
	Kind  BufferKind
	Name  string // array name, when Kind == BufferArray
	Index int    // tape offset, when Kind == BufferTape
}

func (b BufferRef) String() string {
	switch b.Kind {
	case BufferArray:
		return b.Name
	case BufferTape:
		return strconv.Itoa(b.Index)
	default:
		return "vision"
	}
}

// ArrayInput represents blackpanther: copy a string literal into the target
// buffer, or read a line from stdin when no literal is given.
//
//	blackpanther into name "hello"
//	                  ^^^^ ^^^^^^^
//	                  |    Literal
//	                  Target
type ArrayInput struct {
	Target     BufferRef
	Literal    string
	HasLiteral bool
}

func (*ArrayInput) instrNode() {}
func (a *ArrayInput) String() string {
	if a.HasLiteral {
		return fmt.Sprintf("blackpanther into %s %q", a.Target, a.Literal)
	}
	return fmt.Sprintf("blackpanther into %s", a.Target)
}

// ArrayOutput represents captainamerica: print the target buffer up to its
// zero terminator.
type ArrayOutput struct {
	Target BufferRef
}

func (*ArrayOutput) instrNode() {}
func (a *ArrayOutput) String() string {
	return fmt.Sprintf("captainamerica %s", a.Target)
}

// PrintString represents starlord: write a string literal and a newline.
type PrintString struct {
	Text string
}

func (*PrintString) instrNode() {}
func (p *PrintString) String() string {
	return fmt.Sprintf("starlord %q", p.Text)
}

// ResetPointer represents deadpool: move the pointer back to cell zero.
type ResetPointer struct{}

func (*ResetPointer) instrNode()     {}
func (*ResetPointer) String() string { return "deadpool" }

// ClearCell represents loki: zero the current cell and announce it.
type ClearCell struct{}

func (*ClearCell) instrNode()     {}
func (*ClearCell) String() string { return "loki" }

// Label represents falcon: a named position jumps can land on.
type Label struct {
	Name string
}

func (*Label) instrNode()       {}
func (l *Label) String() string { return "falcon " + l.Name }

// Goto represents hawkeye: an unconditional jump to a label or loop.
type Goto struct {
	Target string
}

func (*Goto) instrNode()       {}
func (g *Goto) String() string { return "hawkeye " + g.Target }

// End represents thanos: announce the snap and stop the program.
type End struct{}

func (*End) instrNode()     {}
func (*End) String() string { return "thanos" }

// Arith represents add or sub. The left operand names the destination cell:
// vision is the cell under the pointer, a number or #N is that fixed cell.
// The right operand is the value applied to it.
//
//	add vision 5
//	    ^^^^^^ ^
//	    Left   Right
type Arith struct {
	Op    TokenType // ADD or SUB
	Left  Operand
	Right Operand
}

func (*Arith) instrNode() {}
func (a *Arith) String() string {
	op := "add"
	if a.Op == SUB {
		op = "sub"
	}
	return fmt.Sprintf("%s %s %s", op, a.Left, a.Right)
}
