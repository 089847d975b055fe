package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// ArrayInfo describes one doctorstrange declaration.
type ArrayInfo struct {
	Name string
	Size int // capacity in bytes, terminator included
	Line int // declaring source line
}

// SymbolTable records every name a program can reference: falcon labels and
// flash loops (collected up front so jumps may reference them before they
// appear) and doctorstrange arrays (recorded in source order, since arrays
// must be declared before use).
//
// Labels and loops share one namespace: both lower to C labels, so a falcon
// and a flash cannot reuse a name. Arrays live in their own namespace.
type SymbolTable struct {
	labels map[string]int // name -> defining line
	loops  map[string]int // name -> defining line
	arrays map[string]ArrayInfo

	// Array declaration order, so generated code is stable run to run.
	arrayOrder []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		labels: make(map[string]int),
		loops:  make(map[string]int),
		arrays: make(map[string]ArrayInfo),
	}
}

// DefineLabel records a falcon definition.
func (s *SymbolTable) DefineLabel(name string, line int) error {
	if prev, ok := s.labels[name]; ok {
		return fmt.Errorf("duplicate label %q (first defined on line %d)", name, prev)
	}
	if prev, ok := s.loops[name]; ok {
		return fmt.Errorf("label %q collides with the loop defined on line %d", name, prev)
	}
	s.labels[name] = line
	return nil
}

// DefineLoop records a flash definition.
func (s *SymbolTable) DefineLoop(name string, line int) error {
	if prev, ok := s.loops[name]; ok {
		return fmt.Errorf("duplicate loop %q (first defined on line %d)", name, prev)
	}
	if prev, ok := s.labels[name]; ok {
		return fmt.Errorf("loop %q collides with the label defined on line %d", name, prev)
	}
	s.loops[name] = line
	return nil
}

// DeclareArray records a doctorstrange declaration.
func (s *SymbolTable) DeclareArray(name string, size, line int) error {
	if prev, ok := s.arrays[name]; ok {
		return fmt.Errorf("duplicate array %q (first declared on line %d)", name, prev.Line)
	}
	s.arrays[name] = ArrayInfo{Name: name, Size: size, Line: line}
	s.arrayOrder = append(s.arrayOrder, name)
	return nil
}

// HasTarget reports whether name is a known jump target (label or loop).
func (s *SymbolTable) HasTarget(name string) bool {
	_, isLabel := s.labels[name]
	_, isLoop := s.loops[name]
	return isLabel || isLoop
}

// IsLoop reports whether name was defined by a flash.
func (s *SymbolTable) IsLoop(name string) bool {
	_, ok := s.loops[name]
	return ok
}

// ArraySize returns the capacity of a declared array.
func (s *SymbolTable) ArraySize(name string) (int, bool) {
	info, ok := s.arrays[name]
	return info.Size, ok
}

// Arrays returns every declared array in declaration order.
func (s *SymbolTable) Arrays() []ArrayInfo {
	out := make([]ArrayInfo, 0, len(s.arrayOrder))
	for _, name := range s.arrayOrder {
		out = append(out, s.arrays[name])
	}
	return out
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	var sb strings.Builder

	section := func(title string, defs map[string]int) {
		if len(defs) == 0 {
			fmt.Fprintf(&sb, "%s: (empty)\n", title)
			return
		}
		fmt.Fprintf(&sb, "%s:\n", title)
		names := make([]string, 0, len(defs))
		for name := range defs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "  %-20s  line %d\n", name, defs[name])
		}
	}

	section("Labels", s.labels)
	section("Loops", s.loops)

	if len(s.arrayOrder) == 0 {
		sb.WriteString("Arrays: (empty)\n")
		return sb.String()
	}
	sb.WriteString("Arrays:\n")
	names := make([]string, 0, len(s.arrays))
	for name := range s.arrays {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		info := s.arrays[name]
		fmt.Fprintf(&sb, "  %-20s  %d bytes, line %d\n", name, info.Size, info.Line)
	}
	return sb.String()
}
