// Package compiler implements the SuperHero language front end: a lexer, a
// two-pass parser that resolves forward label references, and a code
// generator that lowers the instruction tree to self-contained C.
//
// The pipeline is
//
//	source text -> Tokenize -> Parse -> Generate -> C source text
//
// Compile runs all three stages and collects every intermediate artifact so
// callers can inspect them.
package compiler
