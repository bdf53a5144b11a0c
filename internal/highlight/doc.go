// Package highlight provides support to highlight source code blocks.
// It uses the Chroma library to do this work.
//
// Source code blocks are represented as [Code] values,
// which are comprised of multiple [Span]s.
// Spans are either plain text,
// or tokens produced by a Chroma lexer for the block's language.
package highlight
