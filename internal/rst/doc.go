// Package rst recovers code block information from reStructuredText sources.
//
// RST compilers render code blocks to HTML without recording
// which directive produced them or what language they were written in.
// This package re-scans the original source to get that back.
//
// [Extract] lists every code-carrying directive in a document
// in the order it appears.
// [Resolver] and [ResolveLanguage] take the text of a compiled code block
// and find the directive it came from by comparing contents.
// [Preprocess] rewrites constructs that compilers
// handle poorly in a single-document context,
// and [Canonicalize] rewrites code blocks for compilers
// with a limited grammar.
//
// Matching is done with a fixed table of regular expressions,
// one per directive form, not with a full RST grammar.
// Forms that are not in the table are ignored.
package rst
