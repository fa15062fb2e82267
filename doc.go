// Package cfront provides a C compiler frontend.
//
// The frontend preprocesses translation units and comes with pluggable
// layers such as:
//
//   - source  – a source map attributing every token to files, macro
//     expansions and includes
//   - lex     – interning and the raw C tokenizer
//   - pp      – directive handling, macro expansion and include management
//   - diag    – diagnostics with expansion traces and suggestions
//   - fixit   – suggestion-based file rewrites and diffs
//
// End-users typically interact with the frontend via the high-level Service
// façade exposed by the root package:
//
//	srv := cfront.New(cfront.WithIncludeDirs("include"))
//	res, _ := srv.Preprocess(ctx, "main.c")
//
// For more details see the individual sub-packages.
package cfront
