package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ToyLexer tokenizes the toy imperative source language. Keywords are not a
// separate token kind: they ride on Ident and are matched literally by value
// in the grammar tags below, the same way KansoLexer lets "module"/"struct"
// match against a bare Ident token.
var ToyLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// rem runs to end of line and is captured whole, ahead of Ident so
		// that "rem" itself never falls through to the generic identifier rule.
		{"Rem", `rem[^\n]*`, nil},

		{"String", `"(\\.|[^"\\])*"`, nil},

		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		{"Integer", `[0-9]+`, nil},

		// Longest-match-first: ":=" before "=", "<=">=" "!=" before their
		// single-character prefixes.
		{"Operator", `(:=|<=|>=|!=|[-+*/%=<>])`, nil},

		{"Punctuation", `[()\[\],]`, nil},

		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
