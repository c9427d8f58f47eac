// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"

	"ssaopt/internal/parser"
)

const PROMPT = ">> "

// Start reads whole programs from in, one "begin ... end" block at a time,
// and prints the parsed AST after each one. A line is buffered until it
// trims down to exactly "end", at which point the accumulated text is
// parsed as a single program.
func Start(in io.Reader) {
	scanner := bufio.NewScanner(in)
	var buf strings.Builder

	fmt.Print(PROMPT)
	for scanner.Scan() {
		line := scanner.Text()
		buf.WriteString(line)
		buf.WriteString("\n")

		if strings.TrimSpace(line) != "end" {
			continue
		}

		program, err := parser.ParseString("<repl>", buf.String())
		switch {
		case err == nil:
			fmt.Printf("AST:\n%s\n", program.String())
		default:
			// grammar.ParseString already printed a caret-style diagnostic
			// for a syntax error; only a semantic error still needs showing.
			if _, isSyntaxErr := err.(participle.Error); !isSyntaxErr {
				fmt.Printf("error: %s\n", err)
			}
		}

		buf.Reset()
		fmt.Print(PROMPT)
	}
}
