package lsp

import (
	"github.com/alecthomas/participle/v2"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"ssaopt/internal/errors"
)

// diagnosticsFor converts a parser.ParseString error into the single LSP
// diagnostic it corresponds to. A nil err clears every diagnostic for the
// document.
func diagnosticsFor(err error) []protocol.Diagnostic {
	if err == nil {
		return []protocol.Diagnostic{}
	}

	if pe, ok := err.(participle.Error); ok {
		pos := pe.Position()
		return []protocol.Diagnostic{{
			Range:    lineRange(pos.Line, pos.Column, 1),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("parser"),
			Message:  pe.Message(),
		}}
	}

	if ce, ok := err.(errors.CompilerError); ok {
		severity := protocol.DiagnosticSeverityError
		if errors.IsWarning(ce.Code) {
			severity = protocol.DiagnosticSeverityWarning
		}
		length := ce.Length
		if length <= 0 {
			length = 1
		}
		return []protocol.Diagnostic{{
			Range:    lineRange(ce.Position.Line, ce.Position.Column, length),
			Severity: ptrSeverity(severity),
			Source:   ptrString(ce.Code),
			Message:  ce.Message,
		}}
	}

	return []protocol.Diagnostic{{
		Range:    lineRange(1, 1, 1),
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("ssac"),
		Message:  err.Error(),
	}}
}

func lineRange(line, col, length int) protocol.Range {
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	return protocol.Range{
		Start: protocol.Position{Line: uint32(line - 1), Character: uint32(col - 1)},
		End:   protocol.Position{Line: uint32(line - 1), Character: uint32(col - 1 + length)},
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
