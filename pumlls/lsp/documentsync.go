package lsp

// This file contains handlers for the methods described under
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#textDocument_synchronization.

import (
	"fmt"
	"maps"
	"slices"
	"unicode/utf16"

	"github.com/marcuscaisey/puml/puml/analysis"
	"github.com/marcuscaisey/puml/pumlls/jsonrpc"
	"github.com/marcuscaisey/puml/pumlls/lsp/protocol"
)

type document struct {
	URI        string
	LanguageID string
	Version    int
	Text       string
}

// document returns the document with the given URI, or an error if it doesn't exist.
func (h *Handler) document(uri string) (*document, error) {
	doc, ok := h.docs[uri]
	if !ok {
		return nil, jsonrpc.NewError(jsonrpc.InvalidParams, "Document not found", map[string]any{"uri": uri})
	}
	return doc, nil
}

var errTextDocumentRequired = jsonrpc.NewInvalidParamsError("textDocument is required")

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#textDocument_didOpen
func (h *Handler) textDocumentDidOpen(params *protocol.DidOpenTextDocumentParams) error {
	if params.TextDocument == nil {
		return errTextDocumentRequired
	}
	doc := &document{
		URI:        params.TextDocument.Uri,
		LanguageID: params.TextDocument.LanguageId,
		Version:    params.TextDocument.Version,
		Text:       params.TextDocument.Text,
	}
	h.docs[doc.URI] = doc
	if err := h.validate(doc); err != nil {
		return fmt.Errorf("textDocument/didOpen: %s", err)
	}
	return nil
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#textDocument_didChange
func (h *Handler) textDocumentDidChange(params *protocol.DidChangeTextDocumentParams) error {
	if params.TextDocument == nil {
		return errTextDocumentRequired
	}
	doc, err := h.document(params.TextDocument.Uri)
	if err != nil {
		return err
	}
	text := doc.Text
	for _, change := range params.ContentChanges {
		switch change := change.Value.(type) {
		case *protocol.IncrementalTextDocumentContentChangeEvent:
			text, err = applyIncrementalTextChange(text, change)
			if err != nil {
				return fmt.Errorf("textDocument/didChange: %s", err)
			}
		case *protocol.FullTextDocumentContentChangeEvent:
			text = change.Text
		}
	}
	doc.Text = text
	doc.Version = params.TextDocument.Version
	if err := h.validate(doc); err != nil {
		return fmt.Errorf("textDocument/didChange: %s", err)
	}
	return nil
}

// applyIncrementalTextChange returns text with the range of change replaced by its text.
func applyIncrementalTextChange(text string, change *protocol.IncrementalTextDocumentContentChangeEvent) (string, error) {
	if change.Range == nil || change.Range.Start == nil || change.Range.End == nil {
		return "", fmt.Errorf("applying incremental text change: range must have a start and end")
	}
	starts := lineStarts(text)
	low, err := byteOffset(text, starts, change.Range.Start)
	if err != nil {
		return "", fmt.Errorf("applying incremental text change: range start: %s", err)
	}
	high, err := byteOffset(text, starts, change.Range.End)
	if err != nil {
		return "", fmt.Errorf("applying incremental text change: range end: %s", err)
	}
	if low > high {
		return "", fmt.Errorf("applying incremental text change: range start %d:%d is after range end %d:%d",
			change.Range.Start.Line, change.Range.Start.Character, change.Range.End.Line, change.Range.End.Character)
	}
	return text[:low] + change.Text + text[high:], nil
}

// lineStarts returns the byte offset of the start of each line of text. \r\n, \r, and \n all end a line.
func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		case '\n':
			starts = append(starts, i+1)
		}
	}
	return starts
}

// byteOffset returns the byte offset in text of a position whose character is counted in UTF-16 code units. The
// character can be at most the length of the line, not including its line break.
func byteOffset(text string, lineStarts []int, pos *protocol.Position) (int, error) {
	if pos.Line < 0 || pos.Line >= len(lineStarts) {
		return 0, fmt.Errorf("line %d not found", pos.Line)
	}
	lineStart := lineStarts[pos.Line]
	lineEnd := len(text)
	if pos.Line+1 < len(lineStarts) {
		lineEnd = lineStarts[pos.Line+1]
		for lineEnd > lineStart && (text[lineEnd-1] == '\n' || text[lineEnd-1] == '\r') {
			lineEnd--
		}
	}
	utf16Idx := 0
	for i, r := range text[lineStart:lineEnd] {
		if utf16Idx == pos.Character {
			return lineStart + i, nil
		}
		utf16Idx += utf16.RuneLen(r)
		if utf16Idx > pos.Character {
			return 0, fmt.Errorf("character %d on line %d is inside the character at %d", pos.Character, pos.Line, utf16Idx-utf16.RuneLen(r))
		}
	}
	if utf16Idx == pos.Character {
		return lineEnd, nil
	}
	return 0, fmt.Errorf("character %d not found on line %d of length %d", pos.Character, pos.Line, utf16Idx)
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#textDocument_didClose
func (h *Handler) textDocumentDidClose(params *protocol.DidCloseTextDocumentParams) error {
	if params.TextDocument == nil {
		return errTextDocumentRequired
	}
	doc, err := h.document(params.TextDocument.Uri)
	if err != nil {
		return err
	}
	delete(h.docs, doc.URI)
	err = h.client.TextDocumentPublishDiagnostics(&protocol.PublishDiagnosticsParams{
		Uri:         doc.URI,
		Diagnostics: []*protocol.Diagnostic{},
	})
	if err != nil {
		return fmt.Errorf("textDocument/didClose: %s", err)
	}
	return nil
}

// validate publishes the diagnostics of doc, replacing any previously published for it.
func (h *Handler) validate(doc *document) error {
	diags := analysis.Analyse(doc.Text)
	protocolDiags := make([]*protocol.Diagnostic, len(diags))
	for i, diag := range diags {
		protocolDiags[i] = &protocol.Diagnostic{
			Range:    newRange(diag.Range),
			Severity: protocol.DiagnosticSeverity(diag.Severity),
			Source:   analysis.Source,
			Message:  diag.Message,
		}
	}
	return h.client.TextDocumentPublishDiagnostics(&protocol.PublishDiagnosticsParams{
		Uri:         doc.URI,
		Version:     ptrTo(doc.Version),
		Diagnostics: protocolDiags,
	})
}

// validateAll validates every open document in URI order.
func (h *Handler) validateAll() error {
	for _, uri := range slices.Sorted(maps.Keys(h.docs)) {
		if err := h.validate(h.docs[uri]); err != nil {
			return err
		}
	}
	return nil
}

func newRange(r analysis.Range) *protocol.Range {
	return &protocol.Range{
		Start: &protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   &protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}
