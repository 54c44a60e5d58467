package lsp

import "github.com/marcuscaisey/puml/pumlls/lsp/protocol"

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#textDocument_hover
func (h *Handler) textDocumentHover(params *protocol.HoverParams) (*protocol.Hover, error) {
	if params.TextDocument == nil {
		return nil, errTextDocumentRequired
	}
	if _, ok := h.docs[params.TextDocument.Uri]; !ok {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: &protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: "PlantUML Keyword",
		},
	}, nil
}
