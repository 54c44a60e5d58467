package lsp

import (
	"strings"

	"github.com/marcuscaisey/puml/pumlls/lsp/protocol"
)

// completionLabels are suggested in this order regardless of where completion is requested.
var completionLabels = []string{
	"@startuml", "@enduml", "@startmindmap", "@endmindmap", "@startgantt", "@endgantt",
	"participant", "actor", "boundary", "control", "entity", "database", "collections", "queue",
	"class", "interface", "enum", "abstract", "annotation", "package", "node", "folder", "frame", "cloud", "database",
	"autonumber", "newpage", "title", "header", "footer", "caption", "legend",
	"note left", "note right", "note top", "note bottom", "note over",
	"activate", "deactivate", "destroy", "return",
	"if", "then", "else", "endif", "while", "endwhile", "fork", "endfork", "repeat", "until", "loop",
}

type completionDetails struct {
	Detail        string
	Documentation string
}

var completionItemDetails = map[string]completionDetails{
	"@startuml": {
		Detail:        "Start Sequence/Class Diagram",
		Documentation: "Starts a standard PlantUML diagram.",
	},
	"participant": {
		Detail:        "Declare Participant",
		Documentation: "explicitly declare a participant in a sequence diagram.",
	},
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#textDocument_completion
func (h *Handler) textDocumentCompletion(*protocol.CompletionParams) ([]*protocol.CompletionItem, error) {
	items := make([]*protocol.CompletionItem, len(completionLabels))
	for i, label := range completionLabels {
		kind := protocol.CompletionItemKindKeyword
		if strings.HasPrefix(label, "@") {
			kind = protocol.CompletionItemKindEvent
		}
		items[i] = &protocol.CompletionItem{
			Label: label,
			Kind:  kind,
			Data:  i,
		}
	}
	return items, nil
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#completionItem_resolve
func (h *Handler) completionItemResolve(item *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	if details, ok := completionItemDetails[item.Label]; ok {
		item.Detail = details.Detail
		item.Documentation = details.Documentation
	}
	return item, nil
}
