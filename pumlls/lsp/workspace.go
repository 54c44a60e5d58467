package lsp

// This file contains handlers for the methods described under
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#workspaceFeatures.

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/marcuscaisey/puml/puml/preview"
	"github.com/marcuscaisey/puml/pumlls/jsonrpc"
	"github.com/marcuscaisey/puml/pumlls/lsp/protocol"
)

// settings are configured by the client with initializationOptions or workspace/didChangeConfiguration.
type settings struct {
	PlantUML *plantUMLSettings `json:"plantuml"`
}

type plantUMLSettings struct {
	// Server is the PlantUML server which previews are rendered by.
	Server string `json:"server"`
}

func (s *settings) GetPlantUML() *plantUMLSettings {
	if s == nil {
		return nil
	}
	return s.PlantUML
}

func (s *plantUMLSettings) GetServer() string {
	if s == nil {
		return ""
	}
	return s.Server
}

// previewServer returns the server configured by the client or the default server if there isn't one.
func (h *Handler) previewServer() string {
	if server := h.settings.GetPlantUML().GetServer(); server != "" {
		return server
	}
	return h.defaultServer
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#workspace_didChangeConfiguration
func (h *Handler) workspaceDidChangeConfiguration(params *protocol.DidChangeConfigurationParams) error {
	newSettings := &settings{}
	if len(params.Settings) > 0 && !bytes.Equal(params.Settings, []byte("null")) {
		if err := json.Unmarshal(params.Settings, newSettings); err != nil {
			return jsonrpc.NewInvalidParamsError(fmt.Sprintf("settings: %s", err))
		}
	}
	h.settings = newSettings
	h.log.Infof("Configuration changed, preview server is %s", h.previewServer())
	if err := h.validateAll(); err != nil {
		return fmt.Errorf("workspace/didChangeConfiguration: %s", err)
	}
	return nil
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#workspace_didChangeWorkspaceFolders
func (h *Handler) workspaceDidChangeWorkspaceFolders(*protocol.DidChangeWorkspaceFoldersParams) error {
	h.log.Log("Workspace folder change event received.")
	return nil
}

const previewCommand = "plantuml.preview"

// previewResult is the result of the plantuml.preview command.
type previewResult struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#workspace_executeCommand
func (h *Handler) workspaceExecuteCommand(params *protocol.ExecuteCommandParams) (any, error) {
	switch params.Command {
	case previewCommand:
		return h.previewCommand(params.Arguments)
	default:
		return nil, jsonrpc.NewInvalidParamsError(fmt.Sprintf("unknown command %q", params.Command))
	}
}

func (h *Handler) previewCommand(args []json.RawMessage) (*previewResult, error) {
	if len(args) != 1 {
		return nil, jsonrpc.NewInvalidParamsError(fmt.Sprintf("%s: expected 1 argument, got %d", previewCommand, len(args)))
	}
	var uri string
	if err := json.Unmarshal(args[0], &uri); err != nil {
		return nil, jsonrpc.NewInvalidParamsError(fmt.Sprintf("%s: uri argument: %s", previewCommand, err))
	}
	doc, err := h.document(uri)
	if err != nil {
		return nil, err
	}
	url, html, err := preview.RenderDocument(h.previewServer(), &preview.Document{
		URI:        doc.URI,
		LanguageID: doc.LanguageID,
		Text:       doc.Text,
	})
	if err != nil {
		return nil, jsonrpc.NewError(jsonrpc.ErrorCode(protocol.ErrorCodesRequestFailed), "Rendering preview failed", map[string]string{"error": err.Error()})
	}
	return &previewResult{URL: url, HTML: html}, nil
}
