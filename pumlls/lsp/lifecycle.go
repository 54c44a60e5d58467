package lsp

// This file contains handlers for the methods described under
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#lifeCycleMessages.

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/marcuscaisey/puml/pumlls/jsonrpc"
	"github.com/marcuscaisey/puml/pumlls/lsp/protocol"
)

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#initialize
func (h *Handler) initialize(params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	capabilities := params.GetCapabilities()
	h.hasConfigurationCapability = capabilities.GetWorkspace().GetConfiguration()
	h.hasWorkspaceFolderCapability = capabilities.GetWorkspace().GetWorkspaceFolders()

	if len(params.InitializationOptions) > 0 {
		var initSettings *settings
		if err := json.Unmarshal(params.InitializationOptions, &initSettings); err != nil {
			return nil, jsonrpc.NewInvalidParamsError(fmt.Sprintf("initializationOptions: %s", err))
		}
		if initSettings != nil {
			h.settings = initSettings
		}
	}

	version, err := buildVersionStr()
	if err != nil {
		h.log.Errorf("initialize: %s", err)
	}

	h.initialized = true
	result := &protocol.InitializeResult{
		Capabilities: &protocol.ServerCapabilities{
			PositionEncoding: protocol.PositionEncodingKindUTF16,
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindIncremental,
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: true,
			},
			HoverProvider: true,
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{previewCommand},
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "pumlls",
			Version: version,
		},
	}
	if h.hasWorkspaceFolderCapability {
		result.Capabilities.Workspace = &protocol.ServerCapabilitiesWorkspace{
			WorkspaceFolders: &protocol.WorkspaceFoldersServerCapabilities{
				Supported:           true,
				ChangeNotifications: true,
			},
		}
	}
	return result, nil
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#initialized
func (h *Handler) initializedNotification(*noParams) error {
	if !h.hasConfigurationCapability {
		return nil
	}
	params := &protocol.RegistrationParams{
		Registrations: []*protocol.Registration{
			{Id: "workspace/didChangeConfiguration", Method: "workspace/didChangeConfiguration"},
		},
	}
	err := h.client.ClientRegisterCapability(params, func(_ *json.RawMessage, err error) {
		if err != nil {
			h.log.Errorf("Registering for configuration changes: %s", err)
		}
	})
	if err != nil {
		return fmt.Errorf("initialized: %s", err)
	}
	return nil
}

// Version returns the version of the server, built from the VCS information embedded in the binary. It's "dev" if
// there's no VCS information and "unknown" if there's no build information.
func Version() string {
	version, err := buildVersionStr()
	if err != nil {
		return "unknown"
	}
	return version
}

func buildVersionStr() (string, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown", nil
	}
	var vcsRevision string
	var vcsTime time.Time
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			vcsRevision = setting.Value
		case "vcs.time":
			var err error
			vcsTime, err = time.Parse(time.RFC3339, setting.Value)
			if err != nil {
				return "", fmt.Errorf("building version string: parsing vcs.time value from build info: %s", err)
			}
		}
	}
	if len(vcsRevision) < 8 || vcsTime.IsZero() {
		return "dev", nil
	}
	return vcsTime.Format(time.DateOnly) + "-" + vcsRevision[:8], nil
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#shutdown
func (h *Handler) shutdown(*noParams) (any, error) {
	h.shuttingDown = true
	return nil, nil
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#exit
func (h *Handler) exit(*noParams) error {
	code := 0
	if !h.shuttingDown {
		code = 1
	}
	return jsonrpc.NewExitError(code)
}
