// Package protocol contains the types required to implement handlers for the LSP methods that pumlls supports.
//
// Only the parts of each type which pumlls reads or writes are declared. Field names follow the names in the LSP 3.17
// meta model.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ErrorCodes are the LSP specific JSON-RPC error codes.
type ErrorCodes int

// Possible [ErrorCodes] values.
const (
	// ErrorCodesServerNotInitialized is returned for requests which are received before initialize.
	ErrorCodesServerNotInitialized ErrorCodes = -32002
	// ErrorCodesRequestFailed is returned when a request is valid but still couldn't be completed.
	ErrorCodesRequestFailed ErrorCodes = -32803
)

// PositionEncodingKind describes how the character offsets of a [Position] are counted.
type PositionEncodingKind string

// Possible [PositionEncodingKind] values.
const (
	PositionEncodingKindUTF8  PositionEncodingKind = "utf-8"
	PositionEncodingKindUTF16 PositionEncodingKind = "utf-16"
	PositionEncodingKindUTF32 PositionEncodingKind = "utf-32"
)

// Position in a text document expressed as zero-based line and zero-based character offset.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range in a text document expressed as zero-based start and end positions. The end position is exclusive.
type Range struct {
	Start *Position `json:"start"`
	End   *Position `json:"end"`
}

// TextDocumentIdentifier identifies a text document by its URI.
type TextDocumentIdentifier struct {
	Uri string `json:"uri"`
}

// VersionedTextDocumentIdentifier identifies a specific version of a text document.
type VersionedTextDocumentIdentifier struct {
	Uri     string `json:"uri"`
	Version int    `json:"version"`
}

// TextDocumentItem transfers a text document from the client to the server.
type TextDocumentItem struct {
	Uri        string `json:"uri"`
	LanguageId string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

// TextDocumentPositionParams is a position inside a text document.
type TextDocumentPositionParams struct {
	TextDocument *TextDocumentIdentifier `json:"textDocument"`
	Position     *Position               `json:"position"`
}

// ClientInfo is information about the client.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// InitializeParams are the params of the initialize request.
type InitializeParams struct {
	ProcessId        *int                `json:"processId"`
	ClientInfo       *ClientInfo         `json:"clientInfo,omitempty"`
	RootUri          *string             `json:"rootUri,omitempty"`
	Capabilities     *ClientCapabilities `json:"capabilities"`
	WorkspaceFolders []*WorkspaceFolder  `json:"workspaceFolders,omitempty"`
	// InitializationOptions is passed through untouched so that the server can decide how to decode it.
	InitializationOptions json.RawMessage `json:"initializationOptions,omitempty"`
}

// GetCapabilities returns the Capabilities field or nil if p is nil.
func (p *InitializeParams) GetCapabilities() *ClientCapabilities {
	if p == nil {
		return nil
	}
	return p.Capabilities
}

// ClientCapabilities define the capabilities provided by the client.
type ClientCapabilities struct {
	Workspace    *WorkspaceClientCapabilities    `json:"workspace,omitempty"`
	TextDocument *TextDocumentClientCapabilities `json:"textDocument,omitempty"`
}

// GetWorkspace returns the Workspace field or nil if c is nil.
func (c *ClientCapabilities) GetWorkspace() *WorkspaceClientCapabilities {
	if c == nil {
		return nil
	}
	return c.Workspace
}

// GetTextDocument returns the TextDocument field or nil if c is nil.
func (c *ClientCapabilities) GetTextDocument() *TextDocumentClientCapabilities {
	if c == nil {
		return nil
	}
	return c.TextDocument
}

// WorkspaceClientCapabilities are the workspace specific client capabilities.
type WorkspaceClientCapabilities struct {
	// The client supports the workspace/configuration request.
	Configuration bool `json:"configuration,omitempty"`
	// The client has support for workspace folders.
	WorkspaceFolders       bool                                      `json:"workspaceFolders,omitempty"`
	DidChangeConfiguration *DidChangeConfigurationClientCapabilities `json:"didChangeConfiguration,omitempty"`
}

// GetConfiguration returns the Configuration field or false if c is nil.
func (c *WorkspaceClientCapabilities) GetConfiguration() bool {
	if c == nil {
		return false
	}
	return c.Configuration
}

// GetWorkspaceFolders returns the WorkspaceFolders field or false if c is nil.
func (c *WorkspaceClientCapabilities) GetWorkspaceFolders() bool {
	if c == nil {
		return false
	}
	return c.WorkspaceFolders
}

// DidChangeConfigurationClientCapabilities are the capabilities of the workspace/didChangeConfiguration notification.
type DidChangeConfigurationClientCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration,omitempty"`
}

// TextDocumentClientCapabilities are the text document specific client capabilities.
type TextDocumentClientCapabilities struct {
	PublishDiagnostics *PublishDiagnosticsClientCapabilities `json:"publishDiagnostics,omitempty"`
	Hover              *HoverClientCapabilities              `json:"hover,omitempty"`
}

// GetPublishDiagnostics returns the PublishDiagnostics field or nil if c is nil.
func (c *TextDocumentClientCapabilities) GetPublishDiagnostics() *PublishDiagnosticsClientCapabilities {
	if c == nil {
		return nil
	}
	return c.PublishDiagnostics
}

// PublishDiagnosticsClientCapabilities are the capabilities of the textDocument/publishDiagnostics notification.
type PublishDiagnosticsClientCapabilities struct {
	// Whether the clients accepts diagnostics with related information.
	RelatedInformation bool `json:"relatedInformation,omitempty"`
}

// GetRelatedInformation returns the RelatedInformation field or false if c is nil.
func (c *PublishDiagnosticsClientCapabilities) GetRelatedInformation() bool {
	if c == nil {
		return false
	}
	return c.RelatedInformation
}

// HoverClientCapabilities are the capabilities of the textDocument/hover request.
type HoverClientCapabilities struct {
	ContentFormat []MarkupKind `json:"contentFormat,omitempty"`
}

// InitializeResult is the result of the initialize request.
type InitializeResult struct {
	Capabilities *ServerCapabilities         `json:"capabilities"`
	ServerInfo   *InitializeResultServerInfo `json:"serverInfo,omitempty"`
}

// InitializeResultServerInfo is information about the server.
type InitializeResultServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ServerCapabilities defines the capabilities provided by the server.
type ServerCapabilities struct {
	PositionEncoding       PositionEncodingKind         `json:"positionEncoding,omitempty"`
	TextDocumentSync       *TextDocumentSyncOptions     `json:"textDocumentSync,omitempty"`
	CompletionProvider     *CompletionOptions           `json:"completionProvider,omitempty"`
	HoverProvider          bool                         `json:"hoverProvider,omitempty"`
	ExecuteCommandProvider *ExecuteCommandOptions       `json:"executeCommandProvider,omitempty"`
	Workspace              *ServerCapabilitiesWorkspace `json:"workspace,omitempty"`
}

// TextDocumentSyncKind defines how the client should sync document changes to the server.
type TextDocumentSyncKind int

// Possible [TextDocumentSyncKind] values.
const (
	TextDocumentSyncKindNone        TextDocumentSyncKind = 0
	TextDocumentSyncKindFull        TextDocumentSyncKind = 1
	TextDocumentSyncKindIncremental TextDocumentSyncKind = 2
)

// TextDocumentSyncOptions are the options for text document synchronisation.
type TextDocumentSyncOptions struct {
	// Open and close notifications are sent to the server.
	OpenClose bool `json:"openClose,omitempty"`
	// Change notifications are sent to the server.
	Change TextDocumentSyncKind `json:"change"`
}

// CompletionOptions are the options of the textDocument/completion request.
type CompletionOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
	// The server provides support to resolve additional information for a completion item.
	ResolveProvider bool `json:"resolveProvider,omitempty"`
}

// ExecuteCommandOptions are the options of the workspace/executeCommand request.
type ExecuteCommandOptions struct {
	Commands []string `json:"commands"`
}

// ServerCapabilitiesWorkspace are the workspace specific server capabilities.
type ServerCapabilitiesWorkspace struct {
	WorkspaceFolders *WorkspaceFoldersServerCapabilities `json:"workspaceFolders,omitempty"`
}

// WorkspaceFoldersServerCapabilities are the workspace folder capabilities of the server.
type WorkspaceFoldersServerCapabilities struct {
	Supported           bool `json:"supported,omitempty"`
	ChangeNotifications bool `json:"changeNotifications,omitempty"`
}

// WorkspaceFolder is a folder open in the client.
type WorkspaceFolder struct {
	Uri  string `json:"uri"`
	Name string `json:"name"`
}

// DidOpenTextDocumentParams are the params of the textDocument/didOpen notification.
type DidOpenTextDocumentParams struct {
	TextDocument *TextDocumentItem `json:"textDocument"`
}

// DidChangeTextDocumentParams are the params of the textDocument/didChange notification.
type DidChangeTextDocumentParams struct {
	TextDocument   *VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []*TextDocumentContentChangeEvent `json:"contentChanges"`
}

// TextDocumentContentChangeEvent is an event describing a change to a text document. Value is either a
// [*IncrementalTextDocumentContentChangeEvent] or a [*FullTextDocumentContentChangeEvent].
type TextDocumentContentChangeEvent struct {
	Value any
}

// IncrementalTextDocumentContentChangeEvent replaces a range of a document with new text.
type IncrementalTextDocumentContentChangeEvent struct {
	Range       *Range `json:"range"`
	RangeLength *int   `json:"rangeLength,omitempty"`
	Text        string `json:"text"`
}

// FullTextDocumentContentChangeEvent replaces the whole content of a document.
type FullTextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

// UnmarshalJSON implements [json.Unmarshaler].
func (e *TextDocumentContentChangeEvent) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("unmarshalling TextDocumentContentChangeEvent: %s", err)
	}
	if _, ok := fields["text"]; !ok {
		return fmt.Errorf("unmarshalling TextDocumentContentChangeEvent: text is required")
	}
	if rang, ok := fields["range"]; ok && !bytes.Equal(rang, []byte("null")) {
		var v *IncrementalTextDocumentContentChangeEvent
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("unmarshalling TextDocumentContentChangeEvent: %s", err)
		}
		e.Value = v
		return nil
	}
	var v *FullTextDocumentContentChangeEvent
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshalling TextDocumentContentChangeEvent: %s", err)
	}
	e.Value = v
	return nil
}

// MarshalJSON implements [json.Marshaler].
func (e *TextDocumentContentChangeEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Value)
}

// DidCloseTextDocumentParams are the params of the textDocument/didClose notification.
type DidCloseTextDocumentParams struct {
	TextDocument *TextDocumentIdentifier `json:"textDocument"`
}

// DiagnosticSeverity is the severity of a [Diagnostic].
type DiagnosticSeverity int

// Possible [DiagnosticSeverity] values.
const (
	DiagnosticSeverityError       DiagnosticSeverity = 1
	DiagnosticSeverityWarning     DiagnosticSeverity = 2
	DiagnosticSeverityInformation DiagnosticSeverity = 3
	DiagnosticSeverityHint        DiagnosticSeverity = 4
)

// Diagnostic represents a diagnostic, such as a compiler error or warning.
type Diagnostic struct {
	Range    *Range             `json:"range"`
	Severity DiagnosticSeverity `json:"severity,omitempty"`
	// A human-readable string describing the source of this diagnostic.
	Source  string `json:"source,omitempty"`
	Message string `json:"message"`
}

// PublishDiagnosticsParams are the params of the textDocument/publishDiagnostics notification.
type PublishDiagnosticsParams struct {
	Uri         string        `json:"uri"`
	Version     *int          `json:"version,omitempty"`
	Diagnostics []*Diagnostic `json:"diagnostics"`
}

// CompletionParams are the params of the textDocument/completion request.
type CompletionParams struct {
	TextDocumentPositionParams
}

// CompletionItemKind is the kind of a completion entry.
type CompletionItemKind int

// Possible [CompletionItemKind] values.
const (
	CompletionItemKindText     CompletionItemKind = 1
	CompletionItemKindKeyword  CompletionItemKind = 14
	CompletionItemKindSnippet  CompletionItemKind = 15
	CompletionItemKindEvent    CompletionItemKind = 23
	CompletionItemKindOperator CompletionItemKind = 24
)

// CompletionItem is an item to be shown in the completion list.
type CompletionItem struct {
	Label         string             `json:"label"`
	Kind          CompletionItemKind `json:"kind,omitempty"`
	Detail        string             `json:"detail,omitempty"`
	Documentation string             `json:"documentation,omitempty"`
	// Data is preserved on a completion item between a textDocument/completion and a completionItem/resolve request.
	Data any `json:"data,omitempty"`
}

// HoverParams are the params of the textDocument/hover request.
type HoverParams struct {
	TextDocumentPositionParams
}

// MarkupKind describes the content type of a [MarkupContent].
type MarkupKind string

// Possible [MarkupKind] values.
const (
	MarkupKindPlainText MarkupKind = "plaintext"
	MarkupKindMarkdown  MarkupKind = "markdown"
)

// MarkupContent is a string value rendered according to its kind.
type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

// Hover is the result of a hover request.
type Hover struct {
	Contents *MarkupContent `json:"contents"`
	Range    *Range         `json:"range,omitempty"`
}

// DidChangeConfigurationParams are the params of the workspace/didChangeConfiguration notification.
type DidChangeConfigurationParams struct {
	Settings json.RawMessage `json:"settings"`
}

// DidChangeWorkspaceFoldersParams are the params of the workspace/didChangeWorkspaceFolders notification.
type DidChangeWorkspaceFoldersParams struct {
	Event *WorkspaceFoldersChangeEvent `json:"event"`
}

// WorkspaceFoldersChangeEvent describes the workspace folders which were added and removed.
type WorkspaceFoldersChangeEvent struct {
	Added   []*WorkspaceFolder `json:"added"`
	Removed []*WorkspaceFolder `json:"removed"`
}

// ExecuteCommandParams are the params of the workspace/executeCommand request.
type ExecuteCommandParams struct {
	Command   string            `json:"command"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
}

// Registration is a capability which the server registers dynamically.
type Registration struct {
	Id              string `json:"id"`
	Method          string `json:"method"`
	RegisterOptions any    `json:"registerOptions,omitempty"`
}

// RegistrationParams are the params of the client/registerCapability request.
type RegistrationParams struct {
	Registrations []*Registration `json:"registrations"`
}

// MessageType is the type of a message shown or logged by the client.
type MessageType int

// Possible [MessageType] values.
const (
	MessageTypeError   MessageType = 1
	MessageTypeWarning MessageType = 2
	MessageTypeInfo    MessageType = 3
	MessageTypeLog     MessageType = 4
)

// LogMessageParams are the params of the window/logMessage notification.
type LogMessageParams struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}
