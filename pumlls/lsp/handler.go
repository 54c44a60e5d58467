// Package lsp implements a [jsonrpc.Handler] which serves the Language Server Protocol for PlantUML documents.
package lsp

import (
	"encoding/json"
	"strings"

	"github.com/marcuscaisey/puml/puml/preview"
	"github.com/marcuscaisey/puml/pumlls/jsonrpc"
	"github.com/marcuscaisey/puml/pumlls/lsp/protocol"
)

// Handler responds to JSON-RPC requests and notifications. Messages must be handled one at a time.
type Handler struct {
	client *client
	log    *logger

	requestHandlers      map[string]requestHandler
	notificationHandlers map[string]notificationHandler

	initialized  bool
	shuttingDown bool

	hasConfigurationCapability   bool
	hasWorkspaceFolderCapability bool

	defaultServer string
	settings      *settings
	docs          map[string]*document
}

// Option can be passed to [NewHandler] to configure it.
type Option func(*Handler)

// WithPreviewServer sets the PlantUML server which previews are rendered by until the client configures one.
func WithPreviewServer(server string) Option {
	return func(h *Handler) {
		h.defaultServer = server
	}
}

// NewHandler returns a [*Handler] which sends messages to the client with jsonrpcClient.
func NewHandler(jsonrpcClient *jsonrpc.Client, opts ...Option) *Handler {
	client := newClient(jsonrpcClient)
	h := &Handler{
		client:        client,
		log:           newLogger(client),
		defaultServer: preview.DefaultServer,
		settings:      &settings{},
		docs:          map[string]*document{},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.requestHandlers = map[string]requestHandler{
		"initialize":               request(h.initialize),
		"shutdown":                 request(h.shutdown),
		"textDocument/completion":  request(h.textDocumentCompletion),
		"completionItem/resolve":   request(h.completionItemResolve),
		"textDocument/hover":       request(h.textDocumentHover),
		"workspace/executeCommand": request(h.workspaceExecuteCommand),
	}
	h.notificationHandlers = map[string]notificationHandler{
		"initialized":                         notification(h.initializedNotification),
		"exit":                                notification(h.exit),
		"textDocument/didOpen":                notification(h.textDocumentDidOpen),
		"textDocument/didChange":              notification(h.textDocumentDidChange),
		"textDocument/didClose":               notification(h.textDocumentDidClose),
		"workspace/didChangeConfiguration":    notification(h.workspaceDidChangeConfiguration),
		"workspace/didChangeWorkspaceFolders": notification(h.workspaceDidChangeWorkspaceFolders),
	}
	return h
}

var (
	errNotInitialized     = jsonrpc.NewError(jsonrpc.ErrorCode(protocol.ErrorCodesServerNotInitialized), "Server not initialized", nil)
	errAlreadyInitialized = jsonrpc.NewInvalidRequestError("Server already initialized")
	errShuttingDown       = jsonrpc.NewInvalidRequestError("Server shutting down")
)

// HandleRequest responds to a JSON-RPC request.
func (h *Handler) HandleRequest(method string, params *json.RawMessage) (any, error) {
	if !h.initialized && method != "initialize" {
		return nil, errNotInitialized
	}
	if h.initialized && method == "initialize" {
		return nil, errAlreadyInitialized
	}
	if h.shuttingDown {
		return nil, errShuttingDown
	}
	handle, ok := h.requestHandlers[method]
	if !ok {
		return nil, jsonrpc.NewMethodNotFoundError(method)
	}
	return handle(params)
}

// HandleNotification responds to a JSON-RPC notification.
func (h *Handler) HandleNotification(method string, params *json.RawMessage) error {
	if !h.initialized && method != "exit" {
		return errNotInitialized
	}
	if h.shuttingDown && method != "exit" {
		return errShuttingDown
	}
	handle, ok := h.notificationHandlers[method]
	if !ok {
		// Notifications starting with $/ are protocol implementation dependent and can be ignored.
		if strings.HasPrefix(method, "$/") {
			return nil
		}
		return jsonrpc.NewMethodNotFoundError(method)
	}
	return handle(params)
}

type requestHandler func(params *json.RawMessage) (any, error)

type notificationHandler func(params *json.RawMessage) error

// request returns a requestHandler which decodes the params of a request into a P and passes them to f. Missing or
// null params are decoded as the zero P.
func request[P, R any](f func(*P) (R, error)) requestHandler {
	return func(rawParams *json.RawMessage) (any, error) {
		params, err := decodeParams[P](rawParams)
		if err != nil {
			return nil, err
		}
		return f(params)
	}
}

// notification is the notificationHandler equivalent of request.
func notification[P any](f func(*P) error) notificationHandler {
	return func(rawParams *json.RawMessage) error {
		params, err := decodeParams[P](rawParams)
		if err != nil {
			return err
		}
		return f(params)
	}
}

func decodeParams[P any](rawParams *json.RawMessage) (*P, error) {
	params := new(P)
	if rawParams == nil {
		return params, nil
	}
	if err := json.Unmarshal(*rawParams, params); err != nil {
		return nil, jsonrpc.NewInvalidParamsError(err.Error())
	}
	return params, nil
}

// noParams is the params type of methods which don't have any.
type noParams struct{}

func ptrTo[T any](v T) *T {
	return &v
}
