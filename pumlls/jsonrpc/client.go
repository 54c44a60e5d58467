package jsonrpc

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// ResponseHandler is called with the result or error of a request sent with [Client.Request].
type ResponseHandler func(result *json.RawMessage, err error)

// Client sends messages to the other end of a connection served by a [*Server].
type Client struct {
	server  *Server
	nextID  int
	pending map[string]ResponseHandler
}

func newClient(server *Server) *Client {
	return &Client{
		server:  server,
		pending: map[string]ResponseHandler{},
	}
}

// Notify sends a notification.
func (c *Client) Notify(method string, params any) error {
	rawParams, err := marshalParams(params)
	if err != nil {
		return fmt.Errorf("sending %q notification: %s", method, err)
	}
	notif := &notification{
		JSONRPC: validJSONRPC,
		Method:  method,
		Params:  rawParams,
	}
	if err := c.server.write(notif); err != nil {
		return fmt.Errorf("sending %q notification: %s", method, err)
	}
	return nil
}

// Request sends a request. It doesn't wait for the response since responses are read by the same loop which is
// handling the current message. Instead, onResponse is called from [Server.Serve] once the response arrives. onResponse
// may be nil.
func (c *Client) Request(method string, params any, onResponse ResponseHandler) error {
	rawParams, err := marshalParams(params)
	if err != nil {
		return fmt.Errorf("sending %q request: %s", method, err)
	}
	c.nextID++
	id := NewIntID(c.nextID)
	req := &request{
		JSONRPC: validJSONRPC,
		ID:      id,
		Method:  method,
		Params:  rawParams,
	}
	if err := c.server.write(req); err != nil {
		return fmt.Errorf("sending %q request: %s", method, err)
	}
	if onResponse != nil {
		c.pending[id.String()] = onResponse
	}
	return nil
}

func (c *Client) handleResponse(resp *response) {
	if resp.ID == nil {
		slog.Warn("Ignoring response without id", "error", resp.Error)
		return
	}
	key := resp.ID.String()
	onResponse, ok := c.pending[key]
	if !ok {
		slog.Info("Ignoring response to unknown request", "id", key)
		return
	}
	delete(c.pending, key)
	if resp.Error != nil {
		onResponse(nil, resp.Error)
		return
	}
	onResponse(resp.Result, nil)
}

func marshalParams(params any) (*json.RawMessage, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshalling parameters to JSON: %s", err)
	}
	return ptrTo(json.RawMessage(data)), nil
}

func ptrTo[T any](v T) *T {
	return &v
}
