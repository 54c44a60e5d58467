// Package jsonrpc provides a JSON-RPC 2.0 server implementation for the version of the protocol defined at
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#baseProtocol.
package jsonrpc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/textproto"
	"strconv"
)

// Handler responds to JSON-RPC requests and notifications.
//
// If HandleNotification returns an [*ExitError], [Server.Serve] stops reading messages and returns it.
type Handler interface {
	HandleRequest(method string, params *json.RawMessage) (any, error)
	HandleNotification(method string, params *json.RawMessage) error
}

// Server reads JSON-RPC messages from a stream, passes them to a [Handler], and writes the responses to another stream.
// Messages are handled one at a time in the order that they're read.
type Server struct {
	in     *bufio.Reader
	out    io.Writer
	client *Client
}

// NewServer returns a [*Server] which reads messages from in and writes them to out.
func NewServer(in io.Reader, out io.Writer) *Server {
	s := &Server{
		in:  bufio.NewReader(in),
		out: out,
	}
	s.client = newClient(s)
	return s
}

// Client returns the [*Client] which can be used to send messages to the other end of the connection.
func (s *Server) Client() *Client {
	return s.client
}

// Serve handles messages until the input stream is exhausted or handler asks to exit.
// It returns nil at EOF, the [*ExitError] returned by handler, or the error which stopped it otherwise.
func (s *Server) Serve(handler Handler) error {
	for {
		msg, err := s.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				slog.Info("EOF reached, stopping server")
				return nil
			}
			var respErr *responseError
			if errors.As(err, &respErr) {
				resp := &response{JSONRPC: validJSONRPC, ID: nil, Error: respErr}
				if writeErr := s.write(resp); writeErr != nil {
					return fmt.Errorf("serving jsonrpc requests: %v", writeErr)
				}
				continue
			}
			return fmt.Errorf("serving jsonrpc requests: %v", err)
		}

		if err := s.handle(handler, msg); err != nil {
			var exitErr *ExitError
			if errors.As(err, &exitErr) {
				return exitErr
			}
			return fmt.Errorf("serving jsonrpc requests: %v", err)
		}
	}
}

type headers struct {
	ContentLength int64
	ContentType   string
}

// reads a message according to
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#baseProtocol
func (s *Server) read() (message, error) {
	headers, err := s.readHeaders()
	if err != nil {
		return nil, fmt.Errorf("reading message: %w", err)
	}

	content, err := io.ReadAll(io.LimitReader(s.in, headers.ContentLength))
	if err != nil {
		return nil, fmt.Errorf("reading message: reading content: %w", err)
	}
	if int64(len(content)) < headers.ContentLength {
		return nil, fmt.Errorf("reading message: read %d bytes of content, expected %d: %w", len(content), headers.ContentLength, io.ErrUnexpectedEOF)
	}

	msg, err := unmarshalMessage(content)
	if err != nil {
		return nil, fmt.Errorf("reading message: %w", err)
	}

	return msg, nil
}

const (
	contentLengthHeader = "Content-Length"
	contentTypeHeader   = "Content-Type"
	validMediaType      = "application/vscode-jsonrpc"
)

// readHeaders reads the header part of a message. The header part has the same format as a MIME header block.
func (s *Server) readHeaders() (*headers, error) {
	mimeHeader, err := textproto.NewReader(s.in).ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.EOF) && len(mimeHeader) == 0 {
			return nil, err
		}
		return nil, fmt.Errorf("reading headers: %w", err)
	}

	headers := &headers{}
	for field, values := range mimeHeader {
		if len(values) > 1 {
			return nil, fmt.Errorf("%s header repeated %d times", field, len(values))
		}
		value := values[0]
		switch field {
		case contentLengthHeader:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid %s header %q: must be a non-negative integer", contentLengthHeader, value)
			}
			headers.ContentLength = n

		case contentTypeHeader:
			mediaType, params, err := mime.ParseMediaType(value)
			if err != nil {
				return nil, fmt.Errorf("invalid %s header %q: %s", contentTypeHeader, value, err)
			}
			if mediaType != validMediaType {
				return nil, fmt.Errorf("invalid %s header %q: only %s MIME type is supported", contentTypeHeader, value, validMediaType)
			}
			if charset, ok := params["charset"]; ok && charset != "utf-8" && charset != "utf8" {
				return nil, fmt.Errorf("invalid %s header %q: charset must be utf-8", contentTypeHeader, value)
			}
			headers.ContentType = value

		default:
			return nil, fmt.Errorf("unknown header: %q", field)
		}
	}

	if _, ok := mimeHeader[contentLengthHeader]; !ok {
		return nil, fmt.Errorf("missing %s header", contentLengthHeader)
	}

	return headers, nil
}

func (s *Server) write(msg message) error {
	content, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if _, err := fmt.Fprintf(s.out, "%s: %d\r\n\r\n%s", contentLengthHeader, len(content), content); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	return nil
}

func (s *Server) handle(handler Handler, msg message) error {
	switch msg := msg.(type) {
	case *request:
		result, err := handler.HandleRequest(msg.Method, msg.Params)
		resp := &response{JSONRPC: validJSONRPC, ID: &msg.ID}
		if err != nil {
			var respErr *responseError
			if errors.As(err, &respErr) {
				resp.Error = respErr
			} else {
				resp.Error = newInternalError(err.Error())
			}
		} else {
			resultBytes, err := json.Marshal(result)
			if err != nil {
				resp.Error = newInternalError(fmt.Sprintf("unable to marshal result: %v", err))
			} else {
				rawMsg := json.RawMessage(resultBytes)
				resp.Result = &rawMsg
			}
		}
		if writeErr := s.write(resp); writeErr != nil {
			return fmt.Errorf("handling message: %w", writeErr)
		}

	case *notification:
		if err := handler.HandleNotification(msg.Method, msg.Params); err != nil {
			var exitErr *ExitError
			if errors.As(err, &exitErr) {
				return exitErr
			}
			slog.Error("Error handling notification", "method", msg.Method, "error", err.Error())
		}

	case *response:
		s.client.handleResponse(msg)
	}

	return nil
}
