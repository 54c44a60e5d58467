package lsp

import (
	"fmt"
	"log/slog"

	"github.com/marcuscaisey/puml/pumlls/lsp/protocol"
)

// logger sends log messages to the client.
type logger struct {
	client *client
}

func newLogger(client *client) *logger {
	return &logger{
		client: client,
	}
}

func (l *logger) Errorf(format string, a ...any) {
	l.log(protocol.MessageTypeError, fmt.Sprintf(format, a...))
}

func (l *logger) Infof(format string, a ...any) {
	l.log(protocol.MessageTypeInfo, fmt.Sprintf(format, a...))
}

func (l *logger) Log(a ...any) {
	l.log(protocol.MessageTypeLog, fmt.Sprint(a...))
}

func (l *logger) log(typ protocol.MessageType, msg string) {
	slog.Debug("Logging to client", "type", typ, "message", msg)
	err := l.client.WindowLogMessage(&protocol.LogMessageParams{
		Type:    typ,
		Message: msg,
	})
	if err != nil {
		slog.Warn("Failed to log", "error", err)
	}
}
