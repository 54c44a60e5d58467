package lsp_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/marcuscaisey/puml/puml/preview"
	"github.com/marcuscaisey/puml/pumlls/jsonrpc"
	"github.com/marcuscaisey/puml/pumlls/lsp"
)

func frame(contents ...string) string {
	var b strings.Builder
	for _, content := range contents {
		fmt.Fprintf(&b, "Content-Length: %d\r\n\r\n%s", len(content), content)
	}
	return b.String()
}

func mustReadMessages(t *testing.T, out string) []any {
	t.Helper()
	var msgs []any
	for out != "" {
		header, rest, ok := strings.Cut(out, "\r\n\r\n")
		if !ok {
			t.Fatalf("output has no header terminator: %q", out)
		}
		n, err := strconv.Atoi(strings.TrimPrefix(header, "Content-Length: "))
		if err != nil {
			t.Fatalf("invalid header %q: %s", header, err)
		}
		msgs = append(msgs, mustUnmarshal(t, rest[:n]))
		out = rest[n:]
	}
	return msgs
}

func mustUnmarshal(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("invalid JSON %q: %s", s, err)
	}
	return v
}

func mustMarshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshalling %v to JSON: %s", v, err)
	}
	return string(data)
}

func req(id int, method string, params string) string {
	return fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"method":%q,"params":%s}`, id, method, params)
}

func notif(method string, params string) string {
	return fmt.Sprintf(`{"jsonrpc":"2.0","method":%q,"params":%s}`, method, params)
}

func result(id int, result string) string {
	return fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"result":%s}`, id, result)
}

func errorResult(id int, code jsonrpc.ErrorCode, message string) string {
	return fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"error":{"code":%d,"message":%q}}`, id, code, message)
}

func didOpen(uri, languageID string, version int, text string) string {
	return notif("textDocument/didOpen", fmt.Sprintf(
		`{"textDocument":{"uri":%q,"languageId":%q,"version":%d,"text":%s}}`, uri, languageID, version, strconv.Quote(text),
	))
}

func publishDiagnostics(uri string, version int, diagnostics string) string {
	return notif("textDocument/publishDiagnostics", fmt.Sprintf(`{"uri":%q,"version":%d,"diagnostics":%s}`, uri, version, diagnostics))
}

func diagnostic(startLine, startChar, endLine, endChar, severity int, message string) string {
	return fmt.Sprintf(
		`{"range":{"start":{"line":%d,"character":%d},"end":{"line":%d,"character":%d}},"severity":%d,"source":"puml-lsp","message":%s}`,
		startLine, startChar, endLine, endChar, severity, strconv.Quote(message),
	)
}

func logMessage(typ int, message string) string {
	return notif("window/logMessage", fmt.Sprintf(`{"type":%d,"message":%q}`, typ, message))
}

const initializeReq = `{"jsonrpc":"2.0","id":0,"method":"initialize","params":{"processId":null,"capabilities":{}}}`

// runSession serves messages with a new handler and returns the messages written by the server, excluding the
// response to the first initialize request.
func runSession(t *testing.T, opts []lsp.Option, messages ...string) ([]any, error) {
	t.Helper()
	var out bytes.Buffer
	server := jsonrpc.NewServer(strings.NewReader(frame(messages...)), &out)
	handler := lsp.NewHandler(server.Client(), opts...)
	err := server.Serve(handler)
	msgs := mustReadMessages(t, out.String())
	if len(messages) > 0 && strings.Contains(messages[0], `"method":"initialize"`) {
		if len(msgs) == 0 {
			t.Fatalf("server didn't respond to initialize")
		}
		msgs = msgs[1:]
	}
	return msgs, err
}

func assertMessages(t *testing.T, want []string, got []any) {
	t.Helper()
	wantMsgs := make([]any, len(want))
	for i, msg := range want {
		wantMsgs[i] = mustUnmarshal(t, msg)
	}
	if diff := cmp.Diff(wantMsgs, got); diff != "" {
		t.Errorf("server wrote unexpected messages (-want +got):\n%s", diff)
	}
}

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Serve() returned error: %s", err)
	}
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name         string
		capabilities string
		workspace    any
	}{
		{
			name:         "no workspace folder support",
			capabilities: `{}`,
		},
		{
			name:         "workspace folder support",
			capabilities: `{"workspace":{"workspaceFolders":true}}`,
			workspace: map[string]any{
				"workspaceFolders": map[string]any{"supported": true, "changeNotifications": true},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			msgs, err := runSession(t, nil, req(1, "initialize", fmt.Sprintf(`{"processId":1,"capabilities":%s}`, test.capabilities)))
			assertNoError(t, err)
			if len(msgs) != 1 {
				t.Fatalf("server wrote %d messages, want 1", len(msgs))
			}
			resp := msgs[0].(map[string]any)
			initResult := resp["result"].(map[string]any)
			serverInfo := initResult["serverInfo"].(map[string]any)
			if serverInfo["name"] != "pumlls" {
				t.Errorf("serverInfo.name = %v, want pumlls", serverInfo["name"])
			}
			if version, ok := serverInfo["version"].(string); !ok || version == "" {
				t.Errorf("serverInfo.version = %v, want non-empty string", serverInfo["version"])
			}

			wantCapabilities := map[string]any{
				"positionEncoding":       "utf-16",
				"textDocumentSync":       map[string]any{"openClose": true, "change": float64(2)},
				"completionProvider":     map[string]any{"resolveProvider": true},
				"hoverProvider":          true,
				"executeCommandProvider": map[string]any{"commands": []any{"plantuml.preview"}},
			}
			if test.workspace != nil {
				wantCapabilities["workspace"] = test.workspace
			}
			if diff := cmp.Diff(wantCapabilities, initResult["capabilities"]); diff != "" {
				t.Errorf("initialize returned unexpected capabilities (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLifecycleErrors(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     []string
	}{
		{
			name:     "request before initialize",
			messages: []string{req(1, "textDocument/completion", `{}`)},
			want:     []string{errorResult(1, -32002, "Server not initialized")},
		},
		{
			name:     "notification before initialize is not answered",
			messages: []string{didOpen("file:///a.puml", "plantuml", 1, "@startuml\n@enduml")},
			want:     nil,
		},
		{
			name:     "initialize twice",
			messages: []string{initializeReq, req(1, "initialize", `{"capabilities":{}}`)},
			want:     []string{`{"jsonrpc":"2.0","id":1,"error":{"code":-32600,"message":"Invalid Request","data":{"error":"Server already initialized"}}}`},
		},
		{
			name:     "request after shutdown",
			messages: []string{initializeReq, req(1, "shutdown", `null`), req(2, "textDocument/completion", `{}`)},
			want: []string{
				result(1, "null"),
				`{"jsonrpc":"2.0","id":2,"error":{"code":-32600,"message":"Invalid Request","data":{"error":"Server shutting down"}}}`,
			},
		},
		{
			name:     "unknown method",
			messages: []string{initializeReq, req(1, "textDocument/definition", `{}`)},
			want:     []string{`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"Method not found","data":{"method":"textDocument/definition"}}}`},
		},
		{
			name:     "invalid params",
			messages: []string{initializeReq, req(1, "completionItem/resolve", `[1]`)},
			want:     []string{`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"Invalid params","data":{"error":"json: cannot unmarshal array into Go value of type protocol.CompletionItem"}}}`},
		},
		{
			name:     "dollar notifications are ignored",
			messages: []string{initializeReq, notif("$/setTrace", `{"value":"off"}`)},
			want:     nil,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			msgs, err := runSession(t, nil, test.messages...)
			assertNoError(t, err)
			assertMessages(t, test.want, msgs)
		})
	}
}

func TestExit(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		wantCode int
	}{
		{
			name:     "after shutdown",
			messages: []string{initializeReq, req(1, "shutdown", `null`), notif("exit", `null`)},
			wantCode: 0,
		},
		{
			name:     "without shutdown",
			messages: []string{initializeReq, notif("exit", `null`)},
			wantCode: 1,
		},
		{
			name:     "before initialize",
			messages: []string{`{"jsonrpc":"2.0","method":"exit"}`},
			wantCode: 1,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			messages := append(test.messages, req(99, "shutdown", `null`))
			msgs, err := runSession(t, nil, messages...)
			var exitErr *jsonrpc.ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("Serve() returned %v, want *jsonrpc.ExitError", err)
			}
			if exitErr.Code != test.wantCode {
				t.Errorf("exit code = %d, want %d", exitErr.Code, test.wantCode)
			}
			for _, msg := range msgs {
				if msg.(map[string]any)["id"] == float64(99) {
					t.Errorf("server responded to request sent after exit: %v", msg)
				}
			}
		})
	}
}

func TestInitializedRegistersForConfigurationChanges(t *testing.T) {
	initialize := req(0, "initialize", `{"capabilities":{"workspace":{"configuration":true}}}`)
	registerCapability := `{"jsonrpc":"2.0","id":1,"method":"client/registerCapability","params":{"registrations":[{"id":"workspace/didChangeConfiguration","method":"workspace/didChangeConfiguration"}]}}`

	t.Run("success", func(t *testing.T) {
		msgs, err := runSession(t, nil, initialize, notif("initialized", `{}`), result(1, "null"))
		assertNoError(t, err)
		assertMessages(t, []string{registerCapability}, msgs)
	})

	t.Run("error response is logged", func(t *testing.T) {
		msgs, err := runSession(t, nil, initialize, notif("initialized", `{}`), errorResult(1, -32601, "Method not found"))
		assertNoError(t, err)
		assertMessages(t, []string{
			registerCapability,
			logMessage(1, `Registering for configuration changes: jsonrpc error: code = -32601 message = "Method not found" data = <nil>`),
		}, msgs)
	})

	t.Run("client without configuration support", func(t *testing.T) {
		msgs, err := runSession(t, nil, initializeReq, notif("initialized", `{}`))
		assertNoError(t, err)
		assertMessages(t, nil, msgs)
	})
}

const missingStartTagMsg = "PlantUML diagrams should usually start with @startuml (or other @start tags)."

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	msgs, err := runSession(t, nil,
		initializeReq,
		didOpen("file:///a.puml", "plantuml", 1, "clas Foo"),
		didOpen("file:///b.puml", "plantuml", 3, "@startuml\n@startuml\n@enduml"),
		didOpen("file:///c.puml", "plantuml", 1, "@startuml\nclass Foo\n@enduml"),
	)
	assertNoError(t, err)
	assertMessages(t, []string{
		publishDiagnostics("file:///a.puml", 1, "["+
			diagnostic(0, 0, 0, 8, 2, missingStartTagMsg)+","+
			diagnostic(0, 0, 0, 4, 1, `Unrecognized keyword "clas". Did you mean "class"?`)+
			"]"),
		publishDiagnostics("file:///b.puml", 3, "["+
			diagnostic(0, 0, 2, 7, 1, "Missing @end tag. Found 2 start tags and 1 end tags.")+
			"]"),
		publishDiagnostics("file:///c.puml", 1, "[]"),
	}, msgs)
}

func TestDidChange(t *testing.T) {
	const uri = "file:///a.puml"
	open := didOpen(uri, "plantuml", 1, "@startuml\nclass Foo\n@enduml")
	openPublish := publishDiagnostics(uri, 1, "[]")
	clasDiagnostic := diagnostic(1, 0, 1, 4, 1, `Unrecognized keyword "clas". Did you mean "class"?`)

	tests := []struct {
		name    string
		changes string
		want    []string
	}{
		{
			name:    "incremental change",
			changes: `[{"range":{"start":{"line":1,"character":3},"end":{"line":1,"character":4}},"text":""}]`,
			want:    []string{publishDiagnostics(uri, 2, "["+clasDiagnostic+"]")},
		},
		{
			name:    "incremental changes are applied in order",
			changes: `[{"range":{"start":{"line":1,"character":3},"end":{"line":1,"character":4}},"text":""},{"range":{"start":{"line":1,"character":0},"end":{"line":1,"character":0}},"text":"  "}]`,
			want:    []string{publishDiagnostics(uri, 2, "[]")},
		},
		{
			name:    "full change",
			changes: `[{"text":"clas Foo"}]`,
			want: []string{publishDiagnostics(uri, 2, "["+
				diagnostic(0, 0, 0, 8, 2, missingStartTagMsg)+","+
				diagnostic(0, 0, 0, 4, 1, `Unrecognized keyword "clas". Did you mean "class"?`)+
				"]")},
		},
		{
			name:    "insert at end of document",
			changes: `[{"range":{"start":{"line":2,"character":7},"end":{"line":2,"character":7}},"text":"\n@startuml"}]`,
			want: []string{publishDiagnostics(uri, 2, "["+
				diagnostic(0, 0, 3, 9, 1, "Missing @end tag. Found 2 start tags and 1 end tags.")+
				"]")},
		},
		{
			name:    "range spanning lines",
			changes: `[{"range":{"start":{"line":0,"character":9},"end":{"line":2,"character":0}},"text":"\n"}]`,
			want:    []string{publishDiagnostics(uri, 2, "[]")},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			change := notif("textDocument/didChange", fmt.Sprintf(`{"textDocument":{"uri":%q,"version":2},"contentChanges":%s}`, uri, test.changes))
			msgs, err := runSession(t, nil, initializeReq, open, change)
			assertNoError(t, err)
			assertMessages(t, append([]string{openPublish}, test.want...), msgs)
		})
	}
}

func TestDidChangeInvalidRangeLeavesDocumentUnchanged(t *testing.T) {
	const uri = "file:///a.puml"
	invalidChange := notif("textDocument/didChange", fmt.Sprintf(
		`{"textDocument":{"uri":%q,"version":2},"contentChanges":[{"text":"clas Foo"},{"range":{"start":{"line":5,"character":0},"end":{"line":5,"character":0}},"text":"x"}]}`, uri,
	))
	msgs, err := runSession(t, nil,
		initializeReq,
		didOpen(uri, "plantuml", 1, "@startuml\n@enduml"),
		invalidChange,
		req(1, "workspace/executeCommand", fmt.Sprintf(`{"command":"plantuml.preview","arguments":[%q]}`, uri)),
	)
	assertNoError(t, err)
	if len(msgs) != 2 {
		t.Fatalf("server wrote %d messages, want 2: %v", len(msgs), msgs)
	}
	wantURL, err := preview.ImageURL("", "@startuml\n@enduml")
	if err != nil {
		t.Fatalf("ImageURL() returned error: %s", err)
	}
	gotURL := msgs[1].(map[string]any)["result"].(map[string]any)["url"]
	if gotURL != wantURL {
		t.Errorf("preview url after invalid change = %v, want %v", gotURL, wantURL)
	}
}

func TestDidChangeUnknownDocument(t *testing.T) {
	msgs, err := runSession(t, nil,
		initializeReq,
		notif("textDocument/didChange", `{"textDocument":{"uri":"file:///a.puml","version":2},"contentChanges":[{"text":""}]}`),
	)
	assertNoError(t, err)
	assertMessages(t, nil, msgs)
}

func TestDidClose(t *testing.T) {
	const uri = "file:///a.puml"
	msgs, err := runSession(t, nil,
		initializeReq,
		didOpen(uri, "plantuml", 1, "clas Foo"),
		notif("textDocument/didClose", fmt.Sprintf(`{"textDocument":{"uri":%q}}`, uri)),
		req(1, "textDocument/hover", fmt.Sprintf(`{"textDocument":{"uri":%q},"position":{"line":0,"character":0}}`, uri)),
	)
	assertNoError(t, err)
	if len(msgs) != 3 {
		t.Fatalf("server wrote %d messages, want 3: %v", len(msgs), msgs)
	}
	assertMessages(t, []string{
		notif("textDocument/publishDiagnostics", fmt.Sprintf(`{"uri":%q,"diagnostics":[]}`, uri)),
		result(1, "null"),
	}, msgs[1:])
}

func TestCompletion(t *testing.T) {
	msgs, err := runSession(t, nil,
		initializeReq,
		req(1, "textDocument/completion", `{"textDocument":{"uri":"file:///a.puml"},"position":{"line":3,"character":2}}`),
	)
	assertNoError(t, err)
	items := msgs[0].(map[string]any)["result"].([]any)

	wantLabels := []string{
		"@startuml", "@enduml", "@startmindmap", "@endmindmap", "@startgantt", "@endgantt",
		"participant", "actor", "boundary", "control", "entity", "database", "collections", "queue",
		"class", "interface", "enum", "abstract", "annotation", "package", "node", "folder", "frame", "cloud", "database",
		"autonumber", "newpage", "title", "header", "footer", "caption", "legend",
		"note left", "note right", "note top", "note bottom", "note over",
		"activate", "deactivate", "destroy", "return",
		"if", "then", "else", "endif", "while", "endwhile", "fork", "endfork", "repeat", "until", "loop",
	}
	want := make([]any, len(wantLabels))
	for i, label := range wantLabels {
		kind := 14
		if strings.HasPrefix(label, "@") {
			kind = 23
		}
		want[i] = map[string]any{"label": label, "kind": float64(kind), "data": float64(i)}
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("textDocument/completion returned unexpected items (-want +got):\n%s", diff)
	}
}

func TestCompletionItemResolve(t *testing.T) {
	tests := []struct {
		item string
		want string
	}{
		{
			item: `{"label":"@startuml","kind":23,"data":0}`,
			want: `{"label":"@startuml","kind":23,"detail":"Start Sequence/Class Diagram","documentation":"Starts a standard PlantUML diagram.","data":0}`,
		},
		{
			item: `{"label":"participant","kind":14,"data":6}`,
			want: `{"label":"participant","kind":14,"detail":"Declare Participant","documentation":"explicitly declare a participant in a sequence diagram.","data":6}`,
		},
		{
			item: `{"label":"actor","kind":14,"data":7}`,
			want: `{"label":"actor","kind":14,"data":7}`,
		},
	}
	for _, test := range tests {
		t.Run(test.item, func(t *testing.T) {
			msgs, err := runSession(t, nil, initializeReq, req(1, "completionItem/resolve", test.item))
			assertNoError(t, err)
			assertMessages(t, []string{result(1, test.want)}, msgs)
		})
	}
}

func TestHover(t *testing.T) {
	hoverParams := func(uri string) string {
		return fmt.Sprintf(`{"textDocument":{"uri":%q},"position":{"line":0,"character":3}}`, uri)
	}
	msgs, err := runSession(t, nil,
		initializeReq,
		didOpen("file:///a.puml", "plantuml", 1, "@startuml\n@enduml"),
		req(1, "textDocument/hover", hoverParams("file:///a.puml")),
		req(2, "textDocument/hover", hoverParams("file:///b.puml")),
	)
	assertNoError(t, err)
	assertMessages(t, []string{
		publishDiagnostics("file:///a.puml", 1, "[]"),
		result(1, `{"contents":{"kind":"markdown","value":"PlantUML Keyword"}}`),
		result(2, "null"),
	}, msgs)
}

func TestDidChangeConfiguration(t *testing.T) {
	msgs, err := runSession(t, nil,
		initializeReq,
		didOpen("file:///b.puml", "plantuml", 4, "@startuml\n@enduml"),
		didOpen("file:///a.puml", "plantuml", 2, "foldr Foo"),
		notif("workspace/didChangeConfiguration", `{"settings":{"plantuml":{"server":"http://localhost:8080"}}}`),
		req(1, "workspace/executeCommand", `{"command":"plantuml.preview","arguments":["file:///b.puml"]}`),
	)
	assertNoError(t, err)
	if len(msgs) != 6 {
		t.Fatalf("server wrote %d messages, want 6: %v", len(msgs), msgs)
	}
	aDiagnostics := "[" +
		diagnostic(0, 0, 0, 9, 2, missingStartTagMsg) + "," +
		diagnostic(0, 0, 0, 5, 1, `Unrecognized keyword "foldr". Did you mean "folder"?`) +
		"]"
	assertMessages(t, []string{
		logMessage(3, "Configuration changed, preview server is http://localhost:8080"),
		publishDiagnostics("file:///a.puml", 2, aDiagnostics),
		publishDiagnostics("file:///b.puml", 4, "[]"),
	}, msgs[2:5])
	url := msgs[5].(map[string]any)["result"].(map[string]any)["url"].(string)
	if !strings.HasPrefix(url, "http://localhost:8080/svg/") {
		t.Errorf("preview url = %q, want prefix %q", url, "http://localhost:8080/svg/")
	}
}

func TestDidChangeWorkspaceFolders(t *testing.T) {
	msgs, err := runSession(t, nil,
		initializeReq,
		notif("workspace/didChangeWorkspaceFolders", `{"event":{"added":[{"uri":"file:///b","name":"b"}],"removed":[]}}`),
	)
	assertNoError(t, err)
	assertMessages(t, []string{logMessage(4, "Workspace folder change event received.")}, msgs)
}

func TestExecuteCommandPreview(t *testing.T) {
	const text = "@startuml\nAlice -> Bob\n@enduml"
	tests := []struct {
		name       string
		opts       []lsp.Option
		languageID string
		wantServer string
	}{
		{name: "default server", languageID: "plantuml", wantServer: preview.DefaultServer},
		{name: "configured server", opts: []lsp.Option{lsp.WithPreviewServer("http://localhost:8080")}, languageID: "plantuml", wantServer: "http://localhost:8080"},
		{name: "not plantuml", languageID: "plaintext"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			msgs, err := runSession(t, test.opts,
				initializeReq,
				didOpen("file:///a.puml", test.languageID, 1, text),
				req(1, "workspace/executeCommand", `{"command":"plantuml.preview","arguments":["file:///a.puml"]}`),
			)
			assertNoError(t, err)

			var wantURL, wantHTML string
			if test.wantServer != "" {
				wantURL, wantHTML, err = preview.RenderDocument(test.wantServer, &preview.Document{URI: "file:///a.puml", LanguageID: test.languageID, Text: text})
			} else {
				wantURL, wantHTML, err = preview.RenderDocument("", nil)
			}
			if err != nil {
				t.Fatalf("RenderDocument() returned error: %s", err)
			}
			want := result(1, mustMarshal(t, map[string]string{"url": wantURL, "html": wantHTML}))
			assertMessages(t, []string{want}, msgs[1:])
		})
	}
}

func TestExecuteCommandErrors(t *testing.T) {
	tests := []struct {
		name   string
		params string
		want   string
	}{
		{
			name:   "unknown command",
			params: `{"command":"plantuml.export"}`,
			want:   `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"Invalid params","data":{"error":"unknown command \"plantuml.export\""}}}`,
		},
		{
			name:   "missing argument",
			params: `{"command":"plantuml.preview","arguments":[]}`,
			want:   `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"Invalid params","data":{"error":"plantuml.preview: expected 1 argument, got 0"}}}`,
		},
		{
			name:   "unknown document",
			params: `{"command":"plantuml.preview","arguments":["file:///missing.puml"]}`,
			want:   `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"Document not found","data":{"uri":"file:///missing.puml"}}}`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			msgs, err := runSession(t, nil, initializeReq, req(1, "workspace/executeCommand", test.params))
			assertNoError(t, err)
			assertMessages(t, []string{test.want}, msgs)
		})
	}
}
