// Package preview renders PlantUML documents as HTML pages which display the diagram rendered by a PlantUML server.
package preview

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/marcuscaisey/puml/puml/encoding"
)

// DefaultServer is the PlantUML server which diagrams are rendered by if no other server is configured.
const DefaultServer = "http://www.plantuml.com/plantuml"

// LanguageID is the language identifier of PlantUML documents.
const LanguageID = "plantuml"

// PlaceholderHTML is shown in place of a diagram when there's no PlantUML document to render.
const PlaceholderHTML = "<h1>Not a PlantUML file</h1>"

// Document is a text document which may be previewed.
type Document struct {
	URI        string
	LanguageID string
	Text       string
}

// ImageURL returns the URL of the SVG rendering of text by server. If server is empty, [DefaultServer] is used.
func ImageURL(server, text string) (string, error) {
	if server == "" {
		server = DefaultServer
	}
	encoded, err := encoding.Encode(text)
	if err != nil {
		return "", fmt.Errorf("building image URL: %s", err)
	}
	return strings.TrimSuffix(server, "/") + "/svg/" + encoded, nil
}

//go:embed page.html.tmpl
var pageTemplateText string

var pageTemplate = template.Must(template.New("page").Parse(pageTemplateText))

type pageData struct {
	ImageURL  string
	EventsURL string
}

type renderConfig struct {
	eventsURL string
}

// RenderOption can be passed to [Render] and [RenderDocument] to configure the rendered page.
type RenderOption func(*renderConfig)

// WithLiveReload adds a script to the page which reloads it whenever a server-sent event is received from eventsURL.
func WithLiveReload(eventsURL string) RenderOption {
	return func(c *renderConfig) {
		c.eventsURL = eventsURL
	}
}

// Render writes a page to w which displays the image at imageURL.
func Render(w io.Writer, imageURL string, opts ...RenderOption) error {
	cfg := &renderConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := pageTemplate.Execute(w, pageData{ImageURL: imageURL, EventsURL: cfg.eventsURL}); err != nil {
		return fmt.Errorf("rendering preview: %s", err)
	}
	return nil
}

// RenderPlaceholder writes [PlaceholderHTML] to w.
func RenderPlaceholder(w io.Writer) error {
	if _, err := io.WriteString(w, PlaceholderHTML); err != nil {
		return fmt.Errorf("rendering preview placeholder: %s", err)
	}
	return nil
}

// RenderDocument returns the image URL and page of a preview of doc rendered by server. If doc is nil or isn't a
// PlantUML document, the URL is empty and the page is [PlaceholderHTML].
func RenderDocument(server string, doc *Document, opts ...RenderOption) (url string, html string, err error) {
	var b bytes.Buffer
	if doc == nil || doc.LanguageID != LanguageID {
		if err := RenderPlaceholder(&b); err != nil {
			return "", "", err
		}
		return "", b.String(), nil
	}
	url, err = ImageURL(server, doc.Text)
	if err != nil {
		return "", "", err
	}
	if err := Render(&b, url, opts...); err != nil {
		return "", "", err
	}
	return url, b.String(), nil
}
