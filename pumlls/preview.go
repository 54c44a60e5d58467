package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/r3labs/sse/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/marcuscaisey/puml/puml/preview"
)

const (
	eventsPath     = "/events"
	previewStream  = "preview"
	reloadDebounce = 100 * time.Millisecond
	shutdownGrace  = 5 * time.Second
)

var plantUMLExtensions = []string{".puml", ".plantuml", ".pu", ".iuml", ".wsd"}

func (a *app) newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <path>",
		Short: "Serve a live preview of a PlantUML document",
		Long: `Serve a live preview of a PlantUML document over HTTP.

The page reloads whenever the document is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runPreview(ctx, args[0], cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("addr", "localhost:8123", "address to serve the preview on")
	_ = a.v.BindPFlag("preview.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *app) runPreview(ctx context.Context, path string, stdout io.Writer) error {
	doc, err := readPreviewDocument(path)
	if err != nil {
		return err
	}

	surface := newHTTPSurface()
	panel := preview.NewPanel(a.cfg.Server, func(func()) (preview.Surface, error) {
		return surface, nil
	}, preview.WithLiveReload(eventsPath+"?stream="+previewStream))
	if err := panel.ActiveChanged(doc); err != nil {
		return err
	}
	if err := panel.Show(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watching %s: %s", path, err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %s", path, err)
	}

	httpServer := &http.Server{
		Addr:    a.cfg.Preview.Addr,
		Handler: surface.handler(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fmt.Fprintf(stdout, "Serving preview of %s at http://%s\n", path, a.cfg.Preview.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving preview: %s", err)
		}
		return nil
	})
	g.Go(func() error {
		return watchDocument(ctx, watcher, path, func(doc *preview.Document) {
			if err := panel.TextChanged(doc); err != nil {
				slog.Error("Updating preview", "path", path, "error", err.Error())
			}
		})
	})
	g.Go(func() error {
		<-ctx.Done()
		if err := panel.Dispose(); err != nil {
			slog.Error("Closing preview", "error", err.Error())
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// readPreviewDocument reads the document at path. Its language is determined by its extension.
func readPreviewDocument(path string) (*preview.Document, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	languageID := "plaintext"
	ext := strings.ToLower(filepath.Ext(path))
	for _, plantUMLExt := range plantUMLExtensions {
		if ext == plantUMLExt {
			languageID = preview.LanguageID
			break
		}
	}
	return &preview.Document{
		URI:        "file://" + filepath.ToSlash(absPath),
		LanguageID: languageID,
		Text:       string(text),
	}, nil
}

// watchDocument calls onChange with the new contents of the document at path whenever it's written, until ctx is done.
// watcher must be watching the directory containing path. Bursts of events are coalesced into a single call.
func watchDocument(ctx context.Context, watcher *fsnotify.Watcher, path string, onChange func(*preview.Document)) error {
	path = filepath.Clean(path)

	var timerMu sync.Mutex
	var timer *time.Timer
	defer func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}()
	reload := func() {
		doc, err := readPreviewDocument(path)
		if err != nil {
			slog.Warn("Reading document", "path", path, "error", err.Error())
			return
		}
		slog.Debug("Document changed", "path", path)
		onChange(doc)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !(event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create)) {
				continue
			}
			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, reload)
			timerMu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", "error", err.Error())

		case <-ctx.Done():
			return nil
		}
	}
}

// httpSurface is a [preview.Surface] which serves the preview page over HTTP. Connected pages are told to reload
// through server-sent events whenever the page changes.
type httpSurface struct {
	events *sse.Server

	mu   sync.Mutex
	html string
}

func newHTTPSurface() *httpSurface {
	events := sse.New()
	events.AutoReplay = false
	events.CreateStream(previewStream)
	return &httpSurface{events: events}
}

func (s *httpSurface) SetHTML(html string) error {
	s.mu.Lock()
	s.html = html
	s.mu.Unlock()
	s.events.Publish(previewStream, &sse.Event{Data: []byte("reload")})
	return nil
}

func (s *httpSurface) Reveal() error {
	return nil
}

// Close disconnects all pages which are listening for reloads.
func (s *httpSurface) Close() error {
	s.events.Close()
	return nil
}

func (s *httpSurface) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(eventsPath, s.events)
	mux.HandleFunc("/", s.servePage)
	return mux
}

func (s *httpSurface) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.mu.Lock()
	html := s.html
	s.mu.Unlock()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.WriteString(w, html)
}
