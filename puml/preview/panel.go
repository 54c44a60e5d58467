package preview

import (
	"fmt"
	"sync"
)

// Surface displays a rendered preview.
type Surface interface {
	// SetHTML replaces the page displayed by the surface.
	SetHTML(html string) error
	// Reveal brings the surface into view.
	Reveal() error
	// Close closes the surface.
	Close() error
}

// SurfaceFactory creates a new [Surface]. onClose must be called if the surface is closed by anything other than
// [Panel.Dispose]. It must not be called from within the factory or a method of the surface.
type SurfaceFactory func(onClose func()) (Surface, error)

// Panel keeps a single preview surface up to date with the active document. The surface is created the first time
// that the panel is shown and is recreated the next time that it's shown after being closed.
//
// A Panel is safe for concurrent use.
type Panel struct {
	server     string
	newSurface SurfaceFactory
	opts       []RenderOption

	mu      sync.Mutex
	surface Surface
	active  *Document
}

// NewPanel returns a [*Panel] which renders previews with server and creates surfaces with newSurface. opts are passed
// to [RenderDocument] when rendering the active document.
func NewPanel(server string, newSurface SurfaceFactory, opts ...RenderOption) *Panel {
	return &Panel{
		server:     server,
		newSurface: newSurface,
		opts:       opts,
	}
}

// Show creates the surface if it doesn't exist or reveals it if it does, and then renders the active document to it.
func (p *Panel) Show() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.surface != nil {
		if err := p.surface.Reveal(); err != nil {
			return fmt.Errorf("showing preview: %s", err)
		}
	} else {
		var surface Surface
		surface, err := p.newSurface(func() { p.surfaceClosed(surface) })
		if err != nil {
			return fmt.Errorf("showing preview: creating surface: %s", err)
		}
		p.surface = surface
	}
	return p.update()
}

// TextChanged updates the preview if doc is the active document. Changes to other documents are ignored.
func (p *Panel) TextChanged(doc *Document) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil || doc.URI != p.active.URI {
		return nil
	}
	p.active = doc
	if p.surface == nil {
		return nil
	}
	return p.update()
}

// ActiveChanged makes doc the active document and updates the preview. doc is nil when there's no active document, in
// which case the preview is left as it is.
func (p *Panel) ActiveChanged(doc *Document) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = doc
	if p.surface == nil || doc == nil {
		return nil
	}
	return p.update()
}

// Visible reports whether the panel currently has a surface.
func (p *Panel) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.surface != nil
}

// Dispose closes the surface. The next call to [Panel.Show] creates a new one.
func (p *Panel) Dispose() error {
	p.mu.Lock()
	surface := p.surface
	p.surface = nil
	p.mu.Unlock()
	if surface == nil {
		return nil
	}
	if err := surface.Close(); err != nil {
		return fmt.Errorf("disposing preview: %s", err)
	}
	return nil
}

func (p *Panel) surfaceClosed(surface Surface) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.surface == surface {
		p.surface = nil
	}
}

func (p *Panel) update() error {
	_, html, err := RenderDocument(p.server, p.active, p.opts...)
	if err != nil {
		return fmt.Errorf("updating preview: %s", err)
	}
	if err := p.surface.SetHTML(html); err != nil {
		return fmt.Errorf("updating preview: %s", err)
	}
	return nil
}
