// Package web renders the site's pages from HTML templates.
//
// Templates are addressed by name without extension, e.g. "pages/learn" or "robots". An HTML template is parsed
// together with every file in layouts/ and rendered through the "layout" template, so a page only defines
// "content" (and optionally "scripts", emitted at the end of <body>). A ".txt" template is rendered on its own with text/template.
//
// The templates ship embedded in the binary. A directory on disk can be used instead, and in dev mode templates
// are parsed again on every render so edits show up without a restart.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/charmbracelet/log"
)

//go:embed templates
var embedded embed.FS

// ErrTemplateNotFound is returned when rendering an unregistered template name.
var ErrTemplateNotFound = errors.New("template not found")

const layoutDir = "layouts"

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// Options configures a [Renderer].
type Options struct {
	Dir    string // templates directory; empty uses the embedded templates
	Dev    bool   // parse templates again on every render
	Logger *log.Logger
}

// Renderer executes named templates.
type Renderer struct {
	fsys   fs.FS
	dev    bool
	logger *log.Logger

	mu    sync.RWMutex
	sets  map[string]executor
	files map[string]string // name -> file path
}

// NewRenderer parses every template up front so a broken template fails at startup.
func NewRenderer(opts Options) (*Renderer, error) {
	var fsys fs.FS
	if opts.Dir != "" {
		if _, err := os.Stat(opts.Dir); err != nil {
			return nil, fmt.Errorf("templates directory: %w", err)
		}
		fsys = os.DirFS(opts.Dir)
	} else {
		sub, err := fs.Sub(embedded, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := &Renderer{fsys: fsys, dev: opts.Dev, logger: logger}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Names returns the registered template names in sorted order.
func (r *Renderer) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.files))
	for name := range r.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render executes the named template into w.
//
// Output is buffered so nothing is written to w when execution fails.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	if r.dev {
		if err := r.load(); err != nil {
			return err
		}
	}

	r.mu.RLock()
	set, ok := r.sets[name]
	file := r.files[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	entry := "layout"
	if strings.HasSuffix(file, ".txt") {
		entry = path.Base(file)
	}

	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, entry, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	_, err := buf.WriteTo(w)
	return err
}

// RenderString executes the named template and returns the output.
func (r *Renderer) RenderString(name string, data any) (string, error) {
	var sb strings.Builder
	if err := r.Render(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *Renderer) load() error {
	layouts, err := fs.Glob(r.fsys, layoutDir+"/*.html")
	if err != nil {
		return err
	}

	sets := map[string]executor{}
	files := map[string]string{}

	err = fs.WalkDir(r.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == layoutDir {
				return fs.SkipDir
			}
			return nil
		}

		ext := path.Ext(p)
		name := strings.TrimSuffix(p, ext)

		switch ext {
		case ".html":
			t := htmltemplate.New(name)
			if len(layouts) > 0 {
				if t, err = t.ParseFS(r.fsys, layouts...); err != nil {
					return fmt.Errorf("failed to parse layouts for %s: %w", name, err)
				}
			}
			if t, err = t.ParseFS(r.fsys, p); err != nil {
				return fmt.Errorf("failed to parse %s: %w", p, err)
			}
			sets[name] = t
		case ".txt":
			t, err := texttemplate.ParseFS(r.fsys, p)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", p, err)
			}
			sets[name] = t
		default:
			return nil
		}

		files[name] = p
		return nil
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.sets, r.files = sets, files
	r.mu.Unlock()

	r.logger.Debug("templates loaded", "count", len(sets))
	return nil
}
