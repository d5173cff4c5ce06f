// Package handlers maps ordered mappings to and from serialized formats.
// Each format registers one Handler holding its codecs (backing libraries)
// in priority order; the explicit registry replaces any import-time library
// probing, so a missing format surfaces as ErrNoHandler at the call site.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/declconf/declconf/internal/diag"
	"github.com/declconf/declconf/mapping"
)

var (
	// ErrNoHandler means the format has no registered Handler.
	ErrNoHandler = errors.New("handlers: no handler registered for format")
	// ErrNoCodec means Prefer named a codec the Handler does not carry.
	ErrNoCodec = errors.New("handlers: no such codec for format")
	// ErrINIArrayOfMaps means an array of mappings was dumped to INI,
	// which has no representation for it; use a hierarchical format.
	ErrINIArrayOfMaps = errors.New("handlers: ini cannot represent an array of mappings")
	// ErrXMLUntypedLeaf means an XML leaf element has no type attribute,
	// so its value cannot be restored faithfully.
	ErrXMLUntypedLeaf = errors.New("handlers: xml element has no type attribute")
)

// Codec is one backing-library binding for a format.
type Codec struct {
	Name      string
	Marshal   func(m *mapping.Map, o Options) ([]byte, error)
	Unmarshal func(data []byte, o Options) (*mapping.Map, error)
}

// Handler is the registered entry for one format.
type Handler struct {
	Format string
	// Codecs in priority order; the first is the default.
	Codecs []Codec
	// Supported names the option keys this format honors. Options set
	// outside this set are ignored with a diagnostic warning.
	Supported map[string]bool
}

// Options carries the per-call knobs a format may honor.
type Options struct {
	// Prefer selects a codec by name instead of the handler default.
	Prefer string
	// Indent is the indentation unit for text formats ("" = compact).
	Indent string
	// SortKeys emits object keys sorted instead of in mapping order.
	SortKeys bool
	// Pretty toggles indented output for formats with a single toggle.
	Pretty bool
	// Root is the XML root element name.
	Root string
	// RootSection is the INI top-level section name.
	RootSection string

	applied []string
}

// Option applies one knob to Options.
type Option func(*Options)

// Prefer selects the named codec of the format.
func Prefer(name string) Option {
	return func(o *Options) { o.Prefer = name; o.applied = append(o.applied, "prefer") }
}

// Indent sets the indentation unit for text output.
func Indent(unit string) Option {
	return func(o *Options) { o.Indent = unit; o.applied = append(o.applied, "indent") }
}

// SortKeys emits object keys in sorted order.
func SortKeys() Option {
	return func(o *Options) { o.SortKeys = true; o.applied = append(o.applied, "sort-keys") }
}

// Pretty indents output for formats with a single pretty toggle.
func Pretty() Option {
	return func(o *Options) { o.Pretty = true; o.applied = append(o.applied, "pretty") }
}

// Root sets the XML root element name.
func Root(name string) Option {
	return func(o *Options) { o.Root = name; o.applied = append(o.applied, "root") }
}

// RootSection sets the INI top-level section name.
func RootSection(name string) Option {
	return func(o *Options) { o.RootSection = name; o.applied = append(o.applied, "root-section") }
}

var (
	mu       sync.RWMutex
	registry = map[string]*Handler{}
)

// Register installs (or replaces) the Handler for its format.
func Register(h *Handler) {
	mu.Lock()
	defer mu.Unlock()
	registry[h.Format] = h
}

// Lookup returns the Handler for a format.
func Lookup(format string) (*Handler, error) {
	mu.RLock()
	defer mu.RUnlock()
	h, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoHandler, format)
	}
	return h, nil
}

// Formats lists the registered format names, sorted.
func Formats() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (h *Handler) resolve(opts []Option) (Codec, Options, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	for _, name := range o.applied {
		if name == "prefer" {
			continue
		}
		if !h.Supported[name] {
			diag.Warn("format does not support option, ignoring",
				zap.String("format", h.Format), zap.String("option", name))
		}
	}
	if o.Prefer == "" {
		if len(h.Codecs) == 0 {
			return Codec{}, o, fmt.Errorf("%w: %q", ErrNoHandler, h.Format)
		}
		return h.Codecs[0], o, nil
	}
	for _, c := range h.Codecs {
		if c.Name == o.Prefer {
			return c, o, nil
		}
	}
	return Codec{}, o, fmt.Errorf("%w: %s/%s", ErrNoCodec, h.Format, o.Prefer)
}

// Marshal serializes the mapping with the selected codec.
func (h *Handler) Marshal(m *mapping.Map, opts ...Option) ([]byte, error) {
	c, o, err := h.resolve(opts)
	if err != nil {
		return nil, err
	}
	return c.Marshal(m, o)
}

// Unmarshal parses data into an ordered mapping with the selected codec.
func (h *Handler) Unmarshal(data []byte, opts ...Option) (*mapping.Map, error) {
	c, o, err := h.resolve(opts)
	if err != nil {
		return nil, err
	}
	return c.Unmarshal(data, o)
}

// Write serializes to a stream. Streams are plain synchronous writers.
func (h *Handler) Write(w io.Writer, m *mapping.Map, opts ...Option) error {
	data, err := h.Marshal(m, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Read parses a whole stream into an ordered mapping.
func (h *Handler) Read(r io.Reader, opts ...Option) (*mapping.Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return h.Unmarshal(data, opts...)
}
