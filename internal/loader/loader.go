// =============================================================================
// Ledger Scanner - Ledger Loader
// =============================================================================
//
// This module picks the reader for a ledger file by its extension. The
// registry is built once at startup from the configuration; the scanners
// never see it and only receive the rows it loads.
//
// SUPPORTED FORMATS:
//   .csv         - internal/csvparser
//   .xlsx, .xlsm - internal/xlsxparser
//
// =============================================================================

package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ginjaninja78/ledger-scanner/internal/config"
	"github.com/ginjaninja78/ledger-scanner/internal/csvparser"
	"github.com/ginjaninja78/ledger-scanner/internal/ledger"
	"github.com/ginjaninja78/ledger-scanner/internal/xlsxparser"
)

// ErrUnsupportedFormat is returned for files no reader handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Reader reads one ledger file format.
type Reader interface {
	Name() string
	Extensions() []string
	Read(path string) (ledger.Ledger, error)
}

// Registry maps lower-case file extensions to readers.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader for each of its extensions. Panics on a duplicate
// extension.
func (r *Registry) Register(reader Reader) {
	for _, ext := range reader.Extensions() {
		key := strings.ToLower(ext)
		if existing, ok := r.readers[key]; ok {
			panic(fmt.Sprintf("duplicate reader for %s: %s and %s", key, existing.Name(), reader.Name()))
		}
		r.readers[key] = reader
	}
}

// Get returns the reader for an extension (with the leading dot), or nil.
func (r *Registry) Get(ext string) Reader {
	return r.readers[strings.ToLower(ext)]
}

// Supports reports whether a reader is registered for the file's extension.
func (r *Registry) Supports(path string) bool {
	return r.Get(filepath.Ext(path)) != nil
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.readers))
	for ext := range r.readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load reads the ledger at path with the reader registered for its
// extension.
//
// RETURNS:
//   - The ledger rows.
//   - ErrUnsupportedFormat (wrapped, naming the extension) when no reader
//     matches, or the reader's error wrapped as "could not read the file".
func (r *Registry) Load(path string) (ledger.Ledger, error) {
	ext := filepath.Ext(path)
	reader := r.Get(ext)
	if reader == nil {
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnsupportedFormat, strings.ToLower(ext), strings.Join(r.Extensions(), ", "))
	}

	rows, err := reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the file: %w", err)
	}
	return rows, nil
}

// DefaultRegistry returns a registry with the built-in readers configured
// from cfg.
func DefaultRegistry(cfg *config.Config) *Registry {
	r := NewRegistry()
	r.Register(csvparser.NewReader(cfg.CSV))
	r.Register(xlsxparser.NewReader(cfg.Sheet))
	return r
}
