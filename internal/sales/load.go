package sales

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/salesreport/internal/model"
)

// Parser converts a sales export into records.
type Parser interface {
	Parse(r io.Reader) ([]model.Sale, error)
	Format() string
}

// Registry holds parsers keyed by file extension.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForPath returns the parser matching the file extension of path, or nil.
func (r *Registry) ForPath(path string) Parser {
	return r.Get(strings.TrimPrefix(filepath.Ext(path), "."))
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&XLSXParser{})
	return r
}

// Load reads the sales file at path into a Table. Every failure is a
// *LoadError carrying the path.
func Load(path string) (*Table, error) {
	return DefaultRegistry().Load(path)
}

// Load reads the file at path with the parser registered for its extension.
func (r *Registry) Load(path string) (*Table, error) {
	p := r.ForPath(path)
	if p == nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("unsupported file type %q", filepath.Ext(path))}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	rows, err := p.Parse(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return NewTable(rows), nil
}
