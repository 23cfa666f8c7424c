// Package filetype recognizes what kind of file a buffer holds and maps its
// structures. File types are registered explicitly with a Registry.
package filetype

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bindecl/data"
	"github.com/bearlytools/bindecl/errors"
)

// FileType describes a kind of file.
type FileType struct {
	// Name identifies the file type in a Registry.
	Name string
	// Description is a human readable description.
	Description string
	// Extensions are file name extensions, without the dot, of this type.
	Extensions []string
	// Check reports if the buffer content is of this type. It may be nil.
	Check func(d *data.Data) bool
	// Setup maps the structures of the file in d.
	Setup func(ctx context.Context, d *data.Data) error
}

// Match is a file type recognized for a buffer.
type Match struct {
	Type *FileType
	// Reason says how the type was recognized.
	Reason string
}

// Registry holds file types by name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*FileType
	order []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: map[string]*FileType{}}
}

// Register adds ft. Names must be unique.
func (r *Registry) Register(ft FileType) error {
	if ft.Name == "" {
		return fmt.Errorf("file type must have a name")
	}
	if ft.Setup == nil {
		return fmt.Errorf("file type %q has no Setup", ft.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[ft.Name]; ok {
		return fmt.Errorf("file type %q registered twice", ft.Name)
	}
	ft.Extensions = slices.Clone(ft.Extensions)
	r.types[ft.Name] = &ft
	r.order = append(r.order, ft.Name)
	return nil
}

// Get returns the file type called name.
func (r *Registry) Get(name string) (*FileType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ft, ok := r.types[name]
	return ft, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

// Detect returns the file types d may be, in registration order. A type matches by
// the extension of d.Name() or by its Check function, and may match both ways.
func (r *Registry) Detect(d *data.Data) []Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Match
	for _, name := range r.order {
		ft := r.types[name]
		for _, ext := range ft.Extensions {
			if strings.HasSuffix(d.Name(), "."+ext) {
				out = append(out, Match{Type: ft, Reason: fmt.Sprintf("extension %s recognized", ext)})
				break
			}
		}
		if ft.Check != nil && ft.Check(d) {
			out = append(out, Match{Type: ft, Reason: "file content recognized"})
		}
	}
	return out
}

// Setup runs the Setup of the file type called name on d. Errors are reported with
// the Type of the engine error that caused them.
func (r *Registry) Setup(ctx context.Context, d *data.Data, name string) error {
	ft, ok := r.Get(name)
	if !ok {
		return errors.E(ctx, errors.CatUser, errors.TypeParameter, fmt.Errorf("unknown file type %q", name))
	}
	if err := ft.Setup(ctx, d); err != nil {
		return errors.E(ctx, errors.CatUser, errors.TypeOf(err), fmt.Errorf("file type %s: %w", name, err))
	}
	return nil
}

// Auto detects the type of d and runs its Setup. It fails unless exactly one file
// type is recognized.
func (r *Registry) Auto(ctx context.Context, d *data.Data) (*FileType, error) {
	var found []*FileType
	for _, m := range r.Detect(d) {
		if !slices.Contains(found, m.Type) {
			found = append(found, m.Type)
		}
	}
	switch len(found) {
	case 0:
		return nil, errors.E(ctx, errors.CatUser, errors.TypeParameter, fmt.Errorf("no file type recognized for %q", d.Name()))
	case 1:
	default:
		names := make([]string, 0, len(found))
		for _, ft := range found {
			names = append(names, ft.Name)
		}
		return nil, errors.E(ctx, errors.CatUser, errors.TypeParameter, fmt.Errorf("%q may be any of %s", d.Name(), strings.Join(names, ", ")))
	}
	if err := r.Setup(ctx, d, found[0].Name); err != nil {
		return nil, err
	}
	return found[0], nil
}
