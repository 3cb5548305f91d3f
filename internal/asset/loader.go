// Package asset loads window templates by key.
//
// Keys follow "UI/{scope}/{TypeName}" for scoped windows and "UI/{TypeName}"
// otherwise. A Handle stays valid until it is released.
package asset

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"go.uber.org/atomic"
	"gopkg.in/yaml.v3"
)

// Errors for asset operations.
var (
	ErrNotFound = errors.New("asset not found")
	ErrInvalid  = errors.New("invalid asset")
	ErrReleased = errors.New("asset handle released")
)

const (
	root = "UI"
	ext  = ".yaml"
)

// Key builds the asset key for a window type in a scope.
func Key(scope, typeName string) string {
	if scope == "" {
		return root + "/" + typeName
	}
	return root + "/" + scope + "/" + typeName
}

// Handle is a loaded template. It becomes invalid once released.
type Handle interface {
	Key() string
	Valid() bool
	Template() *Template
}

// Loader loads templates by key.
type Loader interface {
	Load(ctx context.Context, key string) (Handle, error)
	Release(h Handle)
}

type handle struct {
	key   string
	tpl   *Template
	valid *atomic.Bool
}

func (h *handle) Key() string         { return h.key }
func (h *handle) Valid() bool         { return h.valid.Load() }
func (h *handle) Template() *Template { return h.tpl }

// FSLoader reads "<key>.yaml" files from a filesystem.
type FSLoader struct {
	fsys     fs.FS
	loads    *atomic.Int64
	releases *atomic.Int64
}

var _ Loader = (*FSLoader)(nil)

// NewFSLoader creates a loader over fsys.
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{
		fsys:     fsys,
		loads:    atomic.NewInt64(0),
		releases: atomic.NewInt64(0),
	}
}

//go:embed builtin
var builtin embed.FS

// Builtin returns the templates compiled into the binary.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtin, "builtin")
	if err != nil {
		panic(err) // embedded path is fixed at compile time
	}
	return sub
}

// Load implements Loader.
func (l *FSLoader) Load(ctx context.Context, key string) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(l.fsys, key+ext)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", key, err)
	}
	tpl, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", key, err)
	}
	l.loads.Inc()
	return &handle{key: key, tpl: tpl, valid: atomic.NewBool(true)}, nil
}

// Release implements Loader. Releasing twice is harmless.
func (l *FSLoader) Release(h Handle) {
	hh, ok := h.(*handle)
	if !ok || hh == nil {
		return
	}
	if hh.valid.CompareAndSwap(true, false) {
		l.releases.Inc()
	}
}

// Loads returns the number of successful loads.
func (l *FSLoader) Loads() int64 { return l.loads.Load() }

// Releases returns the number of released handles.
func (l *FSLoader) Releases() int64 { return l.releases.Load() }

// Decode parses and validates a template. Unknown fields are rejected.
func Decode(data []byte) (*Template, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var tpl Template
	if err := dec.Decode(&tpl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := tpl.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &tpl, nil
}

// Resolve returns the template behind h, or ErrReleased once h is released.
func Resolve(h Handle) (*Template, error) {
	if h == nil || !h.Valid() {
		return nil, ErrReleased
	}
	return h.Template(), nil
}

// Walk lists every template key in fsys in lexical order.
func Walk(fsys fs.FS) ([]string, error) {
	var keys []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ext {
			return nil
		}
		keys = append(keys, strings.TrimSuffix(p, ext))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
