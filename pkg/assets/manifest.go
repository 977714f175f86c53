// Package assets maps static asset names to content-fingerprinted names.
//
// A Manifest is built once at startup, either by hashing the files of an
// fs.FS or by loading a manifest.json produced elsewhere:
//
//	{
//	  "laughs.js": "laughs.3f2a9c1d0b7e6a54.js"
//	}
//
// Pages reference assets through a Resolver so the URL changes whenever
// the content does, and the files can be cached as immutable:
//
//	m, _ := assets.Fingerprint(site.Static)
//	res := assets.NewResolver(m, "/static/")
//	res.Asset("laughs.js") // "/static/laughs.3f2a9c1d0b7e6a54.js"
//	srv.Static("/static", m.FS(site.Static))
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
)

// Manifest maps source asset paths to fingerprinted paths. It is safe for
// concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
	sources map[string]string
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]string),
		sources: make(map[string]string),
	}
}

// Load reads a manifest.json file.
func Load(file string) (*Manifest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var entries map[string]string
	if err := sonic.ConfigStd.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}

	m := NewManifest()
	for source, resolved := range entries {
		m.Set(source, resolved)
	}
	return m, nil
}

// Fingerprint hashes every regular file in fsys and records it under a
// name carrying the hash before the extension.
func Fingerprint(fsys fs.FS) (*Manifest, error) {
	m := NewManifest()
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		m.Set(name, fingerprintName(name, xxhash.Sum64(data)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// fingerprintName inserts sum into name: "js/app.js" -> "js/app.<sum>.js".
func fingerprintName(name string, sum uint64) string {
	dir, base := path.Split(name)
	ext := path.Ext(base)
	return fmt.Sprintf("%s%s.%016x%s", dir, strings.TrimSuffix(base, ext), sum, ext)
}

// Resolve returns the fingerprinted path of source, or source itself when
// the manifest has no entry for it.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Source returns the source path a fingerprinted path was derived from.
func (m *Manifest) Source(resolved string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	source, ok := m.sources[resolved]
	return source, ok
}

// Has reports whether the manifest contains source.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[source]
	return ok
}

// Set adds or updates an entry.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.entries[source]; ok {
		delete(m.sources, old)
	}
	m.entries[source] = resolved
	m.sources[resolved] = source
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// All returns a copy of the entries.
func (m *Manifest) All() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// JSON encodes the entries in manifest.json form.
func (m *Manifest) JSON() ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(m.All(), "", "  ")
}

// FS returns a file system serving the files of fsys under their
// fingerprinted names. Names without an entry are not found.
func (m *Manifest) FS(fsys fs.FS) fs.FS {
	return &fingerprintFS{manifest: m, fsys: fsys}
}

type fingerprintFS struct {
	manifest *Manifest
	fsys     fs.FS
}

func (f *fingerprintFS) Open(name string) (fs.File, error) {
	source, ok := f.manifest.Source(name)
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return f.fsys.Open(source)
}
