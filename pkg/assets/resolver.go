package assets

// Resolver turns an asset name into the URL pages should reference.
type Resolver interface {
	Asset(source string) string
}

type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver resolves names through m and prepends prefix.
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{manifest: m, prefix: prefix}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(source)
}

type passthrough struct {
	prefix string
}

// NewPassthroughResolver prepends prefix without fingerprinting, so
// development and production URLs differ only in the file name.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: prefix}
}

func (p *passthrough) Asset(source string) string {
	return p.prefix + source
}
