package crs

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/geoscene/internal/geojson"
)

var (
	ErrInvalidCRS          = eris.New("crs: invalid crs member")
	ErrUnknownCRSName      = eris.New("crs: unknown crs name")
	ErrUnresolvableCRSLink = eris.New("crs: no resolver for crs link")
	ErrUnknownCRSType      = eris.New("crs: unknown crs type")
)

// Resolver produces a transform for a link-typed CRS. Resolvers may block on
// I/O (fetching a definition from the link target); the context bounds that
// work. Name-typed CRSs resolve synchronously and never go through a Resolver.
type Resolver func(ctx context.Context, props geojson.CRSProperties) (Transform, error)

// Registry maps CRS names and link descriptors to transforms. Entries are
// expected to be registered before loads are issued against the registry;
// lookups and registrations are not synchronized against each other.
type Registry struct {
	names     map[string]Transform
	linkHrefs map[string]Resolver
	linkTypes map[string]Resolver
}

// NewRegistry creates a registry pre-seeded with the WGS84/CRS84 names every
// GeoJSON consumer must understand.
func NewRegistry() *Registry {
	return &Registry{
		names: map[string]Transform{
			"urn:ogc:def:crs:OGC:1.3:CRS84": WGS84Degrees,
			"urn:ogc:def:crs:EPSG::4326":    WGS84Degrees,
			"EPSG:4326":                     WGS84Degrees,
		},
		linkHrefs: make(map[string]Resolver),
		linkTypes: make(map[string]Resolver),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry. Libraries should accept a
// *Registry and let the application decide; Default exists for the top level.
func Default() *Registry {
	return defaultRegistry
}

// RegisterName maps a CRS name to a transform.
func (r *Registry) RegisterName(name string, t Transform) {
	r.names[name] = t
}

// RegisterLinkHref maps a CRS link href to a resolver.
func (r *Registry) RegisterLinkHref(href string, res Resolver) {
	r.linkHrefs[href] = res
}

// RegisterLinkType maps a CRS link type to a resolver, consulted only when no
// href-keyed resolver matches.
func (r *Registry) RegisterLinkType(linkType string, res Resolver) {
	r.linkTypes[linkType] = res
}

// Resolve produces the transform for a document's crs member. A nil crs means
// the member was absent and yields the default WGS84 degrees transform.
func (r *Registry) Resolve(ctx context.Context, c *geojson.CRS) (Transform, error) {
	if c == nil {
		return WGS84Degrees, nil
	}
	if c.Null {
		return nil, eris.Wrap(ErrInvalidCRS, "crs is null")
	}
	if c.Properties == nil {
		return nil, eris.Wrap(ErrInvalidCRS, "crs has no properties")
	}

	switch c.Type {
	case "name":
		t, ok := r.names[c.Properties.Name]
		if !ok {
			return nil, eris.Wrapf(ErrUnknownCRSName, "name %q", c.Properties.Name)
		}
		return t, nil

	case "link":
		res, ok := r.linkHrefs[c.Properties.Href]
		if !ok {
			res, ok = r.linkTypes[c.Properties.Type]
		}
		if !ok {
			return nil, eris.Wrapf(ErrUnresolvableCRSLink, "href %q type %q",
				c.Properties.Href, c.Properties.Type)
		}
		return res(ctx, *c.Properties)

	default:
		return nil, eris.Wrapf(ErrUnknownCRSType, "type %q", c.Type)
	}
}
