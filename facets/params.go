package facets

import "net/url"

// Params is a string-keyed, multi-valued mapping representing URL query
// parameters. Filters treat an inbound Params as a read-only snapshot and
// produce fresh copies when building links.
type Params map[string][]string

// ParseQuery parses a URL-encoded query string into Params
func ParseQuery(query string) (Params, error) {
	vals, err := url.ParseQuery(query)
	if err != nil {
		return nil, err
	}
	return Params(vals), nil
}

// Copy returns a deep copy that can be mutated independently
func (p Params) Copy() Params {
	out := make(Params, len(p))
	for k, vs := range p {
		cp := make([]string, len(vs))
		copy(cp, vs)
		out[k] = cp
	}
	return out
}

// GetList returns all values for a key, or nil
func (p Params) GetList(key string) []string {
	return p[key]
}

// SetList replaces all values for a key
func (p Params) SetList(key string, values []string) {
	p[key] = values
}

// Set replaces a key with a single value
func (p Params) Set(key, value string) {
	p[key] = []string{value}
}

// Del removes a key
func (p Params) Del(key string) {
	delete(p, key)
}

// Has reports whether a key is present
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Encode returns the URL-encoded query string, with keys in sorted order
// so that generated links are deterministic.
func (p Params) Encode() string {
	return url.Values(p).Encode()
}
