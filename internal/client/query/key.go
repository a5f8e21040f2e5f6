package query

import "strings"

// Key is a composite identifier selecting a cached result set: a resource
// name plus the parameters that scope the data, e.g. "orders/ana@example.com".
// Keys sharing a resource segment can be invalidated together by prefix.
type Key string

// NewKey builds a Key from a resource name and its scoping parameters.
func NewKey(resource string, params ...string) Key {
	if len(params) == 0 {
		return Key(resource)
	}
	return Key(resource + "/" + strings.Join(params, "/"))
}

// HasPrefix reports whether the key falls under the given resource prefix.
func (k Key) HasPrefix(prefix string) bool {
	return strings.HasPrefix(string(k), prefix)
}
