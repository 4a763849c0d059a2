package domain

import "slices"

// ForbiddenSet is the minimal set of forbidden roots: sorted by Key order,
// unique, and with no root lying under another. It is never modified after
// Build, so concurrent readers need no locking.
type ForbiddenSet struct {
	roots []Key
}

// Build sorts and deduplicates keys, then drops every key already covered
// by an accepted root. The result depends only on the set of inputs, not
// their order. keys is not modified.
func Build(keys []Key) *ForbiddenSet {
	sorted := slices.Clone(keys)
	slices.SortFunc(sorted, Key.Compare)
	sorted = slices.CompactFunc(sorted, Key.Equal)

	roots := make([]Key, 0, len(sorted))
	for _, k := range sorted {
		// an ancestor of k, if accepted, is the last root before it
		if n := len(roots); n > 0 && k.IsSubdomainOf(roots[n-1]) {
			continue
		}
		roots = append(roots, k)
	}
	return &ForbiddenSet{roots: slices.Clip(roots)}
}

// BuildFromText is Build over raw domain strings.
func BuildFromText(raws []string) *ForbiddenSet {
	keys := make([]Key, len(raws))
	for i, raw := range raws {
		keys[i] = FromText(raw)
	}
	return Build(keys)
}

// IsForbidden reports whether k equals a root or is a subdomain of one.
// Only the lower bound and its predecessor need checking.
func (s *ForbiddenSet) IsForbidden(k Key) bool {
	if s == nil {
		return false
	}
	i, found := slices.BinarySearchFunc(s.roots, k, Key.Compare)
	if found {
		return true
	}
	if i < len(s.roots) && k.IsSubdomainOf(s.roots[i]) {
		return true
	}
	return i > 0 && k.IsSubdomainOf(s.roots[i-1])
}

func (s *ForbiddenSet) IsForbiddenText(raw string) bool {
	return s.IsForbidden(FromText(raw))
}

// Len returns the number of roots left after deduplication.
func (s *ForbiddenSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.roots)
}

// Roots returns the accepted roots as domain text, in Key order.
func (s *ForbiddenSet) Roots() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.roots))
	for i, k := range s.roots {
		out[i] = k.String()
	}
	return out
}
