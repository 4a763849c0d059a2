package domain

import "cmp"

const labelSep = '.'

// Key is a domain name with its bytes reversed, so "math.gdz.ru" is held as
// "ur.zdg.htam". A parent domain is then a prefix of every subdomain.
type Key struct {
	rev string
}

// FromText builds a Key from raw domain text. Nothing is validated: empty
// strings, stray dots and mixed case are kept exactly as given.
func FromText(raw string) Key {
	return Key{rev: reverse(raw)}
}

func (k Key) String() string {
	return reverse(k.rev)
}

func (k Key) Equal(other Key) bool {
	return k.rev == other.rev
}

// Compare orders keys by their reversed text, except that the label
// separator ranks below every other byte. This keeps a domain directly
// before all of its subdomains even when a sibling label contains a byte
// such as '-' that sorts below '.'.
func (k Key) Compare(other Key) int {
	a, b := k.rev, other.rev
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return cmp.Compare(rank(a[i]), rank(b[i]))
		}
	}
	return cmp.Compare(len(a), len(b))
}

// IsSubdomainOf reports whether k is parent itself or lies under it.
func (k Key) IsSubdomainOf(parent Key) bool {
	n := len(parent.rev)
	if len(k.rev) < n {
		return false
	}
	if k.rev[:n] != parent.rev {
		return false
	}
	return len(k.rev) == n || k.rev[n] == labelSep
}

func rank(c byte) int {
	if c == labelSep {
		return -1
	}
	return int(c)
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
