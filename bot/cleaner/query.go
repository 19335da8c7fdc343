package cleaner

import (
	"net/url"
	"strings"
)

// Query is a decoded query string that remembers key order.
// Repeated keys accumulate their values in the order they appeared.
type Query struct {
	keys   []string
	values map[string][]string
}

// ParseQuery decodes raw ("a=1&b=2&a=3") into a Query.
// Pairs without '=' get an empty value; empty pairs are skipped.
// A '%' that does not start a valid escape is kept as a literal.
func ParseQuery(raw string) Query {
	q := Query{values: make(map[string][]string)}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		q.add(unescape(key), unescape(value))
	}
	return q
}

// unescape decodes form encoding: '+' is a space and %XX is a byte.
func unescape(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func (q *Query) add(key, value string) {
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = append(q.values[key], value)
}

// Keys returns the keys in first-occurrence order.
func (q Query) Keys() []string {
	out := make([]string, len(q.keys))
	copy(out, q.keys)
	return out
}

// Values returns every value recorded for key.
func (q Query) Values(key string) []string {
	return q.values[key]
}

// Len returns the number of distinct keys.
func (q Query) Len() int {
	return len(q.keys)
}

// Filter returns a new Query holding only the keys for which keep returns true.
func (q Query) Filter(keep func(key string) bool) Query {
	out := Query{values: make(map[string][]string, len(q.keys))}
	for _, key := range q.keys {
		if !keep(key) {
			continue
		}
		out.keys = append(out.keys, key)
		out.values[key] = append([]string(nil), q.values[key]...)
	}
	return out
}

// Encode serialises the query with form encoding, one key=value pair per value.
func (q Query) Encode() string {
	var b strings.Builder
	for _, key := range q.keys {
		k := url.QueryEscape(key)
		for _, v := range q.values[key] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}
