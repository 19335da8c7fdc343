package cleaner

import (
	"errors"
	"strings"
)

var (
	errUnbalancedBrackets = errors.New("invalid IPv6 authority")
	errEmpty              = errors.New("empty url")
)

// Parts is the six-component decomposition of a URL.
// Path, Params and Fragment are kept byte for byte so String can rebuild
// everything except the query exactly as it was received.
type Parts struct {
	Scheme    string
	Authority string
	Path      string
	Params    string
	RawQuery  string
	Fragment  string

	hasAuthority bool
	hasParams    bool
	hasFragment  bool
}

// Split decomposes raw into scheme, authority, path, params, query and fragment.
func Split(raw string) (Parts, error) {
	var p Parts
	if raw == "" {
		return p, errEmpty
	}

	rest := raw
	if i := strings.IndexByte(rest, ':'); i > 0 && isScheme(rest[:i]) {
		p.Scheme = rest[:i]
		rest = rest[i+1:]
	}

	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		p.Authority = rest[:end]
		p.hasAuthority = true
		rest = rest[end:]
		if strings.Contains(p.Authority, "[") != strings.Contains(p.Authority, "]") {
			return Parts{}, errUnbalancedBrackets
		}
	}

	if i := strings.IndexByte(rest, '#'); i >= 0 {
		p.Fragment = rest[i+1:]
		p.hasFragment = true
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		p.RawQuery = rest[i+1:]
		rest = rest[:i]
	}

	p.Path, p.Params, p.hasParams = splitParams(rest)
	return p, nil
}

// String reassembles the URL. An empty query drops the '?'.
func (p Parts) String() string {
	var b strings.Builder
	if p.Scheme != "" {
		b.WriteString(p.Scheme)
		b.WriteByte(':')
	}
	if p.hasAuthority || p.Authority != "" {
		b.WriteString("//")
		b.WriteString(p.Authority)
	}
	b.WriteString(p.Path)
	if p.hasParams || p.Params != "" {
		b.WriteByte(';')
		b.WriteString(p.Params)
	}
	if p.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(p.RawQuery)
	}
	if p.hasFragment || p.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(p.Fragment)
	}
	return b.String()
}

// IsValid reports whether candidate has both a scheme and an authority.
// Malformed input is simply not a URL.
func IsValid(candidate string) bool {
	p, err := Split(candidate)
	if err != nil {
		return false
	}
	return p.Scheme != "" && p.Authority != ""
}

// splitParams separates the ";params" suffix of the last path segment.
func splitParams(path string) (string, string, bool) {
	start := strings.LastIndexByte(path, '/')
	if start < 0 {
		start = 0
	}
	i := strings.IndexByte(path[start:], ';')
	if i < 0 {
		return path, "", false
	}
	i += start
	return path[:i], path[i+1:], true
}

func isScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return s != ""
}
