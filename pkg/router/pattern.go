package router

import (
	"fmt"
	"regexp"
	"strings"
)

// Wildcard is the dynamic-index bucket for routes whose first path
// segment is itself a parameter.
const Wildcard = "*"

var paramNameRx = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// CompiledPattern is an anchored matcher with named capture groups,
// produced from a path template at registration time.
type CompiledPattern struct {
	source string
	rx     *regexp.Regexp
	names  []string
}

// CompilePattern converts a path template into a matchable pattern.
//
//	/users/{id}              one-or-more non-slash characters
//	/users/{id?}             the whole segment may be absent
//	/posts/{slug:[a-z-]+}    user-supplied regex body, verbatim
//
// Literal text is matched verbatim; the whole template is anchored.
// Unbalanced braces or an invalid parameter name fail with
// ErrBadPattern at registration time, not at dispatch time.
func CompilePattern(template string) (*CompiledPattern, error) {
	var (
		parts []string
		names []string
	)

	rest := template
	for len(rest) > 0 {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return nil, fmt.Errorf("%w: unbalanced '}' in %q", ErrBadPattern, template)
			}
			parts = append(parts, regexp.QuoteMeta(rest))
			break
		}

		lit := rest[:open]
		if strings.IndexByte(lit, '}') >= 0 {
			return nil, fmt.Errorf("%w: unbalanced '}' in %q", ErrBadPattern, template)
		}
		parts = append(parts, regexp.QuoteMeta(lit))

		// Find the matching close brace. Braces may nest inside a
		// user-supplied regex body, e.g. {id:\d{4}}.
		depth := 0
		end := -1
		for i := open; i < len(rest); i++ {
			switch rest[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					end = i
				}
			}
			if end >= 0 {
				break
			}
		}
		if end < 0 {
			return nil, fmt.Errorf("%w: unbalanced '{' in %q", ErrBadPattern, template)
		}

		token := rest[open+1 : end]
		rest = rest[end+1:]

		name, group, optional, err := compileParam(token)
		if err != nil {
			return nil, fmt.Errorf("%w: %v in %q", ErrBadPattern, err, template)
		}
		for _, seen := range names {
			if seen == name {
				return nil, fmt.Errorf("%w: duplicate parameter %q in %q", ErrBadPattern, name, template)
			}
		}
		names = append(names, name)

		if optional {
			// Make the preceding slash part of the optional group so
			// the whole segment may be absent from the path.
			if n := len(parts); n > 0 && strings.HasSuffix(parts[n-1], "/") {
				parts[n-1] = parts[n-1][:len(parts[n-1])-1]
				parts = append(parts, "(?:/"+group+")?")
			} else {
				parts = append(parts, "(?:"+group+")?")
			}
			continue
		}
		parts = append(parts, group)
	}

	source := "^" + strings.Join(parts, "") + "$"
	rx, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPattern, err)
	}
	return &CompiledPattern{source: source, rx: rx, names: names}, nil
}

// compileParam turns a brace token into a named capture group.
func compileParam(token string) (name, group string, optional bool, err error) {
	body := "[^/]+"
	name = token

	if colon := strings.IndexByte(token, ':'); colon >= 0 {
		name = token[:colon]
		body = token[colon+1:]
		if body == "" {
			return "", "", false, fmt.Errorf("empty regex for parameter %q", name)
		}
	} else if strings.HasSuffix(token, "?") {
		name = token[:len(token)-1]
		optional = true
	}

	if !paramNameRx.MatchString(name) {
		return "", "", false, fmt.Errorf("invalid parameter name %q", name)
	}
	return name, "(?P<" + name + ">" + body + ")", optional, nil
}

// patternFromSource reconstructs a compiled pattern from a cached regex
// source. Parameter names are recovered from the capture groups.
func patternFromSource(source string) (*CompiledPattern, error) {
	rx, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %v", ErrBadCache, source, err)
	}
	var names []string
	for _, n := range rx.SubexpNames() {
		if n != "" {
			names = append(names, n)
		}
	}
	return &CompiledPattern{source: source, rx: rx, names: names}, nil
}

// Source returns the regex source, the form persisted by the route
// cache.
func (p *CompiledPattern) Source() string { return p.source }

// Params returns the declared parameter names in template order.
func (p *CompiledPattern) Params() []string { return p.names }

// Match attempts a full match against a normalized path, returning the
// extracted parameters. Optional parameters absent from the path are
// present in the map with an empty value.
func (p *CompiledPattern) Match(path string) (map[string]string, bool) {
	m := p.rx.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	params := make(map[string]string, len(p.names))
	for i, name := range p.rx.SubexpNames() {
		if name != "" {
			params[name] = m[i]
		}
	}
	return params, true
}

// firstSegment returns the first /-delimited segment of a normalized
// path. The root path yields "".
func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

// templateFirstSegment returns the dynamic-index bucket key for a path
// template: its literal first segment, or the wildcard bucket when the
// first segment contains a parameter.
func templateFirstSegment(template string) string {
	seg := firstSegment(template)
	if strings.IndexByte(seg, '{') >= 0 {
		return Wildcard
	}
	return seg
}
