package router

import (
	"errors"
	"testing"
)

func TestCompilePatternNamedParams(t *testing.T) {
	p, err := CompilePattern("/posts/{year}/{month}/{slug}")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}

	params, ok := p.Match("/posts/2024/12/hello-world")
	if !ok {
		t.Fatal("expected match")
	}
	want := map[string]string{"year": "2024", "month": "12", "slug": "hello-world"}
	for k, v := range want {
		if params[k] != v {
			t.Errorf("params[%q] = %q, want %q", k, params[k], v)
		}
	}
}

func TestCompilePatternLiteralOnly(t *testing.T) {
	p, err := CompilePattern("/about/team")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	if _, ok := p.Match("/about/team"); !ok {
		t.Error("literal path should match itself")
	}
	if _, ok := p.Match("/about/team/extra"); ok {
		t.Error("pattern must be anchored, not a prefix match")
	}
	if _, ok := p.Match("/about"); ok {
		t.Error("partial path should not match")
	}
}

func TestCompilePatternTypedParam(t *testing.T) {
	p, err := CompilePattern(`/users/{id:\d+}`)
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}

	if params, ok := p.Match("/users/42"); !ok || params["id"] != "42" {
		t.Errorf("match /users/42 = (%v, %v), want id=42", params, ok)
	}
	if _, ok := p.Match("/users/abc"); ok {
		t.Error("/users/abc should not match a \\d+ constraint")
	}
}

func TestCompilePatternTypedParamNestedBraces(t *testing.T) {
	p, err := CompilePattern(`/archive/{year:\d{4}}`)
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	if _, ok := p.Match("/archive/2024"); !ok {
		t.Error("/archive/2024 should match")
	}
	if _, ok := p.Match("/archive/24"); ok {
		t.Error("/archive/24 should not match a \\d{4} constraint")
	}
}

func TestCompilePatternOptionalParam(t *testing.T) {
	p, err := CompilePattern("/users/{id?}")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}

	params, ok := p.Match("/users")
	if !ok {
		t.Fatal("optional segment should allow the whole segment to be absent")
	}
	if params["id"] != "" {
		t.Errorf("absent optional param = %q, want empty", params["id"])
	}

	params, ok = p.Match("/users/42")
	if !ok || params["id"] != "42" {
		t.Errorf("match /users/42 = (%v, %v), want id=42", params, ok)
	}
}

func TestCompilePatternDeterminism(t *testing.T) {
	a, err := CompilePattern("/a/{b}/c/{d?}")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	b, err := CompilePattern("/a/{b}/c/{d?}")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	if a.Source() != b.Source() {
		t.Errorf("sources differ: %q vs %q", a.Source(), b.Source())
	}
}

func TestCompilePatternRegexSpecialLiterals(t *testing.T) {
	p, err := CompilePattern("/files/v1.0/{name}")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	if _, ok := p.Match("/files/v1.0/readme"); !ok {
		t.Error("literal dot should match itself")
	}
	if _, ok := p.Match("/files/v1x0/readme"); ok {
		t.Error("literal dot must be escaped, not a regex any-char")
	}
}

func TestCompilePatternMalformed(t *testing.T) {
	for _, template := range []string{
		"/users/{id",
		"/users/id}",
		"/users/{}",
		"/users/{1id}",
		"/users/{id}/{id}",
		"/users/{id:}",
	} {
		if _, err := CompilePattern(template); !errors.Is(err, ErrBadPattern) {
			t.Errorf("CompilePattern(%q) = %v, want ErrBadPattern", template, err)
		}
	}
}

func TestFirstSegment(t *testing.T) {
	cases := []struct{ path, want string }{
		{"/users/42", "users"},
		{"/users", "users"},
		{"/", ""},
		{"/a/b/c", "a"},
	}
	for _, c := range cases {
		if got := firstSegment(c.path); got != c.want {
			t.Errorf("firstSegment(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestTemplateFirstSegment(t *testing.T) {
	cases := []struct{ template, want string }{
		{"/users/{id}", "users"},
		{"/{page}", Wildcard},
		{"/{lang?}/home", Wildcard},
		{"/v{major}/x", Wildcard},
	}
	for _, c := range cases {
		if got := templateFirstSegment(c.template); got != c.want {
			t.Errorf("templateFirstSegment(%q) = %q, want %q", c.template, got, c.want)
		}
	}
}

func TestPatternFromSourceRoundTrip(t *testing.T) {
	p, err := CompilePattern("/posts/{slug:[a-z-]+}")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	q, err := patternFromSource(p.Source())
	if err != nil {
		t.Fatalf("patternFromSource: %v", err)
	}

	params, ok := q.Match("/posts/hello-world")
	if !ok || params["slug"] != "hello-world" {
		t.Errorf("rebuilt pattern match = (%v, %v), want slug=hello-world", params, ok)
	}
	if _, ok := q.Match("/posts/Hello"); ok {
		t.Error("rebuilt pattern lost its constraint")
	}
}
