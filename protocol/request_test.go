package protocol

import (
	"bytes"
	"errors"
	"testing"

	httperrors "github.com/hnustlzh2/http-server/errors"
)

func ExpectEqual(t *testing.T, expect, actual string) {
	t.Helper()
	if expect != actual {
		t.Errorf("Got %q, want %q", actual, expect)
	}
}

func TestParseRequest(t *testing.T) {
	raw := "POST /files?name=a.txt HTTP/1.1\r\nHost: localhost:8080\r\nUser-Agent: curl/8.0\r\nContent-Length: 5\r\n\r\nhello"
	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Method != POST {
		t.Errorf("Method = %v, want POST", req.Method)
	}
	ExpectEqual(t, "/files", req.URI.Path)
	ExpectEqual(t, "a.txt", req.URI.Query["name"])
	ExpectEqual(t, "HTTP/1.1", req.Version)
	ExpectEqual(t, "localhost:8080", req.Header["Host"])
	ExpectEqual(t, "curl/8.0", req.Header["User-Agent"])
	ExpectEqual(t, "hello", string(req.Body))
}

func TestParseRequestRoundTrip(t *testing.T) {
	lines := []string{
		"GET / HTTP/1.1",
		"DELETE /api/items/7 HTTP/1.0",
		"PATCH /search?lang=en&q=rust HTTP/1.1",
		"OPTIONS /docs/ HTTP/1.1",
		"TRACE /a/b/c.html HTTP/2",
	}
	for _, line := range lines {
		req, err := ParseRequest([]byte(line + "\r\n\r\n"))
		if err != nil {
			t.Fatalf("ParseRequest(%q) failed: %v", line, err)
		}
		again, err := ParseRequest(req.Bytes())
		if err != nil {
			t.Fatalf("re-parse of %q failed: %v", req.Bytes(), err)
		}
		if again.Method != req.Method || again.URI.Path != req.URI.Path || again.Version != req.Version {
			t.Errorf("round trip of %q gave %v %s %s", line, again.Method, again.URI.Path, again.Version)
		}
		if got, _, _ := bytes.Cut(req.Bytes(), []byte(CRLF)); string(got) != line {
			t.Errorf("request line %q re-serialized as %q", line, got)
		}
	}
}

func TestParseRequestHeadersLenient(t *testing.T) {
	raw := "GET / HTTP/1.1\r\nHost: example\r\nno-colon-here\r\nX-Empty:\r\nAccept: a: b\r\n\r\n"
	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if len(req.Header) != 2 {
		t.Errorf("expected 2 headers, got %v", req.Header)
	}
	ExpectEqual(t, "a: b", req.Header["Accept"])
	if _, ok := req.Header["host"]; ok {
		t.Errorf("header keys must keep their case")
	}
}

func TestParseRequestWithoutSeparator(t *testing.T) {
	req, err := ParseRequest([]byte("GET /index.html HTTP/1.1\r\nHost: x"))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Body != nil {
		t.Errorf("Body = %q, want nil", req.Body)
	}
	ExpectEqual(t, "x", req.Header["Host"])
}

func TestParseRequestErrors(t *testing.T) {
	cases := []struct {
		raw  string
		kind httperrors.Kind
	}{
		{"", httperrors.MalformedRequest},
		{"GET /\r\n\r\n", httperrors.MalformedStatusLine},
		{"GET", httperrors.MalformedStatusLine},
		{"\r\n\r\n", httperrors.MalformedStatusLine},
		{"BREW /pot HTTP/1.1\r\n\r\n", httperrors.UnknownMethod},
		{"get / HTTP/1.1\r\n\r\n", httperrors.UnknownMethod},
	}
	for _, c := range cases {
		_, err := ParseRequest([]byte(c.raw))
		if !errors.Is(err, c.kind) {
			t.Errorf("ParseRequest(%q) error = %v, want %v", c.raw, err, c.kind)
		}
	}
}

func TestParseRequestTruncatedDoesNotPanic(t *testing.T) {
	raw := []byte("POST /upload?x=1 HTTP/1.1\r\nContent-Length: 10\r\nHost: a\r\n\r\n0123456789")
	for i := 0; i <= len(raw); i++ {
		ParseRequest(raw[:i])
	}
}

func TestParseRequestFallbackGET(t *testing.T) {
	req, err := ParseRequestPolicy([]byte("BREW /pot HTTP/1.1\r\n\r\n"), MethodFallbackGET)
	if err != nil {
		t.Fatalf("ParseRequestPolicy failed: %v", err)
	}
	if req.Method != GET {
		t.Errorf("Method = %v, want GET", req.Method)
	}
}

func TestParseMethod(t *testing.T) {
	for i, name := range methodNames {
		m, err := ParseMethod(name)
		if err != nil {
			t.Fatalf("ParseMethod(%q) failed: %v", name, err)
		}
		if m != Method(i) || m.String() != name {
			t.Errorf("ParseMethod(%q) = %v", name, m)
		}
	}
	if Method(42).String() != "UNKNOWN" {
		t.Errorf("out of range method should print UNKNOWN")
	}
}
