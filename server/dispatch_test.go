package server

import (
	"testing"

	"github.com/hnustlzh2/http-server/protocol"
	"github.com/hnustlzh2/http-server/route"
)

func newRequest(method protocol.Method, target string) *protocol.Request {
	return &protocol.Request{
		Method:  method,
		URI:     protocol.ParseURI(target),
		Version: protocol.Version11,
		Header:  protocol.Header{},
	}
}

func textHandler(body string) route.HandlerFunc {
	return func(*protocol.Request) *protocol.Response {
		resp := protocol.NewResponse(protocol.StatusOK)
		resp.Header["Content-Type"] = "text/plain"
		resp.Body = []byte(body)
		return resp
	}
}

func TestDispatchRoutesBeforeHandlers(t *testing.T) {
	routes := route.NewTable()
	routes.InsertStatic("/about", []byte("static"), "text/plain")
	handlers := route.NewTable()
	handlers.Handle(protocol.GET, "/about", textHandler("dynamic"))
	handlers.Handle(protocol.GET, "/hello", textHandler("hi"))

	if got := string(Dispatch(routes, handlers, newRequest(protocol.GET, "/about")).Body); got != "static" {
		t.Errorf("GET /about = %q, want the static entry", got)
	}
	if got := string(Dispatch(routes, handlers, newRequest(protocol.GET, "/hello?x=1")).Body); got != "hi" {
		t.Errorf("GET /hello = %q, want the dynamic handler", got)
	}
}

func TestDispatchNotFound(t *testing.T) {
	routes := route.NewTable()
	routes.InsertStatic("/about", []byte("static"), "text/plain")

	for _, req := range []*protocol.Request{
		newRequest(protocol.GET, "/missing"),
		newRequest(protocol.POST, "/about"),
		newRequest(protocol.GET, "/about/"),
		newRequest(protocol.GET, "/abo"),
	} {
		resp := Dispatch(routes, nil, req)
		if resp.Status != "404 NOT FOUND" {
			t.Errorf("%v %s: status = %q, want 404 NOT FOUND", req.Method, req.URI.Path, resp.Status)
		}
		if string(resp.Body) != protocol.NotFoundBody {
			t.Errorf("%v %s: unexpected body %q", req.Method, req.URI.Path, resp.Body)
		}
		if resp.Header["Content-Type"] != "text/html; charset=UTF-8" {
			t.Errorf("%v %s: Content-Type = %q", req.Method, req.URI.Path, resp.Header["Content-Type"])
		}
	}
}

func TestDispatchHandlerSeesRequest(t *testing.T) {
	handlers := route.NewTable()
	handlers.Handle(protocol.POST, "/echo", func(req *protocol.Request) *protocol.Response {
		resp := protocol.NewResponse(protocol.StatusOK)
		resp.Body = append([]byte(req.URI.Query["prefix"]), req.Body...)
		return resp
	})
	req := newRequest(protocol.POST, "/echo?prefix=>")
	req.Body = []byte("abc")

	if got := string(Dispatch(nil, handlers, req).Body); got != ">abc" {
		t.Errorf("body = %q, want >abc", got)
	}
}

func TestDispatchHandlerFailures(t *testing.T) {
	handlers := route.NewTable()
	handlers.Handle(protocol.GET, "/panic", func(*protocol.Request) *protocol.Response {
		panic("boom")
	})
	handlers.Handle(protocol.GET, "/nil", func(*protocol.Request) *protocol.Response {
		return nil
	})

	for _, p := range []string{"/panic", "/nil"} {
		resp := Dispatch(nil, handlers, newRequest(protocol.GET, p))
		if resp.Code() != 500 {
			t.Errorf("GET %s: status = %q, want 500", p, resp.Status)
		}
	}
}
