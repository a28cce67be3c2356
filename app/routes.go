package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/hnustlzh2/http-server/protocol"
	"github.com/hnustlzh2/http-server/route"
	"github.com/hnustlzh2/http-server/server"
)

// registerHandlers 注册所有动态处理函数
func registerHandlers(srv *server.Server, uploadDir string) {
	srv.Handle(protocol.GET, "/healthz", healthHandler)
	// /echo?text=...
	srv.Handle(protocol.GET, "/echo", echoHandler)
	// /user-agent
	srv.Handle(protocol.GET, "/user-agent", userAgentHandler)
	// /files?name=...
	if uploadDir != "" {
		files := filesHandler(uploadDir)
		srv.Handle(protocol.GET, "/files", files)
		srv.Handle(protocol.POST, "/files", files)
	}
}

var (
	bannerTitle  = color.New(color.FgCyan, color.Bold)
	bannerMethod = color.New(color.FgGreen)
	bannerDim    = color.New(color.Faint)
)

// printBanner 在绑定成功后打印监听地址和全部路由
func printBanner(w io.Writer, addr string, o *options, srv *server.Server, static []route.StaticRoute) {
	bannerTitle.Fprintf(w, "http-server listening on http://%s\n", addr)
	bannerDim.Fprintf(w, "static root %s (%s), %d routes\n", o.directory, o.cachePolicy(), len(static))
	for _, r := range static {
		bannerMethod.Fprintf(w, "  %-7s", protocol.GET)
		fmt.Fprintf(w, " %s ", r.Path)
		bannerDim.Fprintf(w, "%s\n", r.ContentType)
	}
	for _, k := range srv.Handlers().Routes() {
		bannerMethod.Fprintf(w, "  %-7s", k.Method)
		fmt.Fprintf(w, " %s\n", k.Path)
	}
}
