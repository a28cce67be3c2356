package main

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hnustlzh2/http-server/protocol"
	"github.com/hnustlzh2/http-server/route"
)

// textResponse 构造一个 text/plain 的 200 响应
func textResponse(body []byte) *protocol.Response {
	resp := protocol.NewResponse(protocol.StatusOK)
	resp.Header["Content-Type"] = "text/plain"
	resp.Header["Content-Length"] = strconv.Itoa(len(body))
	resp.Body = body
	return resp
}

// healthHandler 返回 200 OK，无 body
func healthHandler(req *protocol.Request) *protocol.Response {
	return protocol.NewResponse(protocol.StatusOK)
}

// echoHandler /echo?text=<text>：原样返回 text
func echoHandler(req *protocol.Request) *protocol.Response {
	text, ok := req.URI.Query["text"]
	if !ok {
		return protocol.BadRequest()
	}
	return textResponse([]byte(text))
}

// userAgentHandler /user-agent：返回请求头里的 User-Agent
func userAgentHandler(req *protocol.Request) *protocol.Response {
	return textResponse([]byte(req.Header["User-Agent"]))
}

// filesHandler /files?name=<name>：GET 读取，POST 写入 baseDir 下的文件
func filesHandler(baseDir string) route.HandlerFunc {
	return func(req *protocol.Request) *protocol.Response {
		name := req.URI.Query["name"]
		// 不允许跳出 baseDir
		if name == "" || !filepath.IsLocal(name) {
			return protocol.BadRequest()
		}
		filePath := filepath.Join(baseDir, filepath.FromSlash(name))

		// 写文件
		if req.Method == protocol.POST {
			if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
				return protocol.InternalServerError()
			}
			if err := os.WriteFile(filePath, req.Body, 0o644); err != nil {
				return protocol.InternalServerError()
			}
			return protocol.NewResponse("201 CREATED")
		}

		// 读文件
		contentBytes, err := os.ReadFile(filePath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return protocol.NotFound()
			}
			return protocol.InternalServerError()
		}
		resp := protocol.NewResponse(protocol.StatusOK)
		resp.Header["Content-Type"] = "application/octet-stream"
		resp.Header["Content-Length"] = strconv.Itoa(len(contentBytes))
		resp.Body = contentBytes
		return resp
	}
}
