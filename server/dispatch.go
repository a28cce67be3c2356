package server

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	httperrors "github.com/hnustlzh2/http-server/errors"
	"github.com/hnustlzh2/http-server/protocol"
	"github.com/hnustlzh2/http-server/route"
)

// Dispatch 为请求选出唯一的响应来源，先匹配者胜出：
//  1. routes 中精确匹配的静态文件或已注册的处理函数
//  2. handlers 中精确匹配的动态处理函数
//  3. 固定的 404 页面
//
// 不存在前缀匹配，也不区分 405：路径只在其他方法下注册时同样返回 404。
func Dispatch(routes, handlers *route.Table, req *protocol.Request) *protocol.Response {
	return dispatch(routes, handlers, req, zerolog.Nop())
}

func dispatch(routes, handlers *route.Table, req *protocol.Request, log zerolog.Logger) *protocol.Response {
	entry, ok := routes.Lookup(req.Method, req.URI.Path)
	if !ok {
		entry, ok = handlers.Lookup(req.Method, req.URI.Path)
	}
	if !ok {
		return protocol.NotFound()
	}

	resp, err := respond(entry, req)
	if err == nil {
		return resp
	}
	if errors.Is(err, httperrors.FileNotFound) {
		log.Warn().Err(err).Str("path", req.URI.Path).Msg("static file vanished")
		return protocol.NotFound()
	}
	log.Error().Err(err).Str("path", req.URI.Path).Msg("route failed")
	return protocol.InternalServerError()
}

// respond 调用 entry，把处理函数里的 panic 转成 HandlerFailure
func respond(entry route.Entry, req *protocol.Request) (resp *protocol.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = httperrors.New(httperrors.HandlerFailure, fmt.Sprintf("panic: %v", r), nil)
		}
	}()
	return entry.Respond(req)
}
