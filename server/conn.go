package server

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	httperrors "github.com/hnustlzh2/http-server/errors"
	"github.com/hnustlzh2/http-server/protocol"
	"github.com/hnustlzh2/http-server/route"
)

// conn 负责一个已接受的连接：读取、分发、写回，然后关闭。
// 不支持 keep-alive，一个连接只处理一次请求/响应交换。
type conn struct {
	cfg      Config
	nc       net.Conn
	br       *bufio.Reader
	routes   *route.Table
	handlers *route.Table
	req      *protocol.Request
	resp     *protocol.Response
	start    time.Time
	rejected bool // 请求没有读完就被拒绝
	log      zerolog.Logger
}

const (
	lingerTimeout = 500 * time.Millisecond
	lingerBytes   = 1 << 20
)

type stateFunc func(*conn) stateFunc

func newConn(cfg Config, nc net.Conn, routes, handlers *route.Table) *conn {
	return &conn{
		cfg:      cfg,
		nc:       nc,
		br:       bufio.NewReader(nc),
		routes:   routes,
		handlers: handlers,
		start:    time.Now(),
		log:      cfg.Logger.With().Str("remote", remoteAddr(nc)).Logger(),
	}
}

func remoteAddr(nc net.Conn) string {
	if a := nc.RemoteAddr(); a != nil {
		return a.String()
	}
	return ""
}

// serve 依次执行 reading -> dispatching -> writing -> closed，拒绝请求时在 closed 之前经过 lingering
func (c *conn) serve() {
	for state := reading; state != nil; {
		state = state(c)
	}
}

// state funcs

func reading(c *conn) stateFunc {
	if c.cfg.ReadTimeout > 0 {
		c.nc.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	}
	req, err := protocol.ReadRequest(c.br, c.cfg.Limits, c.cfg.MethodPolicy)
	if err == nil {
		c.req = req
		return dispatching
	}

	switch {
	case errors.Is(err, httperrors.ConnectionClosed):
		c.log.Debug().Msg("client closed before sending a request")
		return closed
	case errors.Is(err, httperrors.RequestTooLarge):
		c.log.Warn().Err(err).Msg("rejecting request")
		c.resp = protocol.PayloadTooLarge()
		c.rejected = true
		return writing
	case errors.Is(err, httperrors.MalformedRequest),
		errors.Is(err, httperrors.MalformedStatusLine),
		errors.Is(err, httperrors.UnknownMethod):
		c.log.Warn().Err(err).Msg("rejecting request")
		c.resp = protocol.NotFound()
		c.rejected = true
		return writing
	default:
		c.log.Warn().Err(err).Msg("read failed")
		return closed
	}
}

func dispatching(c *conn) stateFunc {
	c.resp = dispatch(c.routes, c.handlers, c.req, c.log)
	return writing
}

func writing(c *conn) stateFunc {
	c.resp = finalize(c.resp)
	if c.cfg.WriteTimeout > 0 {
		c.nc.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	n, err := c.resp.WriteTo(c.nc)
	if err != nil {
		c.log.Error().Err(httperrors.New(httperrors.WriteFailure, "", err)).Int64("written", n).Msg("write failed")
		return closed
	}

	ev := c.log.Info().Str("status", c.resp.Status).Int64("bytes", n).Dur("took", time.Since(c.start))
	if c.req != nil {
		ev = ev.Str("method", c.req.Method.String()).Str("path", c.req.URI.Path)
	}
	ev.Msg("served")
	if c.rejected {
		return lingering
	}
	return closed
}

// lingering 先关闭写端，再丢弃至多 lingerBytes 的未读请求字节，然后关闭连接。
// 接收缓冲区非空时 Close 会发出 RST。
func lingering(c *conn) stateFunc {
	cw, ok := c.nc.(interface{ CloseWrite() error })
	if !ok || cw.CloseWrite() != nil {
		return closed
	}
	c.nc.SetReadDeadline(time.Now().Add(lingerTimeout))
	n, _ := io.CopyN(io.Discard, c.br, lingerBytes)
	c.log.Debug().Int64("discarded", n).Msg("drained rejected request")
	return closed
}

func closed(c *conn) stateFunc {
	if err := c.nc.Close(); err != nil {
		c.log.Debug().Err(err).Msg("close failed")
	}
	return nil
}

// finalize 返回补上 Content-Length 和 Connection: close 的拷贝，已有的头部保持不变。
// resp 可能被多个连接共享，不能原地修改。
func finalize(resp *protocol.Response) *protocol.Response {
	out := *resp
	out.Header = resp.Header.Clone()
	if out.Version == "" {
		out.Version = protocol.Version11
	}
	if out.Header == nil {
		out.Header = make(protocol.Header, 2)
	}
	if !hasHeader(out.Header, "Content-Length") {
		out.Header["Content-Length"] = strconv.Itoa(len(out.Body))
	}
	if !hasHeader(out.Header, "Connection") {
		out.Header["Connection"] = "close"
	}
	return &out
}

func hasHeader(h protocol.Header, key string) bool {
	for k := range h {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}
