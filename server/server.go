// Package server 接受 TCP 连接，每个连接由一个 goroutine 完成读取、分发和写回。
package server

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	httperrors "github.com/hnustlzh2/http-server/errors"
	"github.com/hnustlzh2/http-server/protocol"
	"github.com/hnustlzh2/http-server/route"
)

const maxAcceptDelay = time.Second

// Server 持有路由表的只读快照。
// SetRoutes 和 Handle 采用写时复制，正在处理的连接始终看到一份完整的表。
type Server struct {
	cfg      Config
	log      zerolog.Logger
	routes   atomic.Pointer[route.Table]
	handlers atomic.Pointer[route.Table]

	mu       sync.Mutex // 保护 ln 和 handlers 的写时复制
	ln       net.Listener
	shutdown atomic.Bool
}

// New 创建服务器，routes 会被复制，之后对它的修改不会影响服务器
func New(cfg Config, routes *route.Table) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		cfg: cfg,
		log: cfg.Logger,
	}
	s.routes.Store(routes.Clone())
	s.handlers.Store(route.NewTable())
	return s
}

// SetRoutes 用 routes 的拷贝替换当前路由表
func (s *Server) SetRoutes(routes *route.Table) {
	s.routes.Store(routes.Clone())
}

// Routes 返回当前的路由表快照，调用方不应修改它
func (s *Server) Routes() *route.Table {
	return s.routes.Load()
}

// Handle 注册一个动态处理函数，在路由表没有匹配时使用
func (s *Server) Handle(method protocol.Method, path string, handler route.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.handlers.Load().Clone()
	next.Handle(method, path, handler)
	s.handlers.Store(next)
}

// Handlers 返回当前动态处理函数表的快照
func (s *Server) Handlers() *route.Table {
	return s.handlers.Load()
}

// Listen 绑定 cfg.Addr（仅 IPv4），失败时返回 BindFailure
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp4", s.cfg.Addr)
	if err != nil {
		return nil, httperrors.New(httperrors.BindFailure, s.cfg.Addr, err)
	}
	return ln, nil
}

// ListenAndServe 绑定 cfg.Addr 并开始服务。
// 绑定失败返回 BindFailure，调用方应当退出。
func (s *Server) ListenAndServe() error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve 在 ln 上循环接受连接，每个连接交给一个新的 goroutine，不限制数量。
// 临时的 Accept 错误只记录日志并稍后重试；Close 之后返回 nil。
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	if s.shutdown.Load() {
		s.mu.Unlock()
		ln.Close()
		return nil
	}
	s.mu.Unlock()
	defer ln.Close()

	s.log.Info().Str("addr", ln.Addr().String()).Int("routes", s.Routes().Len()).Msg("listening")

	var delay time.Duration
	for {
		nc, err := ln.Accept()
		if err != nil {
			if s.shutdown.Load() || errors.Is(err, net.ErrClosed) {
				s.log.Info().Msg("listener closed, no longer accepting connections")
				return nil
			}
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else if delay *= 2; delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			s.log.Error().Err(httperrors.New(httperrors.AcceptFailure, "", err)).Dur("retry", delay).Msg("accept failed")
			time.Sleep(delay)
			continue
		}
		delay = 0
		go s.ServeConn(nc, s.Handlers())
	}
}

// ServeConn 在当前 goroutine 中处理一个连接，handlers 是这个连接使用的动态处理函数表，可以为 nil。
// 返回时连接已经关闭。
func (s *Server) ServeConn(nc net.Conn, handlers *route.Table) {
	newConn(s.cfg, nc, s.Routes(), handlers).serve()
}

// Addr 返回监听地址，尚未开始监听时返回 nil
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Close 关闭监听器，已经在处理的连接不受影响
func (s *Server) Close() error {
	s.shutdown.Store(true)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
