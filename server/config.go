package server

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/hnustlzh2/http-server/protocol"
)

// DefaultAddr 默认只监听本机回环地址
const DefaultAddr = "127.0.0.1:8080"

// Config 服务器配置
type Config struct {
	Addr         string
	ReadTimeout  time.Duration // 0 表示不设置读超时
	WriteTimeout time.Duration // 0 表示不设置写超时
	Limits       protocol.Limits
	MethodPolicy protocol.MethodPolicy
	Logger       zerolog.Logger
}

// DefaultConfig 返回默认配置，日志默认丢弃
func DefaultConfig() Config {
	return Config{
		Addr:         DefaultAddr,
		Limits:       protocol.DefaultLimits(),
		MethodPolicy: protocol.MethodStrict,
		Logger:       zerolog.Nop(),
	}
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	d := protocol.DefaultLimits()
	if c.Limits.MaxHeaderBytes <= 0 {
		c.Limits.MaxHeaderBytes = d.MaxHeaderBytes
	}
	if c.Limits.MaxBodyBytes <= 0 {
		c.Limits.MaxBodyBytes = d.MaxBodyBytes
	}
	return c
}
