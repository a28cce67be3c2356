package route

import (
	"errors"
	"io/fs"
	"strconv"

	httperrors "github.com/hnustlzh2/http-server/errors"
	"github.com/hnustlzh2/http-server/protocol"
)

// Entry 是路由表里的一项，产生对一个请求的响应
type Entry interface {
	Respond(req *protocol.Request) (*protocol.Response, error)
}

// HandlerFunc 调用方提供的处理函数，会被多个连接并发调用，
// 不能依赖未加同步的共享可变状态
type HandlerFunc func(req *protocol.Request) *protocol.Response

// Respond 调用处理函数，返回 nil 视为处理失败
func (f HandlerFunc) Respond(req *protocol.Request) (*protocol.Response, error) {
	resp := f(req)
	if resp == nil {
		return nil, httperrors.New(httperrors.HandlerFailure, "handler returned no response", nil)
	}
	return resp, nil
}

// CachePolicy 决定静态文件内容何时从磁盘读取
type CachePolicy int

const (
	// CacheAtRegistration 注册时读一次，之后一直使用内存中的拷贝
	CacheAtRegistration CachePolicy = iota
	// ReadPerRequest 每个请求都重新读取文件
	ReadPerRequest
)

func (p CachePolicy) String() string {
	if p == ReadPerRequest {
		return "read-per-request"
	}
	return "cache-at-registration"
}

// FileRef 指向某个文件系统里的一个文件
type FileRef struct {
	FS   fs.FS
	Name string
}

// ReadFile 读取文件内容，文件消失时返回 FileNotFound
func (f FileRef) ReadFile() ([]byte, error) {
	b, err := fs.ReadFile(f.FS, f.Name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, httperrors.New(httperrors.FileNotFound, f.Name, err)
		}
		return nil, httperrors.New(httperrors.FileReadFailure, f.Name, err)
	}
	return b, nil
}

// StaticFile 是静态文件路由：一个不带 body 的响应模板加上文件来源
type StaticFile struct {
	Header protocol.Header
	Source FileRef // 直接由内容注册时为零值
	body   []byte
	cached bool
}

// NewStaticFile 按 policy 创建静态文件路由，CacheAtRegistration 时立即读取文件
func NewStaticFile(src FileRef, contentType string, policy CachePolicy) (*StaticFile, error) {
	sf := &StaticFile{
		Header: protocol.Header{"Content-Type": contentType},
		Source: src,
	}
	if policy == CacheAtRegistration {
		b, err := src.ReadFile()
		if err != nil {
			return nil, err
		}
		sf.body = b
		sf.cached = true
	}
	return sf, nil
}

// NewStaticContent 用已经在内存中的内容创建静态路由
func NewStaticContent(content []byte, contentType string) *StaticFile {
	return &StaticFile{
		Header: protocol.Header{"Content-Type": contentType},
		body:   content,
		cached: true,
	}
}

// Cached 报告内容是否在注册时已读入内存
func (s *StaticFile) Cached() bool {
	return s.cached
}

// Respond 返回 200 响应，body 来自缓存或重新读取的文件
func (s *StaticFile) Respond(*protocol.Request) (*protocol.Response, error) {
	body := s.body
	if !s.cached {
		b, err := s.Source.ReadFile()
		if err != nil {
			return nil, err
		}
		body = b
	}
	resp := protocol.NewResponse(protocol.StatusOK)
	for k, v := range s.Header {
		resp.Header[k] = v
	}
	resp.Header["Content-Length"] = strconv.Itoa(len(body))
	resp.Body = body
	return resp, nil
}
