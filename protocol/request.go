// Package protocol 负责 HTTP/1.1 报文与结构体之间的相互转换。
package protocol

import (
	"strings"

	httperrors "github.com/hnustlzh2/http-server/errors"
)

// Request 表示一个解析好的 HTTP 请求，只在一次请求/响应的交换里使用
type Request struct {
	Method  Method
	URI     URI
	Version string
	Header  Header
	Body    []byte // 报文里没有空行分隔时为 nil
}

// ParseRequest 用 MethodStrict 解析一条完整的请求报文
func ParseRequest(buf []byte) (*Request, error) {
	return ParseRequestPolicy(buf, MethodStrict)
}

// ParseRequestPolicy 解析一条完整的请求报文，未知方法按 policy 处理。
// 输入被截断时返回错误，不会 panic。
func ParseRequestPolicy(buf []byte, policy MethodPolicy) (*Request, error) {
	if len(buf) == 0 {
		return nil, httperrors.New(httperrors.MalformedRequest, "empty request", nil)
	}
	line, block, body := splitHead(buf)

	parts := strings.Fields(string(line))
	if len(parts) < 3 {
		return nil, httperrors.New(httperrors.MalformedStatusLine, string(line), nil)
	}
	method, err := parseMethodPolicy(parts[0], policy)
	if err != nil {
		return nil, err
	}
	return &Request{
		Method:  method,
		URI:     ParseURI(parts[1]),
		Version: parts[2],
		Header:  parseHeaderBlock(block),
		Body:    body,
	}, nil
}

// Bytes 把请求重新序列化成报文
func (r *Request) Bytes() []byte {
	buf := make([]byte, 0, 256+len(r.Body))
	buf = append(buf, r.Method.String()...)
	buf = append(buf, ' ')
	buf = append(buf, r.URI.String()...)
	buf = append(buf, ' ')
	buf = append(buf, r.Version...)
	buf = append(buf, CRLF...)
	buf = r.Header.appendTo(buf)
	buf = append(buf, CRLF...)
	buf = append(buf, r.Body...)
	return buf
}

func (r *Request) String() string {
	return string(r.Bytes())
}
