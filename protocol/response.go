package protocol

import (
	"io"
	"strconv"
	"strings"

	httperrors "github.com/hnustlzh2/http-server/errors"
)

// Version11 是服务器回写响应时使用的协议版本
const Version11 = "HTTP/1.1"

// 状态行，格式为 "<code> <reason>"
const (
	StatusOK                  = "200 OK"
	StatusBadRequest          = "400 BAD REQUEST"
	StatusNotFound            = "404 NOT FOUND"
	StatusPayloadTooLarge     = "413 PAYLOAD TOO LARGE"
	StatusInternalServerError = "500 INTERNAL SERVER ERROR"
)

// ContentTypeHTML 是 404 页面和 .html 文件使用的类型
const ContentTypeHTML = "text/html; charset=UTF-8"

// NotFoundBody 是没有任何路由匹配时返回的固定页面
const NotFoundBody = "<html>\r\n<body>\r\n\t<h1>404</h1>\r\n\t<p>Page Not Found</p>\r\n</body>\r\n</html>"

// Response 表示一个 HTTP 响应，Body 按原始字节处理，不做 UTF-8 解释
type Response struct {
	Version string
	Status  string
	Header  Header
	Body    []byte
}

// NewResponse 创建一个 HTTP/1.1 响应
func NewResponse(status string) *Response {
	return &Response{
		Version: Version11,
		Status:  status,
		Header:  make(Header),
	}
}

// NotFound 返回固定的 404 页面
func NotFound() *Response {
	return htmlResponse(StatusNotFound, NotFoundBody)
}

func BadRequest() *Response {
	return htmlResponse(StatusBadRequest, "<html>\r\n<body>\r\n\t<h1>400</h1>\r\n\t<p>Bad Request</p>\r\n</body>\r\n</html>")
}

func PayloadTooLarge() *Response {
	return htmlResponse(StatusPayloadTooLarge, "<html>\r\n<body>\r\n\t<h1>413</h1>\r\n\t<p>Payload Too Large</p>\r\n</body>\r\n</html>")
}

func InternalServerError() *Response {
	return htmlResponse(StatusInternalServerError, "<html>\r\n<body>\r\n\t<h1>500</h1>\r\n\t<p>Internal Server Error</p>\r\n</body>\r\n</html>")
}

func htmlResponse(status, body string) *Response {
	resp := NewResponse(status)
	resp.Header["Content-Type"] = ContentTypeHTML
	resp.Body = []byte(body)
	return resp
}

// Code 返回状态行里的数字状态码，无法解析时返回 0
func (r *Response) Code() int {
	code, _, _ := strings.Cut(r.Status, " ")
	n, err := strconv.Atoi(code)
	if err != nil {
		return 0
	}
	return n
}

// Bytes 序列化响应：状态行、头部、空行，然后是原始 body
func (r *Response) Bytes() []byte {
	buf := make([]byte, 0, 128+len(r.Body))
	buf = append(buf, r.Version...)
	buf = append(buf, ' ')
	buf = append(buf, r.Status...)
	buf = append(buf, CRLF...)
	buf = r.Header.appendTo(buf)
	buf = append(buf, CRLF...)
	buf = append(buf, r.Body...)
	return buf
}

// WriteTo 一次性写出整个响应
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}

// ParseResponse 解析一条完整的响应报文，主要给测试里的客户端使用
func ParseResponse(buf []byte) (*Response, error) {
	if len(buf) == 0 {
		return nil, httperrors.New(httperrors.MalformedRequest, "empty response", nil)
	}
	line, block, body := splitHead(buf)
	version, status, ok := strings.Cut(string(line), " ")
	if !ok || version == "" || status == "" {
		return nil, httperrors.New(httperrors.MalformedStatusLine, string(line), nil)
	}
	if body == nil {
		body = []byte{}
	}
	return &Response{
		Version: version,
		Status:  status,
		Header:  parseHeaderBlock(block),
		Body:    body,
	}, nil
}
