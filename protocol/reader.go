package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	httperrors "github.com/hnustlzh2/http-server/errors"
)

// Limits 限制一条请求能读取的字节数
type Limits struct {
	MaxHeaderBytes int // 首行加头部，含结尾空行
	MaxBodyBytes   int
}

// DefaultLimits 返回默认的读取上限
func DefaultLimits() Limits {
	return Limits{
		MaxHeaderBytes: 8 << 10,
		MaxBodyBytes:   1 << 20,
	}
}

// ReadRequest 从 reader 中读取一条完整的请求并解析。
// 先读到空行为止的头部，再按 Content-Length 读取 body。
func ReadRequest(r *bufio.Reader, limits Limits, policy MethodPolicy) (*Request, error) {
	head, err := readHead(r, limits.MaxHeaderBytes)
	if err != nil {
		return nil, err
	}

	_, block, _ := splitHead(head)
	length, err := bodyLength(parseHeaderBlock(block))
	if err != nil {
		return nil, err
	}
	if length > limits.MaxBodyBytes {
		return nil, httperrors.New(httperrors.RequestTooLarge,
			"body of "+strconv.Itoa(length)+" bytes", nil)
	}

	msg := head
	if length > 0 {
		msg = make([]byte, len(head)+length)
		copy(msg, head)
		if _, err := io.ReadFull(r, msg[len(head):]); err != nil {
			return nil, httperrors.New(httperrors.ReadFailure, "reading request body", err)
		}
	}
	return ParseRequestPolicy(msg, policy)
}

// readHead 读取首行和头部，直到遇到空行，行结束符可以是 CRLF 或单独的 LF。
// 返回的头部统一使用 CRLF。首行之前的空行会被跳过，但同样计入 max。
func readHead(r *bufio.Reader, max int) ([]byte, error) {
	var head, line []byte
	read := 0
	for {
		chunk, err := r.ReadSlice('\n')
		read += len(chunk)
		if read > max {
			return nil, httperrors.New(httperrors.RequestTooLarge, "request head", nil)
		}
		line = append(line, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil {
			if len(head) == 0 && len(line) == 0 && errors.Is(err, io.EOF) {
				return nil, httperrors.New(httperrors.ConnectionClosed, "", err)
			}
			return nil, httperrors.New(httperrors.ReadFailure, "reading request head", err)
		}

		text := bytes.TrimSuffix(bytes.TrimSuffix(line, []byte("\n")), []byte("\r"))
		if len(text) == 0 {
			line = line[:0]
			if len(head) == 0 {
				continue
			}
			return append(head, CRLF...), nil
		}
		head = append(head, text...)
		head = append(head, CRLF...)
		line = line[:0]
	}
}

// bodyLength 从头部取出 body 长度，不支持 chunked
func bodyLength(h Header) (int, error) {
	for k, v := range h {
		if strings.EqualFold(k, "Transfer-Encoding") && !strings.EqualFold(strings.TrimSpace(v), "identity") {
			return 0, httperrors.New(httperrors.MalformedRequest, "unsupported transfer-encoding "+v, nil)
		}
	}
	for k, v := range h {
		if !strings.EqualFold(k, "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return 0, httperrors.New(httperrors.MalformedRequest, "invalid Content-Length "+v, err)
		}
		return n, nil
	}
	return 0, nil
}
