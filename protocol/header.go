package protocol

import (
	"bytes"
	"sort"
	"strings"
)

// CRLF 回车换行，HTTP 报文的行结束符
const CRLF = "\r\n"

var headerSeparator = []byte("\r\n\r\n")

// Header 不同于 http.Header，只保存单值，key 保持收到时的大小写
type Header map[string]string

// Clone 返回一份独立的拷贝
func (h Header) Clone() Header {
	if h == nil {
		return nil
	}
	c := make(Header, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}

// appendTo 按 key 排序输出，保证同一个 map 的输出是确定的
func (h Header) appendTo(buf []byte) []byte {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf = append(buf, k...)
		buf = append(buf, ": "...)
		buf = append(buf, h[k]...)
		buf = append(buf, CRLF...)
	}
	return buf
}

// parseHeaderBlock 解析首行之后、空行之前的头部块。
// 每行按第一个 ": " 切分，不含 ": " 的行直接忽略。
func parseHeaderBlock(block []byte) Header {
	headers := make(Header)
	for _, line := range strings.Split(string(block), CRLF) {
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		headers[key] = value
	}
	return headers
}

// splitHead 把报文拆成首行、头部块和 body。
// 找不到空行时，头部块延伸到末尾，body 为 nil。
func splitHead(buf []byte) (line, block, body []byte) {
	head := buf
	if i := bytes.Index(buf, headerSeparator); i >= 0 {
		head = buf[:i]
		body = buf[i+len(headerSeparator):]
	}
	if i := bytes.Index(head, []byte(CRLF)); i >= 0 {
		return head[:i], head[i+len(CRLF):], body
	}
	return head, nil, body
}
