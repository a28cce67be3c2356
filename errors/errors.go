// Package errors 定义服务器各层共用的错误类型。
package errors

import "fmt"

// Kind 表示错误的种类，本身也实现 error，可直接作为哨兵错误使用
type Kind int

const (
	BindFailure Kind = iota
	AcceptFailure
	ReadFailure
	ConnectionClosed
	MalformedRequest
	MalformedStatusLine
	UnknownMethod
	RequestTooLarge
	FileNotFound
	FileReadFailure
	WriteFailure
	HandlerFailure
)

func (k Kind) Error() string {
	switch k {
	case BindFailure:
		return "bind failed"
	case AcceptFailure:
		return "accept failed"
	case ReadFailure:
		return "read failed"
	case ConnectionClosed:
		return "connection closed"
	case MalformedRequest:
		return "malformed request"
	case MalformedStatusLine:
		return "malformed request line"
	case UnknownMethod:
		return "unknown method"
	case RequestTooLarge:
		return "request too large"
	case FileNotFound:
		return "file not found"
	case FileReadFailure:
		return "file read failed"
	case WriteFailure:
		return "write failed"
	case HandlerFailure:
		return "handler failed"
	default:
		return fmt.Sprintf("unknown error kind: %d", int(k))
	}
}

// Error 携带错误种类、补充说明以及底层错误
type Error struct {
	Kind       Kind
	Detail     string
	underlying error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.underlying != nil {
		msg = fmt.Sprintf("%s (underlying: %v)", msg, e.underlying)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.underlying
}

// Is 让 errors.Is(err, UnknownMethod) 这样的判断成立
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New 创建一个新的 *Error
func New(kind Kind, detail string, underlying error) *Error {
	return &Error{
		Kind:       kind,
		Detail:     detail,
		underlying: underlying,
	}
}

// KindOf 沿着错误链找到第一个 *Error 并返回其种类
func KindOf(err error) (Kind, bool) {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Kind, true
		case Kind:
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0, false
		}
		err = u.Unwrap()
	}
	return 0, false
}
