package protocol

import (
	httperrors "github.com/hnustlzh2/http-server/errors"
)

// Method 是封闭的 HTTP 方法枚举，可作为 map key 的一部分
type Method uint8

const (
	GET Method = iota
	POST
	PUT
	DELETE
	HEAD
	CONNECT
	OPTIONS
	TRACE
	PATCH
)

var methodNames = [...]string{
	GET:     "GET",
	POST:    "POST",
	PUT:     "PUT",
	DELETE:  "DELETE",
	HEAD:    "HEAD",
	CONNECT: "CONNECT",
	OPTIONS: "OPTIONS",
	TRACE:   "TRACE",
	PATCH:   "PATCH",
}

func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return "UNKNOWN"
}

// MethodPolicy 决定解析整条请求时遇到未知方法的处理方式
type MethodPolicy int

const (
	// MethodStrict 未知方法直接报 UnknownMethod
	MethodStrict MethodPolicy = iota
	// MethodFallbackGET 未知方法按 GET 处理
	MethodFallbackGET
)

// ParseMethod 严格解析方法名，大小写敏感
func ParseMethod(s string) (Method, error) {
	for i, name := range methodNames {
		if name == s {
			return Method(i), nil
		}
	}
	return GET, httperrors.New(httperrors.UnknownMethod, s, nil)
}

func parseMethodPolicy(s string, policy MethodPolicy) (Method, error) {
	m, err := ParseMethod(s)
	if err != nil && policy == MethodFallbackGET {
		return GET, nil
	}
	return m, err
}
