package protocol

import (
	"sort"
	"strings"
)

// URI 是请求目标：路径加上可选的查询参数
// Query 为 nil 表示请求目标里没有 '?'
type URI struct {
	Path  string
	Query map[string]string
}

// ParseURI 按第一个 '?' 切分路径与查询串。
// 查询串先按 '&' 再按第一个 '=' 切分，重复的 key 以最后一次为准，
// 没有 '=' 的 key 对应空字符串。
func ParseURI(s string) URI {
	path, rawQuery, ok := strings.Cut(s, "?")
	if !ok {
		return URI{Path: s}
	}
	query := make(map[string]string)
	for _, param := range strings.Split(rawQuery, "&") {
		if param == "" {
			continue
		}
		k, v, _ := strings.Cut(param, "=")
		query[k] = v
	}
	return URI{Path: path, Query: query}
}

func (u URI) String() string {
	if u.Query == nil {
		return u.Path
	}
	keys := make([]string, 0, len(u.Query))
	for k := range u.Query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(u.Path)
	b.WriteByte('?')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(u.Query[k])
	}
	return b.String()
}
