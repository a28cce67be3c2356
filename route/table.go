// Package route 保存 (方法, 路径) 到静态文件或处理函数的映射。
package route

import (
	"sort"

	"github.com/hnustlzh2/http-server/protocol"
)

// Key 是路由表的键，路径必须完全相等才算匹配
type Key struct {
	Method protocol.Method
	Path   string
}

// Table 路由表。在开始服务之前构建，服务期间只读，
// 因此多个连接可以不加锁地同时 Lookup。
type Table struct {
	entries map[Key]Entry
}

// NewTable 创建一个空路由表
func NewTable() *Table {
	return &Table{
		entries: make(map[Key]Entry),
	}
}

// Insert 注册路由，同一个 (method, path) 以最后一次为准
func (t *Table) Insert(method protocol.Method, path string, entry Entry) {
	t.entries[Key{method, path}] = entry
}

// Handle 注册处理函数
func (t *Table) Handle(method protocol.Method, path string, handler HandlerFunc) {
	t.Insert(method, path, handler)
}

// InsertStatic 把一段内存中的内容注册为 GET 静态路由
func (t *Table) InsertStatic(path string, content []byte, contentType string) {
	t.Insert(protocol.GET, path, NewStaticContent(content, contentType))
}

// Lookup 精确匹配，不做前缀、通配或结尾斜杠的处理
func (t *Table) Lookup(method protocol.Method, path string) (Entry, bool) {
	if t == nil {
		return nil, false
	}
	e, ok := t.entries[Key{method, path}]
	return e, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Routes 返回所有键，按路径、方法排序
func (t *Table) Routes() []Key {
	if t == nil {
		return nil
	}
	keys := make([]Key, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}
		return keys[i].Method < keys[j].Method
	})
	return keys
}

// Clone 浅拷贝路由表，entry 本身在服务期间不会被修改，可以共享
func (t *Table) Clone() *Table {
	c := NewTable()
	if t == nil {
		return c
	}
	for k, e := range t.entries {
		c.entries[k] = e
	}
	return c
}
