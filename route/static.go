package route

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hnustlzh2/http-server/protocol"
)

// IndexFile 会额外绑定到所在目录路径上的文件名
const IndexFile = "index.html"

// StaticRoute 描述 RegisterStaticTree 注册的一条路由
type StaticRoute struct {
	Path        string
	Source      string // 相对于根目录，使用 '/' 分隔
	ContentType string
}

// RegisterStaticDir 把本地目录 dir 下的文件注册到路由表
func RegisterStaticDir(t *Table, dir, at string, policy CachePolicy) ([]StaticRoute, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static directory %s: not a directory", dir)
	}
	return RegisterStaticTree(t, os.DirFS(dir), at, policy)
}

// RegisterStaticTree 递归遍历 fsys，每个普通文件注册为 GET /<at>/<相对路径>。
// 名为 index.html 的文件同时绑定到目录路径，带与不带结尾斜杠各一条。
func RegisterStaticTree(t *Table, fsys fs.FS, at string, policy CachePolicy) ([]StaticRoute, error) {
	prefix := mountPrefix(at)
	var routes []StaticRoute

	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		contentType := protocol.ContentTypeForExtension(path.Ext(name))
		entry, err := NewStaticFile(FileRef{FS: fsys, Name: name}, contentType, policy)
		if err != nil {
			return err
		}

		rel := filepath.ToSlash(name)
		for _, p := range boundPaths(prefix, rel) {
			t.Insert(protocol.GET, p, entry)
			routes = append(routes, StaticRoute{Path: p, Source: rel, ContentType: contentType})
		}
		return nil
	})
	if err != nil {
		return routes, fmt.Errorf("registering static tree: %w", err)
	}
	return routes, nil
}

// mountPrefix 把 at 规范成 "" 或 "/prefix"
func mountPrefix(at string) string {
	at = strings.Trim(filepath.ToSlash(at), "/")
	if at == "" {
		return ""
	}
	return "/" + at
}

// boundPaths 返回一个文件要绑定的全部路径
func boundPaths(prefix, rel string) []string {
	paths := []string{prefix + "/" + rel}
	if path.Base(rel) != IndexFile {
		return paths
	}
	dir := path.Dir(rel)
	if dir == "." {
		if prefix == "" {
			return append(paths, "/")
		}
		return append(paths, prefix, prefix+"/")
	}
	return append(paths, prefix+"/"+dir, prefix+"/"+dir+"/")
}
