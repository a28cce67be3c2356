package protocol

import "strings"

// DefaultContentType 用于扩展名不在表里的文件
const DefaultContentType = "text/plain"

var contentTypes = map[string]string{
	"html": ContentTypeHTML,
	"css":  "text/css",
	"js":   "text/javascript",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"ico":  "image/x-icon",
	"svg":  "image/svg+xml",
	"mid":  "audio/midi",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"mp4":  "video/mp4",
	"json": "application/json",
}

// ContentTypeForExtension 按扩展名查 MIME 类型，大小写不敏感，允许带前导 '.'
func ContentTypeForExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if t, ok := contentTypes[ext]; ok {
		return t
	}
	return DefaultContentType
}
