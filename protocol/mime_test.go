package protocol

import "testing"

func TestContentTypeForExtension(t *testing.T) {
	cases := map[string]string{
		"html": "text/html; charset=UTF-8",
		"HTML": "text/html; charset=UTF-8",
		".css": "text/css",
		"js":   "text/javascript",
		"png":  "image/png",
		"jpg":  "image/jpeg",
		"JPEG": "image/jpeg",
		"gif":  "image/gif",
		"ico":  "image/x-icon",
		"svg":  "image/svg+xml",
		"mid":  "audio/midi",
		"mp3":  "audio/mpeg",
		"wav":  "audio/wav",
		"mp4":  "video/mp4",
		"json": "application/json",
		"":     "text/plain",
		"tar":  "text/plain",
	}
	for ext, want := range cases {
		ExpectEqual(t, want, ContentTypeForExtension(ext))
	}
}
