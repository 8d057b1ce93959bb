package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// Compression levels re-exported so callers do not import compress/gzip.
const (
	DefaultCompression = gzip.DefaultCompression
	BestSpeed          = gzip.BestSpeed
	BestCompression    = gzip.BestCompression
)

// gzipResponseWriter routes the response body through a gzip writer while
// delegating headers to the underlying gin writer.
type gzipResponseWriter struct {
	gin.ResponseWriter
	gz *gzip.Writer
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	return w.gz.Write(data)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.gz.Write([]byte(s))
}

func (w *gzipResponseWriter) WriteHeader(code int) {
	// The declared length describes the uncompressed body.
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(code)
}

var gzipPool = sync.Pool{
	New: func() interface{} {
		gz, _ := gzip.NewWriterLevel(io.Discard, DefaultCompression)
		return gz
	},
}

// Compression gzips response bodies for clients that accept it. Writers are
// pooled; one is checked out per compressed response.
func Compression(level int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !acceptsGzip(c.Request) {
			c.Next()
			return
		}

		gz := gzipPool.Get().(*gzip.Writer)
		defer gzipPool.Put(gz)

		gz.Reset(c.Writer)
		defer gz.Close()

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")

		c.Writer = &gzipResponseWriter{ResponseWriter: c.Writer, gz: gz}

		c.Next()
	}
}

// acceptsGzip reports whether the response to this request should be
// compressed. Upgraded connections and bodies that arrive pre-compressed
// are passed through.
func acceptsGzip(req *http.Request) bool {
	if !strings.Contains(req.Header.Get("Accept-Encoding"), "gzip") {
		return false
	}

	if strings.Contains(strings.ToLower(req.Header.Get("Connection")), "upgrade") {
		return false
	}

	contentType := req.Header.Get("Content-Type")
	if contentType == "" {
		// JSON responses to body-less requests.
		return true
	}

	for _, compressible := range []string{
		"text/",
		"application/json",
		"application/javascript",
		"application/xml",
		"application/x-www-form-urlencoded",
	} {
		if strings.Contains(contentType, compressible) {
			return true
		}
	}
	return false
}
