package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxRequestBody caps request bodies after decompression. Dashboard forms are tiny.
const MaxRequestBody = 64 << 10

type gzipBody struct {
	*gzip.Reader
	raw io.Closer
}

func (b gzipBody) Close() error {
	_ = b.Reader.Close()
	return b.raw.Close()
}

// DecompressRequest unwraps gzip encoded bodies and bounds every body to MaxRequestBody.
func DecompressRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		body := c.Request.Body
		if body == nil || body == http.NoBody {
			c.Next()
			return
		}

		if gzipEncoded(c.Request) {
			zr, err := gzip.NewReader(body)
			if err != nil {
				abort(c, http.StatusBadRequest, "bad_request", "Request body is not valid gzip.")
				return
			}
			body = gzipBody{Reader: zr, raw: body}
			c.Request.Header.Del("Content-Encoding")
			c.Request.ContentLength = -1
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, body, MaxRequestBody)
		c.Next()
	}
}

func gzipEncoded(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Content-Encoding")), "gzip")
}
