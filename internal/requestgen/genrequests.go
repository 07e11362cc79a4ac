// Package requestgen builds raw RFC 9112 request byte streams for tests and
// benchmarks that need realistic, variably-sized input without hand-writing
// it byte by byte.
package requestgen

import (
	"strconv"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/httpcore/kv"
)

// Headers builds n header pairs plus a trailing Host header, with random
// values so repeated benchmark runs don't get folded into a single constant
// by the compiler.
func Headers(n int) *kv.Storage {
	hdrs := kv.NewPrealloc(n + 1)

	for i := 0; i < n; i++ {
		hdrs.Add("x-random-header-"+strconv.Itoa(i), uniuri.NewLen(32))
	}

	return hdrs.Add("Host", "localhost")
}

// HeadersBlock renders hdrs as the header section of a request, each pair
// on its own CRLF-terminated line.
func HeadersBlock(hdrs *kv.Storage) (buff []byte) {
	for _, pair := range hdrs.Expose() {
		buff = append(buff, pair.Key+": "+pair.Value+"\r\n"...)
	}

	return buff
}

// Generate renders a complete GET request line plus headers plus the
// terminating empty line, with no body.
func Generate(uri string, hdrs *kv.Storage) (request []byte) {
	request = append(request, "GET /"+uri+" HTTP/1.1\r\n"...)
	request = append(request, HeadersBlock(hdrs)...)

	return append(request, '\r', '\n')
}

// GenerateWithBody behaves like Generate but renders a POST request line,
// adds a Content-Length header matching body to hdrs, and appends the body
// itself.
func GenerateWithBody(uri string, hdrs *kv.Storage, body []byte) []byte {
	hdrs.Add("Content-Length", strconv.Itoa(len(body)))
	request := append([]byte("POST /"+uri+" HTTP/1.1\r\n"), HeadersBlock(hdrs)...)
	request = append(request, '\r', '\n')

	return append(request, body...)
}
