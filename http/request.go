// Package http holds the output aggregate a completed parse produces: the
// request line, the ordered header list, and the decoded body.
package http

import (
	"strconv"
	"strings"

	"github.com/indigo-web/httpcore/http/method"
	"github.com/indigo-web/httpcore/http/proto"
	"github.com/indigo-web/httpcore/kv"
)

// Request is produced by Parser.Finish once parsing has reached Complete. It
// owns its header storage and body independently of the Parser that built
// it, so it remains valid across a Parser.Reset.
type Request struct {
	Method  method.Value
	URI     string
	Proto   proto.Proto
	Headers *kv.Storage
	Body    []byte
}

// HeaderValue returns the first value stored under name, case-insensitively.
func (r *Request) HeaderValue(name string) (string, bool) {
	return r.Headers.Get(name)
}

// HeaderValues returns every value stored under name, in arrival order.
func (r *Request) HeaderValues(name string) []string {
	return r.Headers.Values(name)
}

// ContentLength reports the parsed Content-Length, when the body was framed
// as fixed-length. It returns (0, false) for a chunked or bodyless request,
// mirroring the fact that the Content-Length header plays no role once
// Transfer-Encoding has taken over framing.
func (r *Request) ContentLength() (int64, bool) {
	if r.IsChunked() {
		return 0, false
	}

	raw, ok := r.Headers.Get("Content-Length")
	if !ok {
		return 0, false
	}

	if i := strings.IndexByte(raw, ','); i >= 0 {
		raw = raw[:i]
	}

	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

// IsChunked reports whether the body, if any, was framed with the chunked
// transfer coding.
func (r *Request) IsChunked() bool {
	for _, te := range r.Headers.Values("Transfer-Encoding") {
		for _, coding := range strings.Split(te, ",") {
			if strings.EqualFold(strings.TrimSpace(coding), "chunked") {
				return true
			}
		}
	}

	return false
}
