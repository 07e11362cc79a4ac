package http1

import (
	"strconv"
	"strings"

	"github.com/indigo-web/httpcore/config"
	"github.com/indigo-web/httpcore/http/status"
	"github.com/indigo-web/httpcore/internal/grammar"
	"github.com/indigo-web/httpcore/kv"
)

// bodyKind names which body discipline the framing resolver settled on.
type bodyKind uint8

const (
	bodyNone bodyKind = iota
	bodyFixed
	bodyChunked
)

// resolveFraming inspects the collected header list once, at the transition
// out of the header block, and decides how (or whether) a body follows. It
// never mutates headers; Transfer-Encoding wins over Content-Length per RFC
// 9112 6.1, and Content-Length is ignored without rejection when both are
// present.
func resolveFraming(headers *kv.Storage, cfg *config.Config) (bodyKind, int64, error) {
	if headers.Has("Transfer-Encoding") {
		return resolveTransferEncoding(headers)
	}

	if headers.Has("Content-Length") {
		return resolveContentLength(headers, cfg)
	}

	return bodyNone, 0, nil
}

func resolveTransferEncoding(headers *kv.Storage) (bodyKind, int64, error) {
	values := headers.Values("Transfer-Encoding")

	var last string

	for _, v := range values {
		for _, coding := range strings.Split(v, ",") {
			coding = strings.ToLower(string(grammar.TrimOWS([]byte(strings.TrimSpace(coding)))))
			if coding == "" {
				continue
			}

			last = coding
		}
	}

	if last != "chunked" {
		return bodyNone, 0, status.NewError(status.UnsupportedTransferEncoding)
	}

	return bodyChunked, 0, nil
}

// resolveContentLength accepts any number of Content-Length header lines, and
// any number of comma-separated values within each, as long as every value
// agrees. Only a genuine disagreement - not mere repetition - is rejected as
// DuplicateContentLength, matching RFC 9112 6.3 (2).
func resolveContentLength(headers *kv.Storage, cfg *config.Config) (bodyKind, int64, error) {
	var value int64
	seen := false

	for _, raw := range headers.Values("Content-Length") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				return bodyNone, 0, status.NewError(status.InvalidContentLength)
			}

			n, err := strconv.ParseInt(part, 10, 64)
			if err != nil || n < 0 {
				return bodyNone, 0, status.NewError(status.InvalidContentLength)
			}

			if seen && n != value {
				return bodyNone, 0, status.NewError(status.DuplicateContentLength)
			}

			value, seen = n, true
		}
	}

	if value > cfg.MaxBodySize {
		return bodyNone, 0, status.NewError(status.BodyTooLarge)
	}

	if value == 0 {
		return bodyNone, 0, nil
	}

	return bodyFixed, value, nil
}
