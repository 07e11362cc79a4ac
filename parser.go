// Package httpcore is a strict, incremental HTTP/1.1 request parser
// conforming to RFC 9112. It performs no I/O: callers push bytes in as
// they arrive and are told whether a complete request has formed.
package httpcore

import (
	"github.com/indigo-web/httpcore/config"
	"github.com/indigo-web/httpcore/http"
	"github.com/indigo-web/httpcore/http/status"
	"github.com/indigo-web/httpcore/internal/protocol/http1"
)

// Parser incrementally decodes a single HTTP/1.1 request at a time. A zero
// Parser is not usable; construct one with New or NewWithConfig.
type Parser struct {
	core *http1.Parser
}

// New builds a Parser using Default caps.
func New() *Parser {
	return NewWithConfig(config.Default())
}

// NewWithConfig builds a Parser using the caps in cfg. cfg is not copied;
// mutating it after construction is undefined.
func NewWithConfig(cfg *config.Config) *Parser {
	return &Parser{core: http1.New(cfg)}
}

// Feed pushes bytes into the parser. complete reports whether this call
// drove the parser to a fully parsed request; n is then the count of bytes
// out of data that belonged to it, with any remainder available for a
// subsequent Feed call on a pipelined connection (after Finish and Reset).
// When complete is false, every byte in data was consumed into internal
// buffers and n equals len(data).
func (p *Parser) Feed(data []byte) (n int, complete bool, err error) {
	return p.core.Feed(data)
}

// Finish produces the HttpRequest once Feed has reported complete. Calling
// it beforehand returns ErrIncomplete.
func (p *Parser) Finish() (*http.Request, error) {
	return p.core.Finish()
}

// Reset clears accumulated state and counters, returning the parser to its
// initial state while retaining every buffer's capacity, ready to parse
// another request (the next one in a pipelined connection, or an unrelated
// one after an error).
func (p *Parser) Reset() {
	p.core.Reset()
}

// IsComplete reports whether the parser has reached the terminal Complete
// state without consuming any input.
func (p *Parser) IsComplete() bool {
	return p.core.IsComplete()
}

// BytesConsumed returns the total number of bytes accepted across every
// Feed call since construction or the last Reset.
func (p *Parser) BytesConsumed() int64 {
	return p.core.BytesConsumed()
}

// Parse is a one-shot convenience wrapper: it feeds the entire byte slice,
// requires the result to be Complete, and rejects any trailing bytes past
// the request with ErrTrailingData. Use the incremental Feed/Finish pair
// instead when a connection may be pipelined or the input may arrive in
// fragments.
func Parse(data []byte) (*http.Request, error) {
	return ParseWithConfig(data, config.Default())
}

// ParseWithConfig behaves like Parse but with caller-supplied caps.
func ParseWithConfig(data []byte, cfg *config.Config) (*http.Request, error) {
	p := NewWithConfig(cfg)

	n, complete, err := p.Feed(data)
	if err != nil {
		return nil, err
	}

	if !complete {
		return nil, status.ErrIncomplete
	}

	if n != len(data) {
		return nil, status.ErrTrailingData
	}

	return p.Finish()
}
