// Package http1 implements the strict, incremental RFC 9112 request parser:
// the pre-body state machine, the body-framing resolver, and the two body
// sub-machines (fixed-length and chunked) it dispatches into.
package http1

import (
	"github.com/indigo-web/httpcore/config"
	"github.com/indigo-web/httpcore/http"
	"github.com/indigo-web/httpcore/http/method"
	"github.com/indigo-web/httpcore/http/proto"
	"github.com/indigo-web/httpcore/http/status"
	"github.com/indigo-web/httpcore/internal/buffer"
	"github.com/indigo-web/httpcore/internal/grammar"
	"github.com/indigo-web/httpcore/kv"
)

type state uint8

const (
	eStartLine state = iota
	eURI
	eVersion
	eRequestLineLF
	eHeaderStart
	eHeaderName
	eHeaderValueLeadingOWS
	eHeaderValue
	eHeaderValueLF
	eHeaderBlockLF
	eBodyFixed
	eBodyChunked
	eComplete
	eFailed
)

// versionTokenLen is the fixed width of an "HTTP/d.d" token, the only shape
// proto.FromBytes accepts.
const versionTokenLen = 8

// Parser is the pre-body state machine plus the two body sub-machines it
// transitions into once the framing resolver has run. It holds no
// reference to any I/O: every transition is driven by feed.
type Parser struct {
	cfg   *config.Config
	state state
	err   error

	methodBuf  buffer.Buffer
	uriBuf     buffer.Buffer
	headerName buffer.Buffer
	headerVal  buffer.Buffer

	versionBuf [versionTokenLen]byte
	versionPos int

	methodValue method.Value
	uriValue    string
	protoValue  proto.Proto
	headers     *kv.Storage

	fixed   fixedBody
	chunked chunkedParser

	body      []byte
	bodyCap   int64
	bodyTotal int64

	consumed int64
}

// New builds a Parser using cfg's caps. A Parser is reusable across
// requests via Reset.
func New(cfg *config.Config) *Parser {
	p := &Parser{
		cfg:        cfg,
		methodBuf:  buffer.New(cfg.MaxMethodLen, cfg.MaxMethodLen),
		uriBuf:     buffer.New(64, cfg.MaxURILen),
		headerName: buffer.New(64, cfg.MaxHeaderNameLen),
		headerVal:  buffer.New(64, cfg.MaxHeaderValueLen),
		headers:    kv.NewPrealloc(cfg.MaxHeadersCount),
	}
	p.reset()

	return p
}

// Reset clears all accumulated state and counters, returning the parser to
// its initial state while retaining every buffer's allocated capacity.
func (p *Parser) Reset() {
	p.reset()
}

func (p *Parser) reset() {
	p.state = eStartLine
	p.err = nil
	p.methodBuf.Clear()
	p.uriBuf.Clear()
	p.headerName.Clear()
	p.headerVal.Clear()
	p.versionPos = 0
	p.methodValue = method.Value{}
	p.uriValue = ""
	p.protoValue = proto.Unknown
	p.headers.Clear()
	p.body = p.body[:0]
	p.bodyTotal = 0
	p.consumed = 0
}

// IsComplete reports whether the parser has reached the terminal Complete
// state.
func (p *Parser) IsComplete() bool {
	return p.state == eComplete
}

// BytesConsumed returns the total number of bytes accepted across every
// Feed call since the last Reset.
func (p *Parser) BytesConsumed() int64 {
	return p.consumed
}

// Finish produces the HttpRequest once the parser has reached Complete. It
// is an error to call Finish before then.
func (p *Parser) Finish() (*http.Request, error) {
	if p.state != eComplete {
		return nil, status.ErrIncomplete
	}

	headers := kv.NewPrealloc(p.headers.Len())
	for _, pair := range p.headers.Expose() {
		headers.Add(pair.Key, pair.Value)
	}

	return &http.Request{
		Method:  p.methodValue,
		URI:     p.uriValue,
		Proto:   p.protoValue,
		Headers: headers,
		Body:    append([]byte(nil), p.body...),
	}, nil
}

// Feed advances the state machine with data. complete reports whether this
// call drove the parser to the terminal Complete state; when it does, n is
// the number of bytes out of data that belonged to the current request,
// and any bytes past n belong to a subsequent, pipelined request. A failed
// parser returns its stored error on every subsequent call without
// consuming anything.
func (p *Parser) Feed(data []byte) (n int, complete bool, err error) {
	if p.state == eFailed {
		return 0, false, p.err
	}

	if p.state == eComplete {
		return 0, true, nil
	}

	total := len(data)
	extra, err := p.feed(data)
	if err != nil {
		p.state = eFailed
		p.err = err
		return 0, false, err
	}

	consumedNow := total - len(extra)
	p.consumed += int64(consumedNow)

	return consumedNow, p.state == eComplete, nil
}

func (p *Parser) feed(data []byte) (extra []byte, err error) {
	switch p.state {
	case eStartLine:
		goto startLine
	case eURI:
		goto uri
	case eVersion:
		goto version
	case eRequestLineLF:
		goto requestLineLF
	case eHeaderStart:
		goto headerStart
	case eHeaderName:
		goto headerName
	case eHeaderValueLeadingOWS:
		goto headerValueLeadingOWS
	case eHeaderValue:
		goto headerValue
	case eHeaderValueLF:
		goto headerValueLF
	case eHeaderBlockLF:
		goto headerBlockLF
	case eBodyFixed:
		goto bodyFixed
	case eBodyChunked:
		goto bodyChunked
	default:
		panic("unreachable code")
	}

startLine:
	for i := 0; i < len(data); i++ {
		char := data[i]
		if char == ' ' {
			if !p.methodBuf.Append(data[:i]) {
				return nil, errAt(status.MethodTooLong, "start_line", char)
			}

			tok := p.methodBuf.Finish()
			if len(tok) == 0 {
				return nil, errIn(status.InvalidMethod, "start_line")
			}

			p.methodValue = method.ParseValue(string(tok))
			data = data[i+1:]
			goto uri
		}

		if !grammar.IsTchar(char) {
			return nil, errAt(status.InvalidMethod, "start_line", char)
		}
	}

	if !p.methodBuf.Append(data) {
		return nil, errIn(status.MethodTooLong, "start_line")
	}

	p.state = eStartLine
	return nil, nil

uri:
	for i := 0; i < len(data); i++ {
		char := data[i]
		if char == ' ' {
			if !p.uriBuf.Append(data[:i]) {
				return nil, errAt(status.URITooLong, "uri", char)
			}

			tok := p.uriBuf.Finish()
			if len(tok) == 0 {
				return nil, errIn(status.InvalidURI, "uri")
			}

			p.uriValue = string(tok)
			data = data[i+1:]
			goto version
		}

		if grammar.IsCtl(char) || char == 0x7f {
			return nil, errAt(status.InvalidURI, "uri", char)
		}
	}

	if !p.uriBuf.Append(data) {
		return nil, errIn(status.URITooLong, "uri")
	}

	p.state = eURI
	return nil, nil

version:
	for i := 0; i < len(data); i++ {
		char := data[i]
		if char == '\r' {
			data = data[i+1:]
			goto requestLineLF
		}

		if char == '\n' {
			return nil, errAt(status.MissingCRLF, "version", char)
		}

		if p.versionPos >= len(p.versionBuf) {
			return nil, errAt(status.InvalidVersion, "version", char)
		}

		p.versionBuf[p.versionPos] = char
		p.versionPos++
	}

	p.state = eVersion
	return nil, nil

requestLineLF:
	if len(data) == 0 {
		p.state = eRequestLineLF
		return nil, nil
	}

	if data[0] != '\n' {
		return nil, errAt(status.MissingCRLF, "request_line_lf", data[0])
	}

	p.protoValue = proto.FromBytes(p.versionBuf[:p.versionPos])
	if p.protoValue == proto.Unknown {
		return nil, errIn(status.InvalidVersion, "request_line_lf")
	}

	data = data[1:]
	goto headerStart

headerStart:
	if len(data) == 0 {
		p.state = eHeaderStart
		return nil, nil
	}

	switch data[0] {
	case '\r':
		data = data[1:]
		goto headerBlockLF
	case ' ', '\t':
		// a line starting with OWS right after CRLF is obsolete line
		// folding (RFC 9112 5.2), and is rejected rather than joined.
		return nil, errAt(status.ObsoleteLineFolding, "header_start", data[0])
	default:
		if !grammar.IsTchar(data[0]) {
			return nil, errAt(status.InvalidHeaderName, "header_start", data[0])
		}

		goto headerName
	}

headerName:
	for i := 0; i < len(data); i++ {
		char := data[i]
		if char == ':' {
			if !p.headerName.Append(data[:i]) {
				return nil, errAt(status.InvalidHeaderName, "header_name", char)
			}

			data = data[i+1:]
			goto headerValueLeadingOWS
		}

		if !grammar.IsTchar(char) {
			return nil, errAt(status.InvalidHeaderName, "header_name", char)
		}
	}

	if !p.headerName.Append(data) {
		return nil, errIn(status.InvalidHeaderName, "header_name")
	}

	p.state = eHeaderName
	return nil, nil

headerValueLeadingOWS:
	for len(data) > 0 && grammar.IsOWS(data[0]) {
		data = data[1:]
	}

	if len(data) == 0 {
		p.state = eHeaderValueLeadingOWS
		return nil, nil
	}

	goto headerValue

headerValue:
	for i := 0; i < len(data); i++ {
		char := data[i]
		if char == '\r' {
			if !p.headerVal.Append(data[:i]) {
				return nil, errAt(status.InvalidHeaderValue, "header_value", char)
			}

			data = data[i+1:]
			goto headerValueLF
		}

		if !grammar.IsHeaderValueByte(char) {
			return nil, errAt(status.InvalidHeaderValue, "header_value", char)
		}
	}

	if !p.headerVal.Append(data) {
		return nil, errIn(status.InvalidHeaderValue, "header_value")
	}

	p.state = eHeaderValue
	return nil, nil

headerValueLF:
	if len(data) == 0 {
		p.state = eHeaderValueLF
		return nil, nil
	}

	if data[0] != '\n' {
		return nil, errAt(status.MissingCRLF, "header_value_lf", data[0])
	}

	{
		name := string(p.headerName.Finish())
		value := string(grammar.TrimOWS(p.headerVal.Finish()))

		if p.headers.Len() >= p.cfg.MaxHeadersCount {
			return nil, errIn(status.TooManyHeaders, "header_value_lf")
		}

		p.headers.Add(name, value)
		p.headerName.Clear()
		p.headerVal.Clear()
	}

	data = data[1:]
	goto headerStart

headerBlockLF:
	if len(data) == 0 {
		p.state = eHeaderBlockLF
		return nil, nil
	}

	if data[0] != '\n' {
		return nil, errAt(status.MissingCRLF, "header_block_lf", data[0])
	}

	data = data[1:]

	{
		kind, n, err := resolveFraming(p.headers, p.cfg)
		if err != nil {
			return nil, err
		}

		switch kind {
		case bodyNone:
			p.state = eComplete
			return data, nil
		case bodyFixed:
			p.fixed = newFixedBody(n)
			p.bodyCap = p.cfg.MaxBodySize
			p.state = eBodyFixed
			goto bodyFixed
		case bodyChunked:
			p.chunked = newChunkedParser()
			p.bodyCap = p.cfg.MaxBodySize
			p.state = eBodyChunked
			goto bodyChunked
		}
	}

bodyFixed:
	{
		chunk, rest, done := p.fixed.feed(data)
		if err := p.appendBody(chunk); err != nil {
			return nil, err
		}

		data = rest

		if !done {
			p.state = eBodyFixed
			return nil, nil
		}

		p.state = eComplete
		return data, nil
	}

bodyChunked:
	for {
		var (
			chunk, rest []byte
			done        bool
			err         error
		)

		chunk, rest, done, err = p.chunked.Parse(data)
		if err != nil {
			return nil, err
		}

		if err := p.appendBody(chunk); err != nil {
			return nil, err
		}

		data = rest

		if done {
			p.state = eComplete
			return data, nil
		}

		if len(data) == 0 {
			p.state = eBodyChunked
			return nil, nil
		}
	}
}

func (p *Parser) appendBody(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	p.bodyTotal += int64(len(chunk))
	if p.bodyTotal > p.bodyCap {
		return errIn(status.BodyTooLarge, "body")
	}

	p.body = append(p.body, chunk...)
	return nil
}

func errAt(kind status.Kind, state string, offending byte) error {
	return status.NewErrorAt(kind, state, offending)
}

func errIn(kind status.Kind, state string) error {
	return status.NewErrorIn(kind, state)
}
