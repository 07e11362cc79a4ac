package http1

import (
	"strings"
	"testing"

	"github.com/indigo-web/httpcore/config"
	"github.com/indigo-web/httpcore/http/method"
	"github.com/indigo-web/httpcore/http/proto"
	"github.com/indigo-web/httpcore/http/status"
	"github.com/indigo-web/httpcore/internal/requestgen"
	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, p *Parser, data []byte) (n int, err error) {
	total := 0

	for {
		consumed, complete, e := p.Feed(data)
		total += consumed
		data = data[consumed:]

		if e != nil {
			return total, e
		}

		if complete {
			return total, nil
		}

		require.NotEmpty(t, data, "parser asked for more input it never got")
	}
}

func TestParserSimpleRequest(t *testing.T) {
	p := New(config.Default())
	raw := []byte("GET /foo?bar=baz HTTP/1.1\r\nHost: localhost\r\nX-Custom: value\r\n\r\n")

	n, err := parseAll(t, p, raw)
	require.NoError(t, err)
	require.Equal(t, len(raw), n)
	require.True(t, p.IsComplete())

	req, err := p.Finish()
	require.NoError(t, err)
	require.Equal(t, method.GET, req.Method.Method)
	require.Equal(t, "/foo?bar=baz", req.URI)
	require.Equal(t, proto.HTTP11, req.Proto)

	v, ok := req.HeaderValue("host")
	require.True(t, ok)
	require.Equal(t, "localhost", v)
}

func TestParserFeedByteAtATime(t *testing.T) {
	p := New(config.Default())
	raw := []byte("POST / HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello")

	var total int

	for i := 0; i < len(raw); i++ {
		n, complete, err := p.Feed(raw[i : i+1])
		require.NoError(t, err)
		total += n

		if i < len(raw)-1 {
			require.False(t, complete)
		} else {
			require.True(t, complete)
		}
	}

	req, err := p.Finish()
	require.NoError(t, err)
	require.Equal(t, "hello", string(req.Body))
}

func TestParserIncrementalEquivalence(t *testing.T) {
	raw := requestgen.GenerateWithBody("resource", requestgen.Headers(8), []byte(strings.Repeat("x", 237)))

	whole := New(config.Default())
	wholeN, err := parseAll(t, whole, raw)
	require.NoError(t, err)

	for split := 1; split < len(raw); split++ {
		p := New(config.Default())
		n1, complete1, err1 := p.Feed(raw[:split])
		require.NoError(t, err1)

		total := n1

		if !complete1 {
			n2, err2 := parseAll(t, p, raw[split:])
			require.NoError(t, err2)
			total += n2
		}

		require.Equal(t, wholeN, total, "split at %d produced a different consumed count", split)
	}
}

func TestParserRejectsBareLF(t *testing.T) {
	p := New(config.Default())
	_, err := parseAll(t, p, []byte("GET / HTTP/1.1\nHost: x\r\n\r\n"))
	require.Error(t, err)
	require.Equal(t, status.MissingCRLF, err.(status.ParseError).Kind)
}

func TestParserRejectsObsoleteLineFolding(t *testing.T) {
	p := New(config.Default())
	_, err := parseAll(t, p, []byte("GET / HTTP/1.1\r\nX-Foo: bar\r\n continued\r\n\r\n"))
	require.Error(t, err)
	require.Equal(t, status.ObsoleteLineFolding, err.(status.ParseError).Kind)
}

func TestParserRejectsUnsupportedVersion(t *testing.T) {
	p := New(config.Default())
	_, err := parseAll(t, p, []byte("GET / HTTP/2.0\r\n\r\n"))
	require.Error(t, err)
	require.Equal(t, status.InvalidVersion, err.(status.ParseError).Kind)
}

func TestParserDuplicateContentLength(t *testing.T) {
	p := New(config.Default())
	_, err := parseAll(t, p, []byte("POST / HTTP/1.1\r\nContent-Length: 5\r\nContent-Length: 6\r\n\r\nhello!"))
	require.Error(t, err)
	require.Equal(t, status.DuplicateContentLength, err.(status.ParseError).Kind)
}

func TestParserDuplicateContentLengthAcceptedWhenEqual(t *testing.T) {
	p := New(config.Default())
	n, err := parseAll(t, p, []byte("POST / HTTP/1.1\r\nContent-Length: 5\r\nContent-Length: 5\r\n\r\nHello"))
	require.NoError(t, err)
	require.Equal(t, len("POST / HTTP/1.1\r\nContent-Length: 5\r\nContent-Length: 5\r\n\r\nHello"), n)
}

func TestParserTransferEncodingWinsOverContentLength(t *testing.T) {
	p := New(config.Default())
	raw := []byte("POST / HTTP/1.1\r\nContent-Length: 999\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n0\r\n\r\n")

	n, err := parseAll(t, p, raw)
	require.NoError(t, err)
	require.Equal(t, len(raw), n)

	req, err := p.Finish()
	require.NoError(t, err)
	require.Equal(t, "hello", string(req.Body))
}

func TestParserHeadersCaseInsensitiveLookup(t *testing.T) {
	p := New(config.Default())
	raw := []byte("GET / HTTP/1.1\r\nhOsT: example.com\r\n\r\n")

	_, err := parseAll(t, p, raw)
	require.NoError(t, err)

	req, err := p.Finish()
	require.NoError(t, err)

	v, ok := req.HeaderValue("HOST")
	require.True(t, ok)
	require.Equal(t, "example.com", v)
}

func TestParserMethodTooLong(t *testing.T) {
	cfg := *config.Default()
	cfg.MaxMethodLen = 3
	p := New(&cfg)

	_, err := parseAll(t, p, []byte("PATCH / HTTP/1.1\r\n\r\n"))
	require.Error(t, err)
	require.Equal(t, status.MethodTooLong, err.(status.ParseError).Kind)
}

func TestParserBodyTooLarge(t *testing.T) {
	cfg := *config.Default()
	cfg.MaxBodySize = 4
	p := New(&cfg)

	_, err := parseAll(t, p, []byte("POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\n0123456789"))
	require.Error(t, err)
	require.Equal(t, status.BodyTooLarge, err.(status.ParseError).Kind)
}

func TestParserFailedParserSticks(t *testing.T) {
	p := New(config.Default())
	_, err := parseAll(t, p, []byte("GET / HTTP/9.9\r\n\r\n"))
	require.Error(t, err)

	n, complete, err2 := p.Feed([]byte("more data"))
	require.Equal(t, 0, n)
	require.False(t, complete)
	require.Equal(t, err, err2)
}

func TestParserReset(t *testing.T) {
	p := New(config.Default())
	_, err := parseAll(t, p, []byte("GET /first HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)

	p.Reset()
	require.False(t, p.IsComplete())
	require.Equal(t, int64(0), p.BytesConsumed())

	_, err = parseAll(t, p, []byte("GET /second HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)

	req, err := p.Finish()
	require.NoError(t, err)
	require.Equal(t, "/second", req.URI)
}

func TestParserPipelining(t *testing.T) {
	p := New(config.Default())
	raw := []byte("GET /a HTTP/1.1\r\n\r\nGET /b HTTP/1.1\r\n\r\n")

	n, complete, err := p.Feed(raw)
	require.NoError(t, err)
	require.True(t, complete)
	require.Less(t, n, len(raw))

	req, err := p.Finish()
	require.NoError(t, err)
	require.Equal(t, "/a", req.URI)

	p.Reset()
	n2, complete2, err2 := p.Feed(raw[n:])
	require.NoError(t, err2)
	require.True(t, complete2)
	require.Equal(t, len(raw)-n, n2)
}

func BenchmarkParser(b *testing.B) {
	cfg := config.Default()

	b.Run("with 5 headers", func(b *testing.B) {
		data := requestgen.Generate(strings.Repeat("a", 64), requestgen.Headers(5))
		p := New(cfg)
		b.SetBytes(int64(len(data)))
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_, _, _ = p.Feed(data)
			p.Reset()
		}
	})

	b.Run("with 50 headers", func(b *testing.B) {
		data := requestgen.Generate(strings.Repeat("a", 64), requestgen.Headers(50))
		p := New(cfg)
		b.SetBytes(int64(len(data)))
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_, _, _ = p.Feed(data)
			p.Reset()
		}
	})
}
