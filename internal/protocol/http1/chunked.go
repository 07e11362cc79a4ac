package http1

import (
	"github.com/indigo-web/httpcore/http/status"
	"github.com/indigo-web/httpcore/internal/grammar"
	"github.com/indigo-web/httpcore/internal/hexconv"
)

type chunkedState uint8

const (
	eChunkSize chunkedState = iota
	eChunkExt
	eChunkExtQuoted
	eChunkExtQuotedEscape
	eChunkSizeCR
	eChunkData
	eChunkDataCR
	eChunkDataLF
	eTrailerStart
	eTrailerName
	eTrailerValue
	eTrailerValueCR
	eTrailerEndLF
)

// maxChunkSizeDigits bounds chunk-size accumulation to 64 bits' worth of hex
// digits; anything longer is rejected as an overflow rather than silently
// wrapping.
const maxChunkSizeDigits = 16

// chunkedParser decodes the chunked transfer coding (RFC 9112 7.1) one feed
// call at a time. It resets itself automatically once the terminating
// trailer section is consumed.
type chunkedParser struct {
	state       chunkedState
	sizeDigits  uint8
	chunkLength uint64
}

func newChunkedParser() chunkedParser {
	return chunkedParser{state: eChunkSize}
}

// Parse consumes data up to the end of at most one chunk (or the trailer
// section), returning that chunk's decoded bytes (a view into data, not
// copied) and the unconsumed rest of data, which callers feed back in.
// done reports whether the trailer section, and therefore the whole chunked
// body, is complete; extra then holds the bytes past it.
func (c *chunkedParser) Parse(data []byte) (chunk, extra []byte, done bool, err error) {
	switch c.state {
	case eChunkSize:
		goto chunkSize
	case eChunkExt:
		goto chunkExt
	case eChunkExtQuoted:
		goto chunkExtQuoted
	case eChunkExtQuotedEscape:
		goto chunkExtQuotedEscape
	case eChunkSizeCR:
		goto chunkSizeCR
	case eChunkData:
		goto chunkData
	case eChunkDataCR:
		goto chunkDataCR
	case eChunkDataLF:
		goto chunkDataLF
	case eTrailerStart:
		goto trailerStart
	case eTrailerName:
		goto trailerName
	case eTrailerValue:
		goto trailerValue
	case eTrailerValueCR:
		goto trailerValueCR
	case eTrailerEndLF:
		goto trailerEndLF
	default:
		panic("unreachable code")
	}

chunkSize:
	for i := 0; i < len(data); i++ {
		switch char := data[i]; char {
		case ';':
			data = data[i+1:]
			goto chunkExt
		case '\r':
			data = data[i+1:]
			goto chunkSizeCR
		case '\n':
			return nil, nil, false, chunkErrAt(status.InvalidChunkTerminator, "chunk_size", char)
		default:
			val := hexconv.Halfbyte[char]
			if val == 0xFF {
				return nil, nil, false, chunkErrAt(status.InvalidChunkSize, "chunk_size", char)
			}

			if c.sizeDigits++; c.sizeDigits > maxChunkSizeDigits {
				return nil, nil, false, chunkErrIn(status.InvalidChunkSize, "chunk_size")
			}

			c.chunkLength = (c.chunkLength << 4) | uint64(val)
		}
	}

	c.state = eChunkSize
	return nil, nil, false, nil

chunkExt:
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '"':
			data = data[i+1:]
			goto chunkExtQuoted
		case '\r':
			data = data[i+1:]
			goto chunkSizeCR
		}
	}

	c.state = eChunkExt
	return nil, nil, false, nil

chunkExtQuoted:
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\\':
			data = data[i+1:]
			goto chunkExtQuotedEscape
		case '"':
			data = data[i+1:]
			goto chunkExt
		}
	}

	c.state = eChunkExtQuoted
	return nil, nil, false, nil

chunkExtQuotedEscape:
	if len(data) == 0 {
		c.state = eChunkExtQuotedEscape
		return nil, nil, false, nil
	}

	data = data[1:]
	goto chunkExtQuoted

chunkSizeCR:
	if len(data) == 0 {
		c.state = eChunkSizeCR
		return nil, nil, false, nil
	}

	if data[0] != '\n' {
		return nil, nil, false, chunkErrAt(status.InvalidChunkTerminator, "chunk_size_lf", data[0])
	}

	data = data[1:]
	c.sizeDigits = 0

	if c.chunkLength == 0 {
		goto trailerStart
	}

	goto chunkData

chunkData:
	{
		n := min(c.chunkLength, uint64(len(data)))
		c.chunkLength -= n
		chunk = data[:n]
		data = data[n:]

		if c.chunkLength == 0 {
			c.state = eChunkDataCR
			goto chunkDataCR
		}

		c.state = eChunkData
		return chunk, data, false, nil
	}

chunkDataCR:
	if len(data) == 0 {
		c.state = eChunkDataCR
		return chunk, nil, false, nil
	}

	if data[0] != '\r' {
		return chunk, nil, false, chunkErrAt(status.InvalidChunkTerminator, "chunk_data_cr", data[0])
	}

	data = data[1:]
	goto chunkDataLF

chunkDataLF:
	if len(data) == 0 {
		c.state = eChunkDataLF
		return chunk, nil, false, nil
	}

	if data[0] != '\n' {
		return chunk, nil, false, chunkErrAt(status.InvalidChunkTerminator, "chunk_data_lf", data[0])
	}

	data = data[1:]
	c.state = eChunkSize
	return chunk, data, false, nil

trailerStart:
	if len(data) == 0 {
		c.state = eTrailerStart
		return chunk, nil, false, nil
	}

	switch data[0] {
	case '\r':
		data = data[1:]
		goto trailerEndLF
	default:
		if !grammar.IsTchar(data[0]) {
			return chunk, nil, false, chunkErrAt(status.InvalidTrailer, "trailer_start", data[0])
		}

		goto trailerName
	}

trailerName:
	for i := 0; i < len(data); i++ {
		switch char := data[i]; char {
		case ':':
			data = data[i+1:]
			goto trailerValue
		default:
			if !grammar.IsTchar(char) {
				return chunk, nil, false, chunkErrAt(status.InvalidTrailer, "trailer_name", char)
			}
		}
	}

	c.state = eTrailerName
	return chunk, nil, false, nil

trailerValue:
	for i := 0; i < len(data); i++ {
		switch char := data[i]; char {
		case '\r':
			data = data[i+1:]
			goto trailerValueCR
		default:
			if !grammar.IsHeaderValueByte(char) {
				return chunk, nil, false, chunkErrAt(status.InvalidTrailer, "trailer_value", char)
			}
		}
	}

	c.state = eTrailerValue
	return chunk, nil, false, nil

trailerValueCR:
	if len(data) == 0 {
		c.state = eTrailerValueCR
		return chunk, nil, false, nil
	}

	if data[0] != '\n' {
		return chunk, nil, false, chunkErrAt(status.InvalidTrailer, "trailer_value_lf", data[0])
	}

	data = data[1:]
	goto trailerStart

trailerEndLF:
	if len(data) == 0 {
		c.state = eTrailerEndLF
		return chunk, nil, false, nil
	}

	if data[0] != '\n' {
		return chunk, nil, false, chunkErrAt(status.InvalidTrailer, "trailer_end_lf", data[0])
	}

	c.state = eChunkSize
	c.chunkLength = 0
	return chunk, data[1:], true, nil
}

func chunkErrAt(kind status.Kind, state string, offending byte) error {
	return status.NewErrorAt(kind, state, offending)
}

func chunkErrIn(kind status.Kind, state string) error {
	return status.NewErrorIn(kind, state)
}
