// Package proto models the HTTP version of a request line: a (major, minor)
// pair, restricted to the versions RFC 9112 actually governs.
package proto

import "github.com/indigo-web/utils/uf"

// Proto identifies an accepted HTTP version. Only HTTP/1.0 and HTTP/1.1 are
// members of the set the pre-body FSM will admit; everything else, HTTP/2
// included, is rejected with InvalidVersion rather than represented here.
type Proto uint8

const (
	Unknown Proto = iota
	HTTP10
	HTTP11
)

// String returns the protocol as it appears on the wire, without a trailing
// space or CRLF.
func (p Proto) String() string {
	switch p {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP11:
		return "HTTP/1.1"
	default:
		return "HTTP/0.0"
	}
}

const (
	tokenLength        = len("HTTP/x.x")
	majorVersionOffset = len("HTTP/x") - 1
	minorVersionOffset = len("HTTP/x.x") - 1
	scheme             = "HTTP/"
)

// FromBytes parses a complete "HTTP/d.d" token, as produced by the pre-body
// FSM once it has buffered exactly 8 bytes after the request-target. It
// returns Unknown for anything not shaped like that token and for any
// major/minor pair other than 1.0 or 1.1; the caller turns Unknown into an
// InvalidVersion ParseError.
func FromBytes(raw []byte) Proto {
	if len(raw) != tokenLength || uf.B2S(raw[:majorVersionOffset]) != scheme || raw[minorVersionOffset-1] != '.' {
		return Unknown
	}

	return Parse(raw[majorVersionOffset]-'0', raw[minorVersionOffset]-'0')
}

// Parse maps a (major, minor) digit pair to Proto, rejecting every
// combination other than 1.0 and 1.1.
func Parse(major, minor uint8) Proto {
	if major > 9 || minor > 9 {
		return Unknown
	}

	if major == 1 {
		switch minor {
		case 0:
			return HTTP10
		case 1:
			return HTTP11
		}
	}

	return Unknown
}
