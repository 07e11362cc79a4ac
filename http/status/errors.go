package status

import "fmt"

// Kind enumerates every reason feed or finish can reject a request. The set
// is closed: callers may safely switch over Kind without a default case and
// expect exhaustiveness to be preserved across releases.
type Kind uint8

const (
	_ Kind = iota
	InvalidMethod
	MethodTooLong
	InvalidURI
	URITooLong
	InvalidVersion
	MissingCRLF
	InvalidLineTerminator
	InvalidHeaderName
	InvalidHeaderValue
	TooManyHeaders
	ObsoleteLineFolding
	InvalidContentLength
	DuplicateContentLength
	BodyTooLarge
	InvalidChunkSize
	InvalidChunkTerminator
	InvalidTrailer
	UnsupportedTransferEncoding
	Incomplete
	TrailingData
)

var kindNames = [...]string{
	InvalidMethod:              "invalid method",
	MethodTooLong:              "method too long",
	InvalidURI:                 "invalid URI",
	URITooLong:                 "URI too long",
	InvalidVersion:             "invalid version",
	MissingCRLF:                "missing CRLF",
	InvalidLineTerminator:      "invalid line terminator",
	InvalidHeaderName:          "invalid header name",
	InvalidHeaderValue:         "invalid header value",
	TooManyHeaders:             "too many headers",
	ObsoleteLineFolding:        "obsolete line folding",
	InvalidContentLength:       "invalid content-length",
	DuplicateContentLength:     "duplicate content-length",
	BodyTooLarge:               "body too large",
	InvalidChunkSize:           "invalid chunk size",
	InvalidChunkTerminator:     "invalid chunk terminator",
	InvalidTrailer:             "invalid trailer",
	UnsupportedTransferEncoding: "unsupported transfer-encoding",
	Incomplete:                 "incomplete request",
	TrailingData:               "trailing data",
}

func (k Kind) String() string {
	if int(k) >= len(kindNames) || kindNames[k] == "" {
		return "unknown error"
	}

	return kindNames[k]
}

// ParseError is the single error type returned by every parsing operation.
// State names and offending bytes are carried as plain fields rather than
// folded into the message, so callers can branch on Kind without parsing
// text back out of Error().
type ParseError struct {
	Kind Kind
	// State names the FSM state active when the error was raised, e.g.
	// "header_value" or "chunk_size". Empty when not applicable.
	State string
	// Offending holds the byte that triggered rejection. Valid is false for
	// errors not tied to a single byte, such as TooManyHeaders.
	Offending byte
	Valid     bool
}

func NewError(kind Kind) ParseError {
	return ParseError{Kind: kind}
}

func NewErrorAt(kind Kind, state string, offending byte) ParseError {
	return ParseError{Kind: kind, State: state, Offending: offending, Valid: true}
}

func NewErrorIn(kind Kind, state string) ParseError {
	return ParseError{Kind: kind, State: state}
}

func (e ParseError) Error() string {
	if e.State == "" {
		return e.Kind.String()
	}

	if e.Valid {
		return fmt.Sprintf("%s: in state %q at byte %#02x", e.Kind, e.State, e.Offending)
	}

	return fmt.Sprintf("%s: in state %q", e.Kind, e.State)
}

// Is allows errors.Is(err, status.ParseError{Kind: ...}) style comparisons
// by Kind, ignoring the contextual State/Offending fields.
func (e ParseError) Is(target error) bool {
	other, ok := target.(ParseError)
	if !ok {
		return false
	}

	return e.Kind == other.Kind
}

// ErrIncomplete is returned by finish when called before the parser has
// reached the Complete state. It carries no contextual data since it is not
// produced by feed.
var ErrIncomplete = NewError(Incomplete)

// ErrTrailingData is returned by the one-shot wrapper when bytes remain
// after a request has been fully parsed.
var ErrTrailingData = NewError(TrailingData)
