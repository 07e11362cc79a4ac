// Package grammar implements the byte-class predicates that RFC 9110 and
// RFC 9112 define once and then refer to by name: tchar, vchar, obs-text,
// OWS, and the digit classes. The pre-body state machine and the chunked
// sub-machine both dispatch through these tables rather than repeating
// range checks inline.
package grammar

// tcharTable marks every byte allowed in a token: RFC 9110 tchar, i.e. the
// mark characters "!#$%&'*+-.^_`|~", ASCII digits and ASCII letters.
var tcharTable = buildTchar()

// headerValueByteTable marks vchar, OWS and obs-text: every byte permitted
// inside a header field value.
var headerValueByteTable = buildHeaderValueByte()

func buildTchar() (table [256]bool) {
	for _, c := range []byte("!#$%&'*+-.^_`|~") {
		table[c] = true
	}

	for c := byte('0'); c <= '9'; c++ {
		table[c] = true
	}

	for c := byte('a'); c <= 'z'; c++ {
		table[c] = true
	}

	for c := byte('A'); c <= 'Z'; c++ {
		table[c] = true
	}

	return table
}

func buildHeaderValueByte() (table [256]bool) {
	for c := 0x21; c <= 0x7e; c++ {
		table[c] = true
	}

	table[' '] = true
	table['\t'] = true

	for c := 0x80; c <= 0xff; c++ {
		table[c] = true
	}

	return table
}

// IsTchar reports whether c is a valid token character, as used by method
// tokens and header field names.
func IsTchar(c byte) bool {
	return tcharTable[c]
}

// IsVchar reports whether c is a visible ASCII character (0x21-0x7e).
func IsVchar(c byte) bool {
	return c >= 0x21 && c <= 0x7e
}

// IsObsText reports whether c is an obsolete text byte (0x80-0xff), which
// RFC 9110 permits inside header field values for historical reasons.
func IsObsText(c byte) bool {
	return c >= 0x80
}

// IsOWS reports whether c is optional whitespace: space or horizontal tab.
func IsOWS(c byte) bool {
	return c == ' ' || c == '\t'
}

// IsHeaderValueByte reports whether c may appear inside a header field
// value: vchar, OWS, or obs-text.
func IsHeaderValueByte(c byte) bool {
	return headerValueByteTable[c]
}

// IsDigit reports whether c is an ASCII decimal digit.
func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// IsCtl reports whether c is a control byte that is never allowed inside a
// field value, even though it's technically excluded from vchar already;
// this exists to give rejection sites a name that matches the RFC's prose.
func IsCtl(c byte) bool {
	return c < 0x20 && c != '\t'
}

// TrimOWS trims leading and trailing OWS from b, matching RFC 9112 5.5's
// requirement that field values have surrounding OWS stripped before use.
func TrimOWS(b []byte) []byte {
	for len(b) > 0 && IsOWS(b[0]) {
		b = b[1:]
	}

	for len(b) > 0 && IsOWS(b[len(b)-1]) {
		b = b[:len(b)-1]
	}

	return b
}
