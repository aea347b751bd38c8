package transfer

import "strings"

// Access codes have the fixed shape XXX-NNN: three characters, a dash,
// three characters, seven runes total. The shape is a typing affordance;
// the services pass the normalized string through opaquely and the server
// stays authoritative on validity.
const codeLength = 7

// NormalizeCode upper-cases raw input and re-inserts the dash after the
// third character, mirroring how the code field behaves as it is typed.
// Anything beyond the full length is cut off.
func NormalizeCode(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if r == '-' || r == ' ' {
			continue
		}
		if b.Len() == 3 {
			b.WriteByte('-')
		}
		if b.Len() >= codeLength {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CodeComplete reports whether a normalized code has reached its full fixed
// length; submission stays disabled until it does.
func CodeComplete(code string) bool {
	return len(code) == codeLength && code[3] == '-'
}
