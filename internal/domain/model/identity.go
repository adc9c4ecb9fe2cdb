package model

// ValidIdentity reports whether s looks like an address the platform can
// compare and pay out to. Identities are opaque: the check is purely
// syntactic (0x-prefixed hex), never a resolution.
func ValidIdentity(s string) bool {
	if len(s) < 4 || len(s) > 66 {
		return false
	}
	if s[0] != '0' || s[1] != 'x' {
		return false
	}
	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
