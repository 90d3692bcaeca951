package ident

// Validator checks externally supplied identifiers before they reach the
// storage layer. Storage paths are built by direct concatenation of
// directory, id and suffix, so validation must pass before any path is
// constructed or any filesystem call is made.
type Validator struct {
	length int
}

// NewValidator creates a validator for ids of the given fixed length.
// Non-positive lengths fall back to DefaultLength.
func NewValidator(length int) *Validator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Validator{length: length}
}

// Valid reports whether candidate has exactly the configured length and
// contains only alphanumeric characters. It touches nothing but the string.
func (v *Validator) Valid(candidate string) bool {
	if len(candidate) != v.length {
		return false
	}
	for i := 0; i < len(candidate); i++ {
		c := candidate[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
