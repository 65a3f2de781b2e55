package domain

import "unique"

// InternedString wraps a unique.Handle[string] so hot strings, dependency
// specifiers and asset paths above all, share one backing allocation per
// distinct value. Comparing two InternedStrings compares handles, not bytes.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s and returns the handle-backed value.
func NewInternedString(s string) InternedString {
	return InternedString{
		h: unique.Make(s),
	}
}

// String returns the interned value. The zero InternedString holds no handle
// and reads as the empty string.
func (is InternedString) String() string {
	var zero unique.Handle[string]
	if is.h == zero {
		return ""
	}
	return is.h.Value()
}

// Value returns the underlying unique.Handle[string].
func (is InternedString) Value() unique.Handle[string] {
	return is.h
}

// MarshalText implements encoding.TextMarshaler.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (is *InternedString) UnmarshalText(text []byte) error {
	is.h = unique.Make(string(text))
	return nil
}
