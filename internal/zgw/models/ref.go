package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is a link to a remote resource that is either still an unresolved URL
// or the resolved object. The zero value is an absent reference (used for
// optional links such as a case result). A Ref never holds both.
type Ref[T any] struct {
	url string
	obj *T
}

// Unresolved builds a reference that still has to be fetched.
func Unresolved[T any](url string) Ref[T] {
	return Ref[T]{url: url}
}

// Resolved builds a reference holding the fetched object. A nil object gives
// an absent reference.
func Resolved[T any](obj *T) Ref[T] {
	return Ref[T]{obj: obj}
}

// IsZero reports an absent reference.
func (r Ref[T]) IsZero() bool {
	return r.url == "" && r.obj == nil
}

// IsResolved reports whether the reference holds an object.
func (r Ref[T]) IsResolved() bool {
	return r.obj != nil
}

// URL returns the pending URL. ok is false for resolved or absent references.
func (r Ref[T]) URL() (url string, ok bool) {
	if r.obj != nil || r.url == "" {
		return "", false
	}
	return r.url, true
}

// Object returns the resolved object. ok is false for unresolved or absent references.
func (r Ref[T]) Object() (obj *T, ok bool) {
	return r.obj, r.obj != nil
}

// MarshalJSON writes the URL string when unresolved, the object when resolved
// and null when absent.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	switch {
	case r.obj != nil:
		return json.Marshal(r.obj)
	case r.url != "":
		return json.Marshal(r.url)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a URL string, an embedded object, null or "".
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = Ref[T]{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return fmt.Errorf("decode reference url: %w", err)
		}
		r.url = url
		return nil
	case '{':
		obj := new(T)
		if err := json.Unmarshal(data, obj); err != nil {
			return fmt.Errorf("decode embedded reference: %w", err)
		}
		r.obj = obj
		return nil
	default:
		return fmt.Errorf("decode reference: unexpected json %q", data)
	}
}
