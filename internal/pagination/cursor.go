// Package pagination implements opaque cursors for "load more" lists.
package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidCursor reports a cursor that cannot be decoded or belongs to a
// different list.
var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor points after the item whose key is After in a list of Kind.
type Cursor struct {
	Kind  string
	After string
}

// IsZero reports whether c points at the start of the list.
func (c Cursor) IsZero() bool {
	return c.After == ""
}

// Encode returns the URL-safe form of c.
func (c Cursor) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(c.Kind + ":" + c.After))
}

// DecodeCursor parses s and checks that it belongs to kind. An empty s is the
// start of the list.
func DecodeCursor(s, kind string) (Cursor, error) {
	if s == "" {
		return Cursor{Kind: kind}, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	gotKind, after, ok := strings.Cut(string(b), ":")
	if !ok || gotKind != kind {
		return Cursor{}, ErrInvalidCursor
	}
	return Cursor{Kind: kind, After: after}, nil
}
