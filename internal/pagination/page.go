package pagination

import (
	"net/url"
	"strconv"
)

// Page is one slice of a keyed list.
type Page[T any] struct {
	Items []T
	Total int
	// Next is the encoded cursor of the following page, empty on the last page.
	Next string
}

// Paginate returns up to limit items following cursor. A cursor whose key is
// not in items yields ErrInvalidCursor.
func Paginate[T any](items []T, cursor Cursor, limit int, key func(T) string) (Page[T], error) {
	start := 0
	if !cursor.IsZero() {
		start = -1
		for i, item := range items {
			if key(item) == cursor.After {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return Page[T]{}, ErrInvalidCursor
		}
	}
	if limit <= 0 {
		limit = len(items)
	}
	end := min(start+limit, len(items))

	page := Page[T]{Items: items[start:end], Total: len(items)}
	if end < len(items) && end > start {
		page.Next = Cursor{Kind: cursor.Kind, After: key(items[end-1])}.Encode()
	}
	return page, nil
}

// NextURL returns path with query plus the next cursor and limit, or "" on
// the last page. The query is not modified.
func (p Page[T]) NextURL(path string, query url.Values, limit int) string {
	if p.Next == "" {
		return ""
	}
	q := make(url.Values, len(query)+2)
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("cursor", p.Next)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return path + "?" + q.Encode()
}

// LinkHeader renders the RFC 8288 next link, or "" on the last page.
func (p Page[T]) LinkHeader(path string, query url.Values, limit int) string {
	next := p.NextURL(path, query, limit)
	if next == "" {
		return ""
	}
	return "<" + next + `>; rel="next"`
}
