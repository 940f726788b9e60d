package canvas

import (
	"context"

	"github.com/tomnomnom/linkheader"
)

// List lazily walks a paginated Canvas collection, following the rel="next"
// link of each response. Pages are fetched only when the buffer runs dry.
type List struct {
	client *Client
	next   string
	buf    []Object
	done   bool
}

func newList(c *Client, firstURL string) *List {
	return &List{client: c, next: firstURL}
}

// Next returns the next resource of the collection.
func (l *List) Next(ctx context.Context) (Object, bool, error) {
	for len(l.buf) == 0 {
		if l.done || l.next == "" {
			return nil, false, nil
		}
		resp, err := l.client.get(ctx, l.next)
		if err != nil {
			l.done = true
			return nil, false, err
		}
		items, err := decodeObjects(resp.body)
		if err != nil {
			l.done = true
			return nil, false, err
		}
		l.buf = items
		l.next = nextLink(resp.header.Get("Link"))
	}
	item := l.buf[0]
	l.buf = l.buf[1:]
	return item, true, nil
}

// All drains the collection.
func (l *List) All(ctx context.Context) ([]Object, error) {
	var out []Object
	for {
		item, ok, err := l.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, item)
	}
}

func nextLink(header string) string {
	if header == "" {
		return ""
	}
	links := linkheader.Parse(header).FilterByRel("next")
	if len(links) == 0 {
		return ""
	}
	return links[0].URL
}
