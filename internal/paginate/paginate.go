// Package paginate splits ordered result sets into numbered pages.
//
// Pages are requested by a token taken straight from the query string: a
// positive integer or the literal "last". A Paginator can run in strict
// mode, where a page past the end is an error, or with a soft limit, where
// such a request is clamped to the final page. The soft limit keeps a
// bookmarked "page 7" link working after a change of ordering or filtering
// leaves fewer pages.
//
// Besides slicing, each Page carries a Digg-style window of page numbers for
// rendering links: a few pages around the current one, plus the first and
// last pages separated by gaps. The window never affects which items are on
// a page.
package paginate

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LastPage is the page token that always resolves to the final page.
const LastPage = "last"

var (
	// ErrPageNotAnInteger is returned for a page token that is neither an
	// integer nor LastPage.
	ErrPageNotAnInteger = errors.New("page is not 'last', nor can it be converted to an int")
	// ErrPageOutOfRange is returned for a page number below 1 or, in strict
	// mode, past the last page.
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrInvalidPerPage is returned when the page size is not positive.
	ErrInvalidPerPage = errors.New("per-page must be >= 1")
)

// Options configures slicing and the link window.
type Options struct {
	// PerPage is the number of items on a full page.
	PerPage int `yaml:"per_page" json:"per_page"`
	// Orphans is the largest trailing remainder folded into the previous
	// page instead of getting a page of its own.
	Orphans int `yaml:"orphans" json:"orphans"`
	// AllowEmptyFirstPage makes page 1 valid for an empty result set.
	AllowEmptyFirstPage bool `yaml:"allow_empty_first_page" json:"allow_empty_first_page"`

	// Body is the number of page links around the current page.
	Body int `yaml:"body" json:"body"`
	// Margin is how close the body may get to the tail before they merge.
	Margin int `yaml:"margin" json:"margin"`
	// Padding is how far the body extends past the current page when it
	// merges with the tail.
	Padding int `yaml:"padding" json:"padding"`
	// Tail is the number of links kept at the very start and end.
	Tail int `yaml:"tail" json:"tail"`
}

// DefaultOptions returns the settings used by the catalogue list views.
func DefaultOptions() Options {
	return Options{
		PerPage:             50,
		Orphans:             0,
		AllowEmptyFirstPage: true,
		Body:                5,
		Margin:              2,
		Padding:             2,
		Tail:                2,
	}
}

// Paginator pages a result set of a known size.
type Paginator struct {
	count int
	opts  Options
}

// New creates a Paginator over count items.
func New(count int, opts Options) (*Paginator, error) {
	if opts.PerPage < 1 {
		return nil, ErrInvalidPerPage
	}
	if count < 0 {
		count = 0
	}
	if opts.Orphans < 0 {
		opts.Orphans = 0
	}
	return &Paginator{count: count, opts: opts}, nil
}

// Count returns the total number of items.
func (p *Paginator) Count() int {
	return p.count
}

// NumPages returns the number of pages, taking orphans into account.
func (p *Paginator) NumPages() int {
	if p.count == 0 && !p.opts.AllowEmptyFirstPage {
		return 0
	}
	hits := max(1, p.count-p.opts.Orphans)
	return int(math.Ceil(float64(hits) / float64(p.opts.PerPage)))
}

// ParseToken converts a raw page token into a page number. An empty token
// means the first page and LastPage means the final one. The number is not
// range-checked.
func (p *Paginator) ParseToken(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err == nil {
		return n, nil
	}
	if raw == LastPage {
		return p.NumPages(), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrPageNotAnInteger, raw)
}

// Resolve parses a raw page token and returns that page.
func (p *Paginator) Resolve(raw string, softLimit bool) (*Page, error) {
	n, err := p.ParseToken(raw)
	if err != nil {
		return nil, err
	}
	return p.Page(n, softLimit)
}

// Page returns page number n. With softLimit a number past the last page
// returns the last page instead of ErrPageOutOfRange.
func (p *Paginator) Page(n int, softLimit bool) (*Page, error) {
	numPages := p.NumPages()
	if n < 1 {
		return nil, fmt.Errorf("%w: page %d is less than 1", ErrPageOutOfRange, n)
	}
	if n > numPages && !(n == 1 && p.opts.AllowEmptyFirstPage) {
		if !softLimit || numPages < 1 {
			return nil, fmt.Errorf("%w: page %d contains no results", ErrPageOutOfRange, n)
		}
		n = numPages
	}

	start := (n - 1) * p.opts.PerPage
	end := start + p.opts.PerPage
	if end+p.opts.Orphans >= p.count {
		end = p.count
	}
	if start > end {
		start = end
	}

	page := &Page{
		Number:   n,
		NumPages: numPages,
		Count:    p.count,
		PerPage:  p.opts.PerPage,
		Start:    start,
		End:      end,
	}
	page.LeadingRange, page.MainRange, page.TrailingRange = p.window(n, numPages)
	page.Links = joinRanges(n, page.LeadingRange, page.MainRange, page.TrailingRange)
	return page, nil
}

// window computes the leading, main and trailing link ranges for page n.
func (p *Paginator) window(n, numPages int) (leading, main, trailing []int) {
	body, tail, padding, margin := p.opts.Body, p.opts.Tail, p.opts.Padding, p.opts.Margin
	if numPages < 1 {
		return nil, nil, nil
	}

	// Centre the body on the current page, odd bodies shifted right.
	lo := int(math.Floor(float64(n)-float64(body)/2)) + 1
	hi := int(math.Floor(float64(n) + float64(body)/2))
	if lo < 1 {
		shift := 1 - lo
		lo, hi = lo+shift, hi+shift
	}
	if hi > numPages {
		shift := numPages - hi
		lo, hi = lo+shift, hi+shift
	}

	// Merge with the leading tail when close enough, extending the body
	// by at most padding past the current page.
	if lo <= tail+margin {
		lo, hi = 1, max(body, min(n+padding, hi))
	} else {
		leading = pageSpan(1, tail)
	}

	if hi >= numPages-(tail+margin)+1 {
		if leading == nil {
			lo, hi = 1, numPages
		} else {
			lo, hi = min(numPages-body+1, max(n-padding, lo)), numPages
		}
	} else {
		trailing = pageSpan(numPages-tail+1, numPages)
	}

	lo, hi = max(lo, 1), min(hi, numPages)
	return leading, pageSpan(lo, hi), trailing
}

func pageSpan(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	span := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		span = append(span, i)
	}
	return span
}

// joinRanges flattens the ranges into links with a gap between non-empty
// neighbours.
func joinRanges(current int, ranges ...[]int) []Link {
	var links []Link
	for _, r := range ranges {
		if len(r) == 0 {
			continue
		}
		if len(links) > 0 {
			links = append(links, Link{Gap: true})
		}
		for _, n := range r {
			links = append(links, Link{Number: n, Current: n == current})
		}
	}
	return links
}

// Slice returns the items of page from an in-memory sequence.
func Slice[T any](items []T, page *Page) []T {
	if page == nil {
		return nil
	}
	start, end := min(page.Start, len(items)), min(page.End, len(items))
	return items[start:end]
}
