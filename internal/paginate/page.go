package paginate

// Link is one entry in a page's link window. Gap entries separate
// non-adjacent ranges and carry no number.
type Link struct {
	Number  int  `json:"number,omitempty"`
	Current bool `json:"current,omitempty"`
	Gap     bool `json:"gap,omitempty"`
}

// Page is one page of a paginated result set.
type Page struct {
	Number   int `json:"number"`
	NumPages int `json:"num_pages"`
	Count    int `json:"count"`
	PerPage  int `json:"per_page"`

	// Start and End are the half-open item offsets of the page.
	Start int `json:"-"`
	End   int `json:"-"`

	LeadingRange  []int  `json:"-"`
	MainRange     []int  `json:"-"`
	TrailingRange []int  `json:"-"`
	Links         []Link `json:"links"`
}

// Offset is the number of items before this page.
func (p *Page) Offset() int {
	return p.Start
}

// Limit is the number of items on this page.
func (p *Page) Limit() int {
	return p.End - p.Start
}

func (p *Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

// HasOtherPages reports whether there is more than one page.
func (p *Page) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p *Page) NextNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

func (p *Page) PreviousNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}
	return p.Number - 1
}

// StartIndex is the 1-based index of the first item on the page, 0 when
// the result set is empty.
func (p *Page) StartIndex() int {
	if p.Count == 0 {
		return 0
	}
	return p.Start + 1
}

// EndIndex is the 1-based index of the last item on the page.
func (p *Page) EndIndex() int {
	return p.End
}

// Meta is the JSON summary of a page returned by API list endpoints.
type Meta struct {
	Number        int    `json:"number"`
	NumPages      int    `json:"num_pages"`
	Count         int    `json:"count"`
	PerPage       int    `json:"per_page"`
	HasNext       bool   `json:"has_next"`
	HasPrevious   bool   `json:"has_previous"`
	HasOtherPages bool   `json:"has_other_pages"`
	Links         []Link `json:"links"`
}

// Meta summarises the page for API responses.
func (p *Page) Meta() Meta {
	return Meta{
		Number:        p.Number,
		NumPages:      p.NumPages,
		Count:         p.Count,
		PerPage:       p.PerPage,
		HasNext:       p.HasNext(),
		HasPrevious:   p.HasPrevious(),
		HasOtherPages: p.HasOtherPages(),
		Links:         p.Links,
	}
}

// Result is one page of loaded items.
type Result[T any] struct {
	Items []T  `json:"items"`
	Page  Meta `json:"page"`

	page *Page
}

// Current returns the page the items were loaded for.
func (r *Result[T]) Current() *Page {
	return r.page
}

// Query pages through a result set of count items and loads only the
// requested page.
func Query[T any](count int, opts Options, token string, softLimit bool, load func(offset, limit int) ([]T, error)) (*Result[T], error) {
	p, err := New(count, opts)
	if err != nil {
		return nil, err
	}
	page, err := p.Resolve(token, softLimit)
	if err != nil {
		return nil, err
	}
	var loaded []T
	if page.Limit() > 0 {
		loaded, err = load(page.Offset(), page.Limit())
		if err != nil {
			return nil, err
		}
	}
	if loaded == nil {
		loaded = []T{}
	}
	return &Result[T]{Items: loaded, Page: page.Meta(), page: page}, nil
}

// Policy is how a list endpoint pages its results.
type Policy struct {
	Options   `yaml:",inline"`
	SoftLimit bool `yaml:"soft_limit" json:"soft_limit"`
}

// DefaultPolicy pages with DefaultOptions and a soft limit.
func DefaultPolicy() Policy {
	return Policy{Options: DefaultOptions(), SoftLimit: true}
}

// Request is a caller's page request: the raw token and an optional
// override of the policy's soft limit.
type Request struct {
	Token     string
	SoftLimit *bool
}

// Soft reports whether req should be served with a soft limit.
func (p Policy) Soft(req Request) bool {
	if req.SoftLimit != nil {
		return *req.SoftLimit
	}
	return p.SoftLimit
}

// Fetch is Query driven by a policy and a request.
func Fetch[T any](policy Policy, req Request, count int, load func(offset, limit int) ([]T, error)) (*Result[T], error) {
	return Query(count, policy.Options, req.Token, policy.Soft(req), load)
}
