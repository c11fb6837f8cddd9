package paginate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestPaginator(t *testing.T, count int, mutate func(*Options)) *Paginator {
	t.Helper()
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	p, err := New(count, opts)
	require.NoError(t, err)
	return p
}

func items(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginator_NumPages(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		perPage int
		orphans int
		empty   bool
		want    int
	}{
		{"exact", 100, 50, 0, true, 2},
		{"remainder", 101, 50, 0, true, 3},
		{"orphan folded", 101, 50, 1, true, 2},
		{"orphans below remainder", 105, 50, 4, true, 3},
		{"empty allowed", 0, 50, 0, true, 1},
		{"empty not allowed", 0, 50, 0, false, 0},
		{"fewer than a page", 7, 50, 0, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPaginator(t, tt.count, func(o *Options) {
				o.PerPage = tt.perPage
				o.Orphans = tt.orphans
				o.AllowEmptyFirstPage = tt.empty
			})
			require.Equal(t, tt.want, p.NumPages())
		})
	}
}

func TestPaginator_InvalidPerPage(t *testing.T) {
	_, err := New(10, Options{PerPage: 0})
	require.ErrorIs(t, err, ErrInvalidPerPage)
}

func TestPaginator_StrictOutOfRange(t *testing.T) {
	p := newTestPaginator(t, 101, nil)
	require.Equal(t, 3, p.NumPages())

	_, err := p.Page(4, false)
	require.ErrorIs(t, err, ErrPageOutOfRange)

	_, err = p.Page(0, false)
	require.ErrorIs(t, err, ErrPageOutOfRange)

	_, err = p.Page(-3, true)
	require.ErrorIs(t, err, ErrPageOutOfRange, "soft limit never clamps below 1")
}

func TestPaginator_LastToken(t *testing.T) {
	p := newTestPaginator(t, 101, nil)
	page, err := p.Resolve("last", false)
	require.NoError(t, err)
	require.Equal(t, 3, page.Number)
	require.Equal(t, []int{101}, Slice(items(101), page))
}

func TestPaginator_SoftLimitClamps(t *testing.T) {
	p := newTestPaginator(t, 101, nil)
	page, err := p.Resolve("10", true)
	require.NoError(t, err)
	require.Equal(t, 3, page.Number)
	require.Equal(t, []int{101}, Slice(items(101), page))
	require.True(t, page.HasOtherPages())
}

func TestPaginator_Tokens(t *testing.T) {
	p := newTestPaginator(t, 101, nil)

	n, err := p.ParseToken("")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = p.ParseToken(" 2 ")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, err = p.ParseToken("two")
	require.ErrorIs(t, err, ErrPageNotAnInteger)

	_, err = p.Resolve("LAST", true)
	require.ErrorIs(t, err, ErrPageNotAnInteger, "the last token is case-sensitive")
}

func TestPaginator_Slices(t *testing.T) {
	p := newTestPaginator(t, 101, nil)
	all := items(101)

	first, err := p.Page(1, false)
	require.NoError(t, err)
	require.Equal(t, 0, first.Offset())
	require.Equal(t, 50, first.Limit())
	require.Equal(t, 1, first.StartIndex())
	require.Equal(t, 50, first.EndIndex())
	require.False(t, first.HasPrevious())
	require.True(t, first.HasNext())
	require.Equal(t, 2, first.NextNumber())
	require.Equal(t, 1, first.PreviousNumber())

	second, err := p.Page(2, false)
	require.NoError(t, err)
	got := Slice(all, second)
	require.Len(t, got, 50)
	require.Equal(t, 51, got[0])
	require.Equal(t, 100, got[49])
}

func TestPaginator_OrphansMergeIntoLastPage(t *testing.T) {
	p := newTestPaginator(t, 103, func(o *Options) { o.Orphans = 3 })
	require.Equal(t, 2, p.NumPages())

	last, err := p.Page(2, false)
	require.NoError(t, err)
	require.Equal(t, 53, last.Limit())
	require.False(t, last.HasNext())
}

func TestPaginator_EmptyResults(t *testing.T) {
	p := newTestPaginator(t, 0, nil)
	page, err := p.Page(1, false)
	require.NoError(t, err)
	require.Equal(t, 0, page.Limit())
	require.Equal(t, 0, page.StartIndex())
	require.False(t, page.HasOtherPages())
	require.Empty(t, Slice([]int{}, page))

	_, err = p.Page(2, false)
	require.ErrorIs(t, err, ErrPageOutOfRange)

	page, err = p.Page(2, true)
	require.NoError(t, err)
	require.Equal(t, 1, page.Number)

	strict := newTestPaginator(t, 0, func(o *Options) { o.AllowEmptyFirstPage = false })
	_, err = strict.Page(1, true)
	require.ErrorIs(t, err, ErrPageOutOfRange)
}

func linkNumbers(links []Link) []int {
	out := make([]int, 0, len(links))
	for _, l := range links {
		if l.Gap {
			out = append(out, 0)
			continue
		}
		out = append(out, l.Number)
	}
	return out
}

func TestPaginator_LinkWindow(t *testing.T) {
	// 0 marks a gap.
	tests := []struct {
		name   string
		pages  int
		number int
		want   []int
	}{
		{"few pages", 3, 3, []int{1, 2, 3}},
		{"near start", 100, 4, []int{1, 2, 3, 4, 5, 6, 0, 99, 100}},
		{"middle", 100, 50, []int{1, 2, 0, 48, 49, 50, 51, 52, 0, 99, 100}},
		{"near end", 100, 97, []int{1, 2, 0, 95, 96, 97, 98, 99, 100}},
		{"first", 100, 1, []int{1, 2, 3, 4, 5, 0, 99, 100}},
		{"last", 100, 100, []int{1, 2, 0, 96, 97, 98, 99, 100}},
		{"single", 1, 1, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPaginator(t, tt.pages*10, func(o *Options) { o.PerPage = 10 })
			require.Equal(t, tt.pages, p.NumPages())

			page, err := p.Page(tt.number, false)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, linkNumbers(page.Links)); diff != "" {
				t.Fatalf("links mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPaginator_CurrentLinkMarked(t *testing.T) {
	p := newTestPaginator(t, 1000, func(o *Options) { o.PerPage = 10 })
	page, err := p.Page(50, false)
	require.NoError(t, err)

	var current []int
	for _, l := range page.Links {
		if l.Current {
			current = append(current, l.Number)
		}
	}
	require.Equal(t, []int{50}, current)
	require.Equal(t, []int{1, 2}, page.LeadingRange)
	require.Equal(t, []int{99, 100}, page.TrailingRange)
}

func TestPage_Meta(t *testing.T) {
	p := newTestPaginator(t, 101, nil)
	page, err := p.Page(2, false)
	require.NoError(t, err)

	want := Meta{
		Number:        2,
		NumPages:      3,
		Count:         101,
		PerPage:       50,
		HasNext:       true,
		HasPrevious:   true,
		HasOtherPages: true,
		Links:         []Link{{Number: 1}, {Number: 2, Current: true}, {Number: 3}},
	}
	if diff := cmp.Diff(want, page.Meta()); diff != "" {
		t.Fatalf("meta mismatch (-want +got):\n%s", diff)
	}
}

func TestFetch_LoadsOnlyRequestedPage(t *testing.T) {
	all := items(101)
	var calls [][2]int
	load := func(offset, limit int) ([]int, error) {
		calls = append(calls, [2]int{offset, limit})
		return all[offset : offset+limit], nil
	}

	res, err := Fetch(DefaultPolicy(), Request{Token: "10"}, len(all), load)
	require.NoError(t, err)
	require.Equal(t, []int{101}, res.Items)
	require.Equal(t, 3, res.Page.Number)
	require.Equal(t, 3, res.Current().Number)
	require.Equal(t, [][2]int{{100, 1}}, calls)

	strict := false
	_, err = Fetch(DefaultPolicy(), Request{Token: "10", SoftLimit: &strict}, len(all), load)
	require.ErrorIs(t, err, ErrPageOutOfRange)
	require.Len(t, calls, 1)
}

func TestQuery_EmptyNeverLoads(t *testing.T) {
	res, err := Query(0, DefaultOptions(), "", false, func(offset, limit int) ([]string, error) {
		t.Fatal("load called for an empty page")
		return nil, nil
	})
	require.NoError(t, err)
	require.NotNil(t, res.Items)
	require.Empty(t, res.Items)
}
