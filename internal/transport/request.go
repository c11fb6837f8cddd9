package transport

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rpggio/spectator/internal/metrics"
	"github.com/rpggio/spectator/internal/paginate"
)

// PageParam is the query parameter carrying the page token.
const PageParam = "p"

// pageRequest reads the page token and an optional soft_limit override.
func pageRequest(r *http.Request) paginate.Request {
	q := r.URL.Query()
	req := paginate.Request{Token: q.Get(PageParam)}
	if raw := q.Get("soft_limit"); raw != "" {
		if soft, err := strconv.ParseBool(raw); err == nil {
			req.SoftLimit = &soft
		}
	}
	return req
}

// observePage records how a page token was resolved.
func observePage(req paginate.Request, served *paginate.Meta, err error) {
	if err != nil || served == nil {
		metrics.RecordPage(0, 0, err)
		return
	}
	requested := served.Number
	if n, convErr := strconv.Atoi(strings.TrimSpace(req.Token)); convErr == nil {
		requested = n
	}
	metrics.RecordPage(requested, served.Number, nil)
}

func pageMeta[T any](res *paginate.Result[T]) *paginate.Meta {
	if res == nil {
		return nil
	}
	return &res.Page
}

func intParam(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	return n, err == nil
}
