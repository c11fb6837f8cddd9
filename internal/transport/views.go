package transport

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/domain/event"
	"github.com/rpggio/spectator/internal/paginate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates
var templateFS embed.FS

var printer = message.NewPrinter(language.BritishEnglish)

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2 Jan 2006")
	},
	"dateptr": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2 Jan 2006")
	},
	"count": func(n int) string {
		return printer.Sprintf("%d", n)
	},
	"plural": func(n int, singular, plural string) string {
		if n == 1 {
			return printer.Sprintf("%d %s", n, singular)
		}
		return printer.Sprintf("%d %s", n, plural)
	},
	"pageURL":    pageURL,
	"subjectURL": subjectURL,
	"add1":       func(n int) int { return n + 1 },
	"sub1":       func(n int) int { return n - 1 },
	"deref": func(n *int) int {
		if n == nil {
			return 0
		}
		return *n
	},
	"coord": func(f *float64) string {
		if f == nil {
			return ""
		}
		return strconv.FormatFloat(*f, 'f', 6, 64)
	},
}

// subjectURL links a credit to its subject's page.
func subjectURL(c creator.Credit) string {
	switch c.SubjectType {
	case creator.SubjectPublication:
		return "/reading/publications/" + url.PathEscape(c.SubjectID) + "/"
	case creator.SubjectEvent:
		return "/events/" + event.Kind(c.SubjectKind).Slug() + "/" + url.PathEscape(c.SubjectID) + "/"
	case creator.SubjectWork:
		return "/events/works/" + event.WorkKind(c.SubjectKind).Slug() + "/" + url.PathEscape(c.SubjectID) + "/"
	default:
		return ""
	}
}

// pageURL returns the query string for page n, keeping other parameters.
func pageURL(q url.Values, n int) string {
	out := url.Values{}
	for k, v := range q {
		out[k] = v
	}
	if n <= 1 {
		out.Del(PageParam)
	} else {
		out.Set(PageParam, strconv.Itoa(n))
	}
	if len(out) == 0 {
		return "?"
	}
	return "?" + out.Encode()
}

type views struct {
	pages map[string]*template.Template
}

// mustLoadViews parses every page with the shared layout and partials.
func mustLoadViews() *views {
	names, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		panic(err)
	}
	v := &views{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		t := template.Must(template.New(path.Base(name)).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html", "templates/pagination.html", name))
		v.pages[path.Base(name)] = t
	}
	return v
}

// page is the data passed to every template.
type page struct {
	Title   string
	Section string
	Query   url.Values
	Data    any
	Page    *paginate.Meta
}

func (v *views) render(w http.ResponseWriter, status int, name string, data page) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
