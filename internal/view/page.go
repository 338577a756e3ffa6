package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"review-dashboard/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageData - данные шаблона страницы дашборда.
type PageData struct {
	Title        string
	PullURL      string
	State        State
	Total        string
	Monthly      string
	Trend        domain.Badge
	Cost         string
	AvgTime      string
	Charts       map[string]Chart
	BannerClass  string
	BannerLead   string
	ReloadMillis int64
}

// Page отрисовывает состояние дерева представления в HTML.
type Page struct {
	tmpl    *template.Template
	title   string
	pullURL string
	reload  time.Duration
}

// NewPage разбирает встроенный шаблон страницы.
// owner/name задают репозиторий, на пул-реквесты которого ведут ссылки таблицы.
func NewPage(owner, name string, reload time.Duration) (*Page, error) {
	tmpl, err := template.New("dashboard.html").
		Funcs(template.FuncMap{"prNumber": prNumber}).
		ParseFS(templatesFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	return &Page{
		tmpl:    tmpl,
		title:   fmt.Sprintf("Review Dashboard: %s/%s", owner, name),
		pullURL: fmt.Sprintf("https://github.com/%s/%s/pull/", owner, name),
		reload:  reload,
	}, nil
}

// Render записывает страницу для st в w.
func (p *Page) Render(w io.Writer, st State) error {
	lead, class := bannerPresentation(st.Banner.State)
	data := PageData{
		Title:        p.title,
		PullURL:      p.pullURL,
		State:        st,
		Total:        st.Texts[domain.MountTotalReviews],
		Monthly:      st.Texts[domain.MountMonthlyReviews],
		Trend:        st.Badges[domain.MountMonthlyTrend],
		Cost:         st.Texts[domain.MountCostSavings],
		AvgTime:      st.Texts[domain.MountAvgTime],
		Charts:       make(map[string]Chart, len(st.Charts)),
		BannerClass:  class,
		BannerLead:   lead,
		ReloadMillis: p.reload.Milliseconds(),
	}
	for mount, chart := range st.Charts {
		data.Charts[string(mount)] = chart
	}
	return p.tmpl.ExecuteTemplate(w, "dashboard.html", data)
}

func bannerPresentation(state domain.BannerState) (lead, class string) {
	switch state {
	case domain.BannerError:
		return "Error:", "alert-danger"
	case domain.BannerSuccess:
		return "Note:", "alert-info"
	case domain.BannerFetching:
		return "Note:", "alert-secondary"
	default:
		return "", "alert-light"
	}
}

func prNumber(id string) string {
	return strings.TrimPrefix(id, "#")
}
