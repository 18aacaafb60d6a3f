package render

import (
	"html/template"
	"strings"
	"time"

	"dreamlog/internal/action"
	"dreamlog/internal/display"
)

type option struct {
	Value    string
	Label    string
	Selected bool
}

type pageModel struct {
	Title       string
	Search      string
	Start       string
	End         string
	Filters     []option
	Sorts       []option
	Limits      []option
	Entries     template.HTML
	Pagination  template.HTML
	Notice      *display.Notice
	ActionPath  string
	SearchKind  string
	FilterKind  string
	ClearKind   string
	SaveKind    string
	FieldAction string
}

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

// Page renders the full document for v. A non-nil notice is shown once in
// the status area and mirrored to the live region.
func Page(v display.View, n *display.Notice) (string, error) {
	q := v.Query
	m := pageModel{
		Title:       "Dream Journal",
		Search:      q.Search,
		Start:       dateValue(q.Start),
		End:         dateValue(q.End),
		Filters:     options(string(q.Filter), [][2]string{{"all", "All Dreams"}, {"lucid", "Lucid Only"}, {"non-lucid", "Non-Lucid Only"}}),
		Sorts:       options(string(q.Sort), [][2]string{{"newest", "Newest First"}, {"oldest", "Oldest First"}, {"lucid-first", "Lucid First"}, {"longest", "Longest First"}}),
		Limits:      options(q.Limit.String(), [][2]string{{"5", "5 per page"}, {"10", "10 per page"}, {"20", "20 per page"}, {"50", "50 per page"}, {"endless", "Endless Scroll"}, {"all", "Show All"}}),
		Entries:     template.HTML(Entries(v)),
		Pagination:  template.HTML(Pagination(v)),
		Notice:      n,
		ActionPath:  ActionPath,
		SearchKind:  string(action.Search),
		FilterKind:  string(action.Filter),
		ClearKind:   string(action.ClearFilters),
		SaveKind:    string(action.SaveDream),
		FieldAction: FieldAction,
	}
	var b strings.Builder
	if err := pageTmpl.Execute(&b, m); err != nil {
		return "", err
	}
	return b.String(), nil
}

func options(selected string, pairs [][2]string) []option {
	out := make([]option, 0, len(pairs)+1)
	found := false
	for _, p := range pairs {
		sel := p[0] == selected
		found = found || sel
		out = append(out, option{Value: p[0], Label: p[1], Selected: sel})
	}
	if !found && selected != "" {
		out = append(out, option{Value: selected, Label: selected + " per page", Selected: true})
	}
	return out
}

func dateValue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

const pageHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="/static/app.css">
</head>
<body>
<main class="journal">
<h1>{{.Title}}</h1>
{{with .Notice}}<div class="notice notice-{{.Kind}}" role="alert">{{.Text}}</div>{{end}}
<form id="dreamForm" class="dream-form" method="post" action="{{.ActionPath}}">
<input type="text" id="dreamTitle" name="title" placeholder="Dream title (optional)">
<textarea id="dreamContent" name="content" placeholder="Describe your dream..." required></textarea>
<input type="text" id="dreamEmotions" name="emotions" placeholder="Emotions felt">
<input type="text" id="dreamTags" name="tags" placeholder="Tags, comma separated">
<input type="text" id="dreamSigns" name="dreamSigns" placeholder="Dream signs, comma separated">
<label><input type="checkbox" id="isLucid" name="isLucid" value="true"> Lucid dream</label>
<button type="submit" class="btn btn-primary" name="{{.FieldAction}}" value="{{.SaveKind}}" data-action="{{.SaveKind}}">Save Dream</button>
</form>
<form id="controls" class="controls" method="post" action="{{.ActionPath}}">
<input type="search" id="searchBox" name="search" value="{{.Search}}" placeholder="Search dreams" data-action="{{.SearchKind}}">
<select id="filterSelect" name="filter" data-action="{{.FilterKind}}">{{range .Filters}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select>
<select id="sortSelect" name="sort" data-action="{{.FilterKind}}">{{range .Sorts}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select>
<select id="limitSelect" name="limit" data-action="{{.FilterKind}}">{{range .Limits}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select>
<input type="date" id="startDate" name="start" value="{{.Start}}" data-action="{{.FilterKind}}">
<input type="date" id="endDate" name="end" value="{{.End}}" data-action="{{.FilterKind}}">
<button type="submit" class="btn" name="{{.FieldAction}}" value="{{.FilterKind}}" data-action="{{.FilterKind}}">Apply</button>
<button type="submit" class="btn" name="{{.FieldAction}}" value="{{.ClearKind}}" data-action="{{.ClearKind}}">Clear</button>
</form>
{{.Entries}}
{{.Pagination}}
<div id="liveRegion" class="sr-only" role="status" aria-live="polite">{{with .Notice}}{{.Text}}{{end}}</div>
</main>
</body>
</html>`
