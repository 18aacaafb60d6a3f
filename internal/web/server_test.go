package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dreamlog/internal/action"
	"dreamlog/internal/autocomplete"
	"dreamlog/internal/display"
	"dreamlog/internal/journal"
	"dreamlog/internal/logging"
	"dreamlog/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logging.Discard()
	mem := storage.NewMemStore()
	repo := storage.NewRepository(mem, log)
	inbox := &Inbox{}
	controls := display.NewControlState(display.Query{})
	eng := display.NewEngine(display.Deps{Source: repo, Controls: controls, Notifier: inbox, Log: log}, display.DefaultSettings())
	t.Cleanup(eng.Close)

	svc := journal.NewService(repo, autocomplete.NewLearner(mem), eng, inbox, log)
	router := action.NewRouter(journal.Handlers(svc, eng, controls, journal.HandlerOptions{}), log, 0)

	srv, err := NewServer(Config{Router: router, Engine: eng, Health: repo, Log: log}, inbox)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

func post(t *testing.T, ts *httptest.Server, form url.Values) *http.Response {
	t.Helper()
	c := &http.Client{CheckRedirect: noRedirect}
	resp, err := c.PostForm(ts.URL+"/action", form)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func dreamIDs(t *testing.T, ts *httptest.Server) []string {
	t.Helper()
	_, body := get(t, ts, "/api/dreams")
	var got dreamsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	ids := make([]string, 0, len(got.Dreams))
	for _, d := range got.Dreams {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestIndexEmpty(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "default-src 'self'")
	assert.Contains(t, body, "No dreams recorded yet")
}

func TestUnknownPathIsNotFound(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := get(t, ts, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSaveShowsNoticeOnce(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, url.Values{
		"action":  {"save-dream"},
		"title":   {"Flying <b>high</b>"},
		"content": {"Over the ocean"},
		"tags":    {"flying, ocean"},
		"isLucid": {"true"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	_, body := get(t, ts, "/")
	assert.Contains(t, body, "Dream saved successfully!")
	assert.Contains(t, body, "Flying &lt;b&gt;high&lt;/b&gt;")
	assert.NotContains(t, body, "<b>high</b>")
	assert.Contains(t, body, "lucid-badge")

	_, body = get(t, ts, "/")
	assert.NotContains(t, body, "Dream saved successfully!")
}

func TestSaveWithoutContentWarns(t *testing.T) {
	ts := newTestServer(t)
	post(t, ts, url.Values{"action": {"save-dream"}, "title": {"Nothing"}})
	_, body := get(t, ts, "/")
	assert.Contains(t, body, "notice-warning")
	assert.Empty(t, dreamIDs(t, ts))
}

func TestDeleteFlow(t *testing.T) {
	ts := newTestServer(t)
	post(t, ts, url.Values{"action": {"save-dream"}, "content": {"a falling dream"}})
	ids := dreamIDs(t, ts)
	require.Len(t, ids, 1)
	id := ids[0]

	post(t, ts, url.Values{"action": {"delete-dream"}, "dreamId": {id}})
	_, body := get(t, ts, "/")
	assert.Contains(t, body, "confirm-delete")

	post(t, ts, url.Values{"action": {"cancel-delete"}, "dreamId": {id}})
	_, body = get(t, ts, "/")
	assert.NotContains(t, body, `value="confirm-delete"`)

	post(t, ts, url.Values{"action": {"delete-dream"}, "dreamId": {id}})
	post(t, ts, url.Values{"action": {"confirm-delete"}, "dreamId": {id}})
	assert.Empty(t, dreamIDs(t, ts))
}

func TestPagingPosts(t *testing.T) {
	ts := newTestServer(t)
	for i := 0; i < 12; i++ {
		post(t, ts, url.Values{"action": {"save-dream"}, "content": {"dream " + strings.Repeat("x", i+1)}})
	}
	_, body := get(t, ts, "/fragments/pagination")
	assert.Contains(t, body, "Page 1 of 2 (12 dreams)")

	post(t, ts, url.Values{"action": {"go-to-page"}, "page": {"2"}})
	_, body = get(t, ts, "/fragments/pagination")
	assert.Contains(t, body, "Page 2 of 2 (12 dreams)")

	post(t, ts, url.Values{"action": {"filter"}, "limit": {"all"}})
	assert.Len(t, dreamIDs(t, ts), 12)
}

func TestActionErrors(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, url.Values{"title": {"x"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts, url.Values{"action": {"launch-rockets"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthWithoutFastPath(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/health")
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok","primaryStore":false}`, body)
}

func TestStylesheet(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/static/app.css")
	assert.Equal(t, "text/css; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, ".dream-entry")
}

func TestInboxTakesOnce(t *testing.T) {
	in := &Inbox{}
	assert.Nil(t, in.take())
	in.Notify(context.Background(), display.Notice{Kind: display.NoticeInfo, Text: "hi"})
	n := in.take()
	require.NotNil(t, n)
	assert.Equal(t, "hi", n.Text)
	assert.Nil(t, in.take())
}
