// Package web serves the journal as a plain HTML application. Every control
// is a form post to /action, which is translated into the same router event
// a terminal key press produces.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"dreamlog/internal/action"
	"dreamlog/internal/display"
	"dreamlog/internal/dream"
	"dreamlog/internal/logging"
	"dreamlog/internal/render"
)

// Health reports whether the primary store is reachable.
type Health interface {
	IsPrimaryStoreAvailable() bool
}

type Config struct {
	Router *action.Router
	Engine *display.Engine
	Health Health
	Log    logging.Logger
}

type Server struct {
	router *action.Router
	engine *display.Engine
	health Health
	log    logging.Logger
	inbox  *Inbox
}

// Inbox keeps the latest notice until the next page render picks it up.
// It satisfies display.Notifier.
type Inbox struct {
	mu      sync.Mutex
	pending *display.Notice
}

func (in *Inbox) Notify(_ context.Context, n display.Notice) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.pending = &n
}

func (in *Inbox) take() *display.Notice {
	in.mu.Lock()
	defer in.mu.Unlock()
	n := in.pending
	in.pending = nil
	return n
}

func NewServer(cfg Config, inbox *Inbox) (*Server, error) {
	if cfg.Router == nil || cfg.Engine == nil {
		return nil, errors.New("web: missing router or engine")
	}
	if inbox == nil {
		inbox = &Inbox{}
	}
	log := cfg.Log
	if log == nil {
		log = logging.Discard()
	}
	return &Server{
		router: cfg.Router,
		engine: cfg.Engine,
		health: cfg.Health,
		log:    log.With("component", "web"),
		inbox:  inbox,
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("GET /fragments/entries", s.handleEntries)
	mux.HandleFunc("GET /fragments/pagination", s.handlePagination)
	mux.HandleFunc("GET /api/dreams", s.handleDreams)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST "+render.ActionPath, s.handleAction)
	mux.HandleFunc("GET /static/app.css", s.handleCSS)
	return withSecurityHeaders(mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	v, err := s.engine.Refresh(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "refresh failed", "err", err)
		http.Error(w, "could not load dreams", http.StatusInternalServerError)
		return
	}
	page, err := render.Page(v, s.inbox.take())
	if err != nil {
		s.log.Error(r.Context(), "render page failed", "err", err)
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	s.fragment(w, r, render.Entries)
}

func (s *Server) handlePagination(w http.ResponseWriter, r *http.Request) {
	s.fragment(w, r, render.Pagination)
}

func (s *Server) fragment(w http.ResponseWriter, r *http.Request, fn func(display.View) string) {
	v, err := s.engine.Refresh(r.Context())
	if err != nil {
		http.Error(w, "could not load dreams", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(fn(v)))
}

type dreamsResponse struct {
	Dreams   []dream.Dream `json:"dreams"`
	Page     int           `json:"page"`
	Pages    int           `json:"pages"`
	Filtered int           `json:"filtered"`
	Total    int           `json:"total"`
	Limit    string        `json:"limit"`
	HasMore  bool          `json:"hasMore"`
}

func (s *Server) handleDreams(w http.ResponseWriter, r *http.Request) {
	v, err := s.engine.Refresh(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load dreams")
		return
	}
	resp := dreamsResponse{
		Dreams:   make([]dream.Dream, 0, len(v.Items)),
		Page:     v.Window.Page,
		Pages:    v.Window.TotalPages,
		Filtered: v.Filtered,
		Total:    v.Total,
		Limit:    v.Query.Limit.String(),
		HasMore:  v.HasMore,
	}
	for _, it := range v.Items {
		resp.Dreams = append(resp.Dreams, it.Dream)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	primary := true
	if s.health != nil {
		primary = s.health.IsPrimaryStoreAvailable()
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "primaryStore": primary})
}

// handleAction turns a form post into a click on a detached element
// carrying the posted action attributes, then redirects back to the page.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	ev, ok := eventFromForm(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing action")
		return
	}
	if err := s.router.Dispatch(r.Context(), ev); err != nil {
		if errors.Is(err, action.ErrUnknownAction) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Warn(r.Context(), "action failed", "err", err)
		s.inbox.Notify(r.Context(), display.Notice{Kind: display.NoticeError, Text: "Something went wrong. Please try again."})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func eventFromForm(r *http.Request) (action.Event, bool) {
	kind := strings.TrimSpace(r.PostForm.Get(render.FieldAction))
	if kind == "" {
		return action.Event{}, false
	}
	form := action.NewNode("form", nil)
	attrs := map[string]string{action.AttrAction: kind}
	if id := strings.TrimSpace(r.PostForm.Get(render.FieldDreamID)); id != "" {
		attrs[action.AttrDreamID] = id
	}
	if p := strings.TrimSpace(r.PostForm.Get(render.FieldPage)); p != "" {
		attrs[action.AttrPage] = p
	}
	if t := strings.TrimSpace(r.PostForm.Get(render.FieldType)); t != "" {
		attrs[action.AttrType] = t
	}
	target := form.Append(action.NewNode("button", attrs))

	values := make(map[string]string, len(r.PostForm))
	for k, vs := range r.PostForm {
		if len(vs) > 0 {
			values[k] = vs[0]
		}
	}
	ev := action.Event{Type: action.Click, Target: target, Values: values}
	if action.Kind(kind) == action.Scroll {
		ev.Type = action.Change
		ev.Viewport = action.Viewport{
			ScrollTop:     formInt(r, "scrollTop"),
			Height:        formInt(r, "height"),
			ContentHeight: formInt(r, "contentHeight"),
		}
	}
	return ev, true
}

func formInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(r.PostForm.Get(key)))
	return n
}

func (s *Server) handleCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(appCSS))
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self'; base-uri 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
