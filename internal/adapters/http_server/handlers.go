// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"center_catalog/internal/app"
	"center_catalog/internal/domain"
)

type Handlers struct {
	Views   *app.ViewService
	Sync    *app.SyncService
	Session *app.SessionContext
	Client  domain.CatalogClient
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/centers", h.listCenters)
	s.mux.Get("/v1/centers/{id}", h.getCenter)
	s.mux.Post("/v1/centers/{id}/comments", h.submitComment)
	s.mux.Post("/v1/session", h.login)
	s.mux.Post("/v1/session/guest", h.loginGuest)
	s.mux.Delete("/v1/session", h.logout)
	s.mux.Post("/v1/register", h.register)
	s.mux.Post("/v1/refresh", h.refresh)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// listCenters serves every CenterView. The ETag is the view version, which
// the comment store bumps on every change, so conditional requests stay
// cheap without hashing the whole payload.
func (h *Handlers) listCenters(w http.ResponseWriter, r *http.Request) {
	etag := fmt.Sprintf(`W/"views-%d"`, h.Views.Version())
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	writeJSON(w, http.StatusOK, h.Views.Views())
}

func (h *Handlers) getCenter(w http.ResponseWriter, r *http.Request) {
	view, ok := h.Views.ViewFor(chi.URLParam(r, "id"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "center not found")
		return
	}

	etag, body := calcETagAndBody(view)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getCenter body")
	}
}

func (h *Handlers) submitComment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Content string `json:"content"`
		Mark    int    `json:"mark"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "expected JSON {content, mark}")
		return
	}

	centerID := chi.URLParam(r, "id")
	created, err := h.Sync.SubmitComment(r.Context(), h.Session.Current(), centerID, in.Content, in.Mark)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, created)
	case errors.Is(err, domain.ErrUnauthenticated):
		writeProblem(w, http.StatusUnauthorized, "Unauthenticated", "sign in to leave a comment")
	case errors.Is(err, domain.ErrInvalidRating):
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid Rating", "mark must be an integer between 1 and 5")
	default:
		// Submission failed upstream; the caller keeps its form state.
		writeProblem(w, http.StatusBadGateway, "Submission Failed", "comment was not saved, try again")
	}
}

type sessionResponse struct {
	Username      string `json:"username"`
	Authenticated bool   `json:"authenticated"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Username == "" || in.Password == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "expected JSON {username, password}")
		return
	}

	token, err := h.Client.ObtainToken(r.Context(), in.Username, in.Password)
	if err != nil {
		writeProblem(w, http.StatusUnauthorized, "Login Failed", "wrong username or password")
		return
	}
	h.Session.Login(r.Context(), token, in.Username)
	writeJSON(w, http.StatusOK, sessionResponse{Username: in.Username, Authenticated: true})
}

func (h *Handlers) loginGuest(w http.ResponseWriter, r *http.Request) {
	h.Session.LoginGuest(r.Context())
	writeJSON(w, http.StatusOK, sessionResponse{Username: app.GuestUsername, Authenticated: false})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	h.Session.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// validPassword mirrors the upstream rule: at least 7 characters and at
// least one letter.
func validPassword(p string) bool {
	if len(p) < 7 {
		return false
	}
	for _, r := range p {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Username == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "expected JSON {username, password, email}")
		return
	}
	if !validPassword(in.Password) {
		writeProblem(w, http.StatusBadRequest, "Weak Password", "password must be at least 7 characters and contain a letter")
		return
	}

	if err := h.Client.Register(r.Context(), in.Username, in.Password, in.Email); err != nil {
		writeProblem(w, http.StatusConflict, "Registration Failed", "that username may already exist")
		return
	}

	// Auto-login after registration; when it fails the account still
	// exists, so report it as such.
	token, err := h.Client.ObtainToken(r.Context(), in.Username, in.Password)
	if err != nil {
		writeJSON(w, http.StatusCreated, sessionResponse{Username: in.Username, Authenticated: false})
		return
	}
	h.Session.Login(r.Context(), token, in.Username)
	writeJSON(w, http.StatusCreated, sessionResponse{Username: in.Username, Authenticated: true})
}

// refresh re-pulls the catalog and kicks a background comment refresh.
func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) {
	centers, err := h.Client.ListCenters(r.Context())
	if err != nil {
		// Keep serving the current catalog from cache.
		writeProblem(w, http.StatusBadGateway, "Refresh Failed", "catalog fetch failed, serving cached data")
		return
	}
	// The background refresh must outlive this request.
	h.Views.SetCatalog(context.Background(), centers)
	w.WriteHeader(http.StatusAccepted)
}
