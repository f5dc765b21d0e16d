// Package receiver exposes the HTTP API the monitoring platform and operators
// talk to: notification intake and per-project configuration.
package receiver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"sentry_telegram/internal/dispatch"
	"sentry_telegram/internal/model"
)

const maxBodyBytes = 1 << 20

// Notifier forwards a notification and returns the last delivery result.
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) (*dispatch.Result, error)
}

// Store persists per-project options and tag labels.
type Store interface {
	ProjectOptions(ctx context.Context, project string) (map[string]string, error)
	SetProjectOptions(ctx context.Context, project string, opts map[string]string) error
	SetLabels(ctx context.Context, project string, keys map[string]string, values map[model.Tag]string) error
}

// Server is the HTTP front end of the forwarder.
type Server struct {
	notifier Notifier
	store    Store
	origins  []string
	log      *slog.Logger
}

// New creates a Server. An empty origins list allows any CORS origin.
func New(notifier Notifier, store Store, origins []string, log *slog.Logger) *Server {
	return &Server{
		notifier: notifier,
		store:    store,
		origins:  origins,
		log:      log,
	}
}

// Handler returns the HTTP handler with all routes and CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /notify", s.handleNotify)
	mux.HandleFunc("GET /projects/{slug}/options", s.handleGetOptions)
	mux.HandleFunc("PUT /projects/{slug}/options", s.handlePutOptions)
	mux.HandleFunc("PUT /projects/{slug}/labels", s.handlePutLabels)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var p notificationPayload
	if !s.decode(w, r, &p) {
		return
	}
	n, err := p.toModel()
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	// Delivery outlives the webhook call: a caller hanging up must not cut
	// off the remaining recipients.
	res, err := s.notifier.Notify(context.WithoutCancel(r.Context()), n)
	if err != nil {
		s.log.Error("forward notification", "project", n.Event.Project.Slug, "group_id", n.Event.Group.ID, "error", err)
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, notifyResponse{Sent: res != nil, OK: res.OK()})
}

func (s *Server) handleGetOptions(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	opts, err := s.store.ProjectOptions(r.Context(), slug)
	if err != nil {
		s.log.Error("load options", "project", slug, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "load options"})
		return
	}
	if len(opts) == 0 {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "project not configured"})
		return
	}
	s.writeJSON(w, http.StatusOK, maskOptions(opts))
}

func (s *Server) handlePutOptions(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	opts, bad, err := decodeOptions(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if len(bad) > 0 {
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: describeFields(bad), Fields: bad})
		return
	}

	if err := s.store.SetProjectOptions(r.Context(), slug, opts); err != nil {
		s.log.Error("save options", "project", slug, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "save options"})
		return
	}

	s.log.Info("options updated", "project", slug)
	s.writeJSON(w, http.StatusOK, maskOptions(opts))
}

func (s *Server) handlePutLabels(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	var in labelsPayload
	if !s.decode(w, r, &in) {
		return
	}

	values := make(map[model.Tag]string, len(in.Values))
	for _, v := range in.Values {
		if v.Key == "" {
			s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "value label without key", Fields: []string{"values"}})
			return
		}
		values[model.Tag{Key: v.Key, Value: v.Value}] = v.Label
	}

	if err := s.store.SetLabels(r.Context(), slug, in.Keys, values); err != nil {
		s.log.Error("save labels", "project", slug, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "save labels"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Debug("write response", "error", err)
	}
}
