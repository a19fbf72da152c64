package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"k8s.io/klog/v2"

	apis "kubernetes-cluster-env/pkg/api/v1alpha1"
	"kubernetes-cluster-env/pkg/constants"
	"kubernetes-cluster-env/pkg/environment"
	"kubernetes-cluster-env/pkg/observation"
	"kubernetes-cluster-env/pkg/reward"
)

// episodeHeader carries the current episode ID on render responses.
const episodeHeader = "X-Episode-Id"

// EnvFactory builds an environment for a new session.
type EnvFactory func(environment.Config) (*environment.Env, error)

// session serializes calls to one environment; Env itself is not
// safe for concurrent use.
type session struct {
	mu      sync.Mutex
	env     *environment.Env
	created time.Time
}

// Server exposes environment sessions over HTTP/JSON.
type Server struct {
	base        environment.Config
	newEnv      EnvFactory
	limiter     *rate.Limiter
	maxSessions int

	mu       sync.Mutex
	sessions map[string]*session

	mux *http.ServeMux
}

func NewServer(
	base environment.Config,
	newEnv EnvFactory,
	limiter *rate.Limiter,
	maxSessions int,
) *Server {
	s := &Server{
		base:        base,
		newEnv:      newEnv,
		limiter:     limiter,
		maxSessions: maxSessions,
		sessions:    make(map[string]*session),
		mux:         http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /v1/envs", s.handleCreate)
	s.mux.HandleFunc("POST /v1/envs/{id}/reset", s.handleReset)
	s.mux.HandleFunc("POST /v1/envs/{id}/step", s.handleStep)
	s.mux.HandleFunc("GET /v1/envs/{id}/render", s.handleRender)
	s.mux.HandleFunc("DELETE /v1/envs/{id}", s.handleDelete)
	s.mux.HandleFunc("GET /v1/spaces", s.handleSpaces)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		requestLatency.Observe(time.Since(start).Seconds())
	}()

	if strings.HasPrefix(r.URL.Path, "/v1/") && s.limiter != nil && !s.limiter.Allow() {
		klog.Warning("API rate limit exceeded")
		rateLimited.Inc()
		http.Error(w, "rate limited", http.StatusTooManyRequests)
		return
	}

	klog.V(5).Infof("%s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
	s.mux.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// and closes every open session.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		klog.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	klog.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.closeAll()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sessionConfig is the part of the environment config a client may
// choose. Cluster access (mode, kubeconfig, context, metrics-server) always
// comes from the server's base config.
type sessionConfig struct {
	MaxSteps   int           `json:"maxSteps"`
	Seed       int64         `json:"seed"`
	RenderMode string        `json:"renderMode"`
	Reward     reward.Config `json:"reward"`
}

func newSessionConfig(base environment.Config) sessionConfig {
	return sessionConfig{
		MaxSteps:   base.MaxSteps,
		Seed:       base.Seed,
		RenderMode: base.RenderMode,
		Reward:     base.Reward,
	}
}

func (c sessionConfig) apply(base environment.Config) environment.Config {
	base.MaxSteps = c.MaxSteps
	base.Seed = c.Seed
	base.RenderMode = c.RenderMode
	base.Reward = c.Reward
	return base
}

type createResponse struct {
	ID             string        `json:"id"`
	SimulationMode bool          `json:"simulationMode"`
	Config         sessionConfig `json:"config"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req := newSessionConfig(s.base)
	if err := decodeOptional(r.Body, &req); err != nil {
		http.Error(w, fmt.Sprintf("bad config: %v", err), http.StatusBadRequest)
		return
	}

	if s.full() {
		http.Error(w, "too many sessions", http.StatusServiceUnavailable)
		return
	}

	env, err := s.newEnv(req.apply(s.base))
	if err != nil {
		klog.Warningf("Failed to create environment: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Another create may have filled the last slot while env was built.
	id := uuid.NewString()
	s.mu.Lock()
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.mu.Unlock()
		_ = env.Close()
		http.Error(w, "too many sessions", http.StatusServiceUnavailable)
		return
	}
	s.sessions[id] = &session{env: env, created: time.Now()}
	activeSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	cfg := env.Config()
	klog.V(2).Infof("Created session %s (simulation=%v)", id, cfg.SimulationMode)
	writeJSON(w, http.StatusCreated, createResponse{
		ID:             id,
		SimulationMode: cfg.SimulationMode,
		Config:         newSessionConfig(cfg),
	})
}

type resetRequest struct {
	Seed    *int64         `json:"seed"`
	Options map[string]any `json:"options"`
}

type resetResponse struct {
	Observation apis.Observation `json:"observation"`
	Info        apis.StepInfo    `json:"info"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req resetRequest
	if err := decodeOptional(r.Body, &req); err != nil {
		http.Error(w, fmt.Sprintf("bad reset request: %v", err), http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	obs, info := sess.env.Reset(r.Context(), req.Seed, req.Options)
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, resetResponse{Observation: obs, Info: info})
}

type stepRequest struct {
	Action     *int   `json:"action"`
	ActionName string `json:"actionName"`
}

func (r stepRequest) parse() (constants.Action, error) {
	switch {
	case r.Action != nil:
		a := constants.Action(*r.Action)
		if !a.Valid() {
			return 0, fmt.Errorf("action %d out of range [0,%d)", *r.Action, constants.NumActions)
		}
		return a, nil
	case r.ActionName != "":
		return constants.ParseAction(r.ActionName)
	}
	return 0, fmt.Errorf("action or actionName is required")
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req stepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("bad step request: %v", err), http.StatusBadRequest)
		return
	}
	action, err := req.parse()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	res := sess.env.Step(r.Context(), action)
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set(episodeHeader, sess.env.EpisodeID())
	if err := sess.env.Render(w); err != nil {
		klog.V(4).Infof("Render write failed: %v", err)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	activeSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	if !ok {
		http.Error(w, "unknown environment", http.StatusNotFound)
		return
	}

	sess.mu.Lock()
	_ = sess.env.Close()
	sess.mu.Unlock()

	klog.V(2).Infof("Deleted session %s after %s", id, time.Since(sess.created).Round(time.Second))
	w.WriteHeader(http.StatusNoContent)
}

type spacesResponse struct {
	ObservationDim int      `json:"observationDim"`
	Low            float32  `json:"low"`
	High           float32  `json:"high"`
	SlotNames      []string `json:"slotNames"`
	UnboundedSlots []int    `json:"unboundedSlots"`
	Actions        []string `json:"actions"`
}

func (s *Server) handleSpaces(w http.ResponseWriter, _ *http.Request) {
	low, high := observation.Bounds()
	unbounded := []int{}
	for i := 0; i < constants.ObservationDim; i++ {
		if constants.UnboundedSlots[i] {
			unbounded = append(unbounded, i)
		}
	}
	writeJSON(w, http.StatusOK, spacesResponse{
		ObservationDim: constants.ObservationDim,
		Low:            low,
		High:           high,
		SlotNames:      observation.SlotNames(),
		UnboundedSlots: unbounded,
		Actions:        constants.ActionNames(),
	})
}

func (s *Server) full() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxSessions > 0 && len(s.sessions) >= s.maxSessions
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session, bool) {
	id := r.PathValue("id")
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "unknown environment", http.StatusNotFound)
	}
	return sess, ok
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		_ = sess.env.Close()
		sess.mu.Unlock()
		delete(s.sessions, id)
	}
	activeSessions.Set(0)
}

// decodeOptional decodes JSON into v, treating an empty body as "no overrides".
func decodeOptional(body io.Reader, v any) error {
	err := json.NewDecoder(body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		klog.Errorf("Failed to encode response: %v", err)
	}
}
