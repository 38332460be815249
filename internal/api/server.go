package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pbaille/wastesort/internal/catalog"
	"github.com/pbaille/wastesort/internal/centers"
	"github.com/pbaille/wastesort/internal/classifier"
	"github.com/pbaille/wastesort/internal/domain"
	"github.com/pbaille/wastesort/internal/pipeline"
	"github.com/pbaille/wastesort/internal/store"
	"github.com/pbaille/wastesort/internal/upload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server handles HTTP requests for detection, categories, stats and centers
type Server struct {
	pipeline *pipeline.Pipeline
	store    *store.Store
	centers  *centers.Directory
	addr     string
	maxBytes int64
	logger   *zap.Logger
	gatherer prometheus.Gatherer
}

// Options configures a Server. Zero values take defaults.
type Options struct {
	Addr     string
	MaxBytes int64
	Logger   *zap.Logger
	Gatherer prometheus.Gatherer
}

// New creates a new API server
func New(p *pipeline.Pipeline, s *store.Store, dir *centers.Directory, opts Options) *Server {
	srv := &Server{
		pipeline: p,
		store:    s,
		centers:  dir,
		addr:     opts.Addr,
		maxBytes: opts.MaxBytes,
		logger:   opts.Logger,
		gatherer: opts.Gatherer,
	}
	if srv.addr == "" {
		srv.addr = ":8080"
	}
	if srv.maxBytes <= 0 {
		srv.maxBytes = upload.MaxBytes
	}
	if srv.logger == nil {
		srv.logger = zap.NewNop()
	}
	if srv.gatherer == nil {
		srv.gatherer = prometheus.DefaultGatherer
	}
	return srv
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Detection
	mux.HandleFunc("POST /detect", s.detect)
	mux.HandleFunc("GET /detections", s.listDetections)
	mux.HandleFunc("GET /detections/{id}", s.getDetection)
	mux.HandleFunc("GET /stats", s.stats)

	// Reference data
	mux.HandleFunc("GET /categories", s.listCategories)
	mux.HandleFunc("GET /categories/{id}", s.getCategory)
	mux.HandleFunc("GET /centers", s.listCenters)

	// Operations
	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return withCORS(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", s.addr))
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down server")
		return httpSrv.Shutdown(shutdownCtx)
	}
}

// withCORS adds CORS headers for the browser front end
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) detect(w http.ResponseWriter, r *http.Request) {
	img, err := s.readImage(w, r)
	if err != nil {
		s.writeUploadError(w, err)
		return
	}

	if err := upload.Validate(img, s.maxBytes); err != nil {
		s.writeUploadError(w, err)
		return
	}

	res, err := s.pipeline.Detect(r.Context(), img)
	if err != nil {
		s.writeDetectError(w, err)
		return
	}

	detection, err := s.store.Record(res)
	if err != nil {
		s.logger.Error("record detection", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error(), false)
		return
	}

	writeJSON(w, http.StatusCreated, detection)
}

func (s *Server) writeUploadError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, upload.ErrTooLarge), errors.As(err, &maxErr):
		writeError(w, http.StatusRequestEntityTooLarge, "File size must be less than 10MB", false)
	case errors.Is(err, upload.ErrUnsupportedType):
		writeError(w, http.StatusBadRequest, "Please upload a JPG, JPEG, or PNG image", false)
	case errors.Is(err, upload.ErrEmpty):
		writeError(w, http.StatusBadRequest, "image is required", false)
	default:
		writeError(w, http.StatusBadRequest, err.Error(), false)
	}
}

func (s *Server) writeDetectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnknownCategory):
		writeError(w, http.StatusInternalServerError, "Detection failed", false)
	case errors.Is(err, classifier.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, "Detection timed out. Please try again.", true)
	case errors.Is(err, classifier.ErrCancelled):
		// The client went away; nobody reads this
		writeError(w, http.StatusServiceUnavailable, "Detection cancelled", true)
	default:
		writeError(w, http.StatusBadGateway, "Failed to detect waste type. Please try again.", classifier.IsRetryable(err))
	}
}

func (s *Server) listDetections(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	detections, err := s.store.ListDetections(limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), false)
		return
	}
	if detections == nil {
		detections = []domain.Detection{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"detections": detections,
		"limit":      limit,
		"offset":     offset,
	})
}

func (s *Server) getDetection(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.GetDetection(r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "detection not found", false)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), false)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// StatsResponse is the dashboard payload
type StatsResponse struct {
	Stats      domain.Stats              `json:"stats"`
	Categories []domain.CategoryCount    `json:"categories"`
	Confidence []domain.ConfidenceBucket `json:"confidence"`
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), false)
		return
	}
	breakdown, err := s.store.CategoryBreakdown()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), false)
		return
	}
	hist, err := s.store.ConfidenceHistogram()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), false)
		return
	}
	if breakdown == nil {
		breakdown = []domain.CategoryCount{}
	}

	writeJSON(w, http.StatusOK, StatsResponse{Stats: st, Categories: breakdown, Confidence: hist})
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": s.pipeline.Catalog().All(),
	})
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id := strings.ToUpper(r.PathValue("id"))

	c, err := s.pipeline.Catalog().Lookup(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error(), false)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (s *Server) listCenters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := centers.Filter{
		Category: strings.ToUpper(q.Get("type")),
		OpenOnly: q.Get("open") == "true",
	}

	if f.Category != "" && !s.pipeline.Catalog().Has(f.Category) {
		writeError(w, http.StatusBadRequest, "unknown waste type: "+f.Category, false)
		return
	}

	list := s.centers.Find(f)
	if list == nil {
		list = []domain.Center{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"centers": list,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

func writeError(w http.ResponseWriter, status int, message string, retryable bool) {
	writeJSON(w, status, ErrorResponse{Error: message, Retryable: retryable})
}
