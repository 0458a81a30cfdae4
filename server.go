package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/ddvk/kanahwr/classifier"
	"github.com/ddvk/kanahwr/config"
	"github.com/ddvk/kanahwr/hwr"
	"github.com/ddvk/kanahwr/kana"
	"github.com/ddvk/kanahwr/log"
	"github.com/ddvk/kanahwr/raster"
	"github.com/ddvk/kanahwr/shell"
	"github.com/ddvk/kanahwr/version"
)

const maxBody = 16 << 20

type ApiServer struct {
	cfg       config.Config
	bank      *classifier.Bank
	processor *hwr.Processor
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// JudgeResponse is the outcome plus the identity the drawing was kept under.
type JudgeResponse struct {
	hwr.Outcome
	Submission string `json:"submission"`
}

func NewApiServer(cfg config.Config) *ApiServer {
	store := cfg.Store()
	bank := classifier.NewBank(store, cfg.Network())
	if err := bank.Preload(); err != nil {
		log.Warning.Printf("judging unavailable until trained: %v", err)
	}

	return &ApiServer{
		cfg:  cfg,
		bank: bank,
		processor: &hwr.Processor{
			Models:  bank,
			Samples: store,
			Scratch: cfg.Scratch(),
			Raster:  cfg.Raster(),
		},
	}
}

func (s *ApiServer) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
}

func (s *ApiServer) writeSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SuccessResponse{Data: data})
}

// statusOf maps processing errors to the client's fault or ours.
func statusOf(err error) int {
	switch {
	case errors.Is(err, kana.ErrUnknownChar),
		errors.Is(err, kana.ErrStrokeIndex),
		errors.Is(err, hwr.ErrNoStrokes),
		errors.Is(err, hwr.ErrMode),
		errors.Is(err, raster.ErrDataURL),
		errors.Is(err, raster.ErrImageTooSmall):
		return http.StatusBadRequest
	case errors.Is(err, classifier.ErrNoWeights):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *ApiServer) decodeSubmission(w http.ResponseWriter, r *http.Request) (hwr.Submission, bool) {
	var sub hwr.Submission
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return sub, false
	}
	if sub.User == "" {
		sub.User = uuid.NewString()
	}
	return sub, true
}

// POST /api/judge
func (s *ApiServer) handleJudge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sub, ok := s.decodeSubmission(w, r)
	if !ok {
		return
	}
	sub.Mode = hwr.Game

	out, err := s.processor.Process(sub)
	if err != nil {
		log.Error.Printf("judging %s for %s: %v", sub.Char, sub.User, err)
		s.writeError(w, statusOf(err), err)
		return
	}
	s.writeSuccess(w, JudgeResponse{Outcome: out, Submission: sub.User})
}

// POST /api/samples
func (s *ApiServer) handleSamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sub, ok := s.decodeSubmission(w, r)
	if !ok {
		return
	}
	sub.Mode = hwr.Training

	out, err := s.processor.Process(sub)
	if err != nil {
		s.writeError(w, statusOf(err), err)
		return
	}
	s.writeSuccess(w, map[string]interface{}{
		"message": "Samples saved",
		"saved":   out.Saved,
	})
}

// GET /api/characters?level=<N>
func (s *ApiServer) handleCharacters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	level := 0
	if l := r.URL.Query().Get("level"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("bad level %q", l))
			return
		}
		level = n
	}

	chars := []shell.CharJSON{}
	for _, ch := range kana.All() {
		if level > 0 && ch.Level != level {
			continue
		}
		chars = append(chars, shell.CharToJSON(ch))
	}
	s.writeSuccess(w, chars)
}

// GET /api/version
func (s *ApiServer) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeSuccess(w, map[string]string{"version": version.Version})
}

func (s *ApiServer) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/judge", s.handleJudge)
	mux.HandleFunc("/api/samples", s.handleSamples)
	mux.HandleFunc("/api/characters", s.handleCharacters)
	mux.HandleFunc("/api/version", s.handleVersion)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
	<title>kanahwr API</title>
</head>
<body>
	<h1>kanahwr API</h1>
	<h2>Endpoints:</h2>
	<ul>
		<li>POST /api/judge - Grade a drawing {user, char, strokes: [data url...]}</li>
		<li>POST /api/samples - Add a drawing to the training records</li>
		<li>GET /api/characters - List the characters</li>
		<li>GET /api/version - Get version</li>
	</ul>
</body>
</html>
		`)
	})
	return mux
}

func runServerMode(cfg config.Config) {
	server := NewApiServer(cfg)

	addr := ":" + strconv.Itoa(cfg.Port)
	log.Info.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, server.routes()); err != nil {
		log.Error.Fatalf("Server failed: %v", err)
	}
}
