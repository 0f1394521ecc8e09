package webhook

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// Runner executes the agent pipeline for one trigger.
type Runner interface {
	Run(ctx context.Context, trigger *Trigger) error
}

// Handler handles forge webhook events.
type Handler struct {
	secret  string
	keyword string
	runner  Runner
	logger  *slog.Logger
}

// NewHandler creates a webhook handler that starts the runner when a comment
// containing the trigger keyword arrives.
func NewHandler(secret, keyword string, runner Runner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{secret: secret, keyword: keyword, runner: runner, logger: logger}
}

// Router builds the HTTP router for serve mode.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/webhook", h.Handle).Methods(http.MethodPost)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return r
}

// Handle processes a single webhook delivery.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Error reading payload", http.StatusBadRequest)
		return
	}

	signature := SignatureHeader(r.Header.Get)
	if !VerifySignature(payload, signature, h.secret) {
		h.logger.Warn("signature verification failed")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	if eventType == "" {
		eventType = r.Header.Get("X-Gitea-Event")
	}

	trigger, err := ParseTrigger(eventType, payload)
	if err != nil {
		h.logger.Warn("unparseable event", "event", eventType, "error", err)
		http.Error(w, "Bad payload", http.StatusBadRequest)
		return
	}
	if trigger == nil || !strings.Contains(trigger.CommentBody, h.keyword) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ignored"))
		return
	}

	h.logger.Info("trigger accepted",
		"repo", trigger.Owner+"/"+trigger.Repo, "number", trigger.Number, "actor", trigger.Actor)

	// Run in the background; the forge only needs the delivery acknowledged.
	go func() {
		if err := h.runner.Run(context.Background(), trigger); err != nil {
			h.logger.Error("pipeline run failed", "number", trigger.Number, "error", err)
		}
	}()

	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte("accepted"))
}
