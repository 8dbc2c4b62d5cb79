package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"iq-quiz-service/internal/app"
	"iq-quiz-service/internal/domain"
)

// ResultHandler serves the result view. Each request reads the client's
// record once through a fresh Presenter.
type ResultHandler struct {
	results app.ResultStore
	cfg     app.PresenterConfig
}

func NewResultHandler(results app.ResultStore, cfg app.PresenterConfig) *ResultHandler {
	if cfg.PaymentURL == "" {
		cfg.PaymentURL = app.DefaultPaymentURL
	}
	return &ResultHandler{results: results, cfg: cfg}
}

type navigatePayload struct {
	Navigate string `json:"navigate"`
}

// Get renders the paywall, placeholder or error view.
func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p.View())
}

// Unlock reveals the full result on the client's word alone; it is only
// routed when client unlock is enabled.
func (h *ResultHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := p.Unlock(); err != nil {
		writeJSON(w, http.StatusConflict, p.View())
		return
	}
	writeJSON(w, http.StatusOK, p.View())
}

// Reset is "start a new test": it clears the stored record and points the
// client back at the quiz entry view.
func (h *ResultHandler) Reset(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	if p.State() == app.PresenterError {
		target, _ := p.Restart()
		writeJSON(w, http.StatusOK, navigatePayload{Navigate: target})
		return
	}
	if err := p.Unlock(); err != nil {
		writeJSON(w, http.StatusConflict, p.View())
		return
	}
	target, err := p.Reset(r.Context())
	if err != nil {
		writeJSON(w, http.StatusConflict, p.View())
		return
	}
	writeJSON(w, http.StatusOK, navigatePayload{Navigate: target})
}

// Pay sends the client to the external checkout. Nothing identifying the
// attempt is passed along and no confirmation ever comes back.
func (h *ResultHandler) Pay(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.cfg.PaymentURL, http.StatusFound)
}

func (h *ResultHandler) load(w http.ResponseWriter, r *http.Request) (*app.Presenter, bool) {
	clientID := ClientIDFrom(r.Context())
	if clientID == "" {
		http.Error(w, "missing client identity", http.StatusUnauthorized)
		return nil, false
	}
	p := app.NewPresenter(h.results, clientID, h.cfg)
	if err := p.Load(r.Context()); err != nil {
		if !errors.Is(err, domain.ErrInvalidTransition) {
			log.Printf("result load for client %s aborted: %v", clientID, err)
		}
		http.Error(w, "result unavailable", http.StatusServiceUnavailable)
		return nil, false
	}
	return p, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
