package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"iq-quiz-service/internal/app"
	"iq-quiz-service/internal/domain"
)

var rules = []string{
	"Read each question carefully and trust your first instinct.",
	"Select one option, then confirm it to move on; confirmed answers cannot be changed.",
	"Unanswered questions are scored as incorrect when the time runs out.",
}

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
	tick     time.Duration
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return NewWSHandlerWithTick(service, time.Second)
}

// NewWSHandlerWithTick lets tests drive the countdown faster than real time.
func NewWSHandlerWithTick(service *app.QuizService, tick time.Duration) *WSHandler {
	return &WSHandler{
		service: service,
		tick:    tick,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Option *int `json:"option"`
}

type instructionsPayload struct {
	Rules           []string `json:"rules"`
	DurationSeconds int      `json:"durationSeconds"`
	TotalQuestions  int      `json:"totalQuestions"`
}

type tickPayload struct {
	Remaining int    `json:"remaining"`
	Clock     string `json:"clock"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades to a websocket and runs one attempt over it. A single
// loop consumes client messages and countdown ticks, so transitions never
// interleave. The ticker only exists while the attempt is running.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	clientID := ClientIDFrom(r.Context())
	if clientID == "" {
		http.Error(w, "missing client identity", http.StatusUnauthorized)
		return
	}

	// Upgrade writes its own response; carry over a freshly issued identity cookie.
	header := http.Header{}
	if cookies := w.Header().Values("Set-Cookie"); len(cookies) > 0 {
		header["Set-Cookie"] = cookies
	}
	conn, err := h.upgrader.Upgrade(w, r, header)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	attemptID, _ := h.service.Begin(clientID)
	defer h.service.Abandon(attemptID)

	inbound := make(chan inboundMessage)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(inbound)
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			select {
			case inbound <- msg:
			case <-done:
				return
			}
		}
	}()

	var ticker *time.Ticker
	var ticks <-chan time.Time
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, ticks = nil, nil
		}
	}
	defer stopTicker()

	if err := conn.WriteJSON(outboundMessage[instructionsPayload]{Type: "instructions", Payload: instructionsPayload{
		Rules:           rules,
		DurationSeconds: int(h.service.Duration() / time.Second),
		TotalQuestions:  h.service.TotalQuestions(),
	}}); err != nil {
		log.Printf("ws write error: %v", err)
		return
	}

	for {
		var out any
		var outcome *app.Outcome

		select {
		case <-ctx.Done():
			return

		case msg, ok := <-inbound:
			if !ok {
				return
			}
			switch msg.Type {
			case "start":
				snap, err := h.service.Start(ctx, attemptID)
				if err != nil {
					out = errorMessage(err)
					break
				}
				ticker = time.NewTicker(h.tick)
				ticks = ticker.C
				out = outboundMessage[app.Snapshot]{Type: "question", Payload: snap}
			case "select":
				var payload selectPayload
				if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Option == nil {
					out = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid select payload"}}
					break
				}
				snap, err := h.service.Select(ctx, attemptID, *payload.Option)
				if err != nil {
					out = errorMessage(err)
					break
				}
				out = outboundMessage[app.Snapshot]{Type: "question", Payload: snap}
			case "next":
				snap, finished, err := h.service.Next(ctx, attemptID)
				if err != nil {
					out = errorMessage(err)
					break
				}
				outcome = finished
				out = outboundMessage[app.Snapshot]{Type: "question", Payload: snap}
			default:
				out = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
			}

		case <-ticks:
			snap, finished, err := h.service.Tick(ctx, attemptID)
			if err != nil {
				log.Printf("ws tick for attempt %s: %v", attemptID, err)
				return
			}
			outcome = finished
			out = outboundMessage[tickPayload]{Type: "tick", Payload: tickPayload{Remaining: snap.Remaining, Clock: snap.Clock}}
		}

		if outcome != nil {
			stopTicker()
			h.finish(conn, outcome)
			return
		}
		if err := conn.WriteJSON(out); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}

// finish tells the client to navigate to the result view and closes the socket.
func (h *WSHandler) finish(conn *websocket.Conn, outcome *app.Outcome) {
	if err := conn.WriteJSON(outboundMessage[*app.Outcome]{Type: "finished", Payload: outcome}); err != nil {
		log.Printf("ws write error: %v", err)
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "finished"),
		time.Now().Add(time.Second))
}

func errorMessage(err error) outboundMessage[errorPayload] {
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		msg = "action not available now"
	case errors.Is(err, domain.ErrOptionOutOfRange):
		msg = "option out of range"
	}
	return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: msg}}
}
