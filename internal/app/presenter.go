package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"iq-quiz-service/internal/domain"
)

// PresenterState is a step of the result view lifecycle.
type PresenterState string

const (
	PresenterLoading  PresenterState = "loading"
	PresenterError    PresenterState = "error"
	PresenterPaywall  PresenterState = "paywall"
	PresenterUnlocked PresenterState = "unlocked"
)

const (
	// DefaultLoadDelay is the grace period before the single store read.
	DefaultLoadDelay = 100 * time.Millisecond
	// DefaultPaymentURL is the external checkout page opened from the paywall.
	DefaultPaymentURL = "https://pay.infinitepay.io/testede_qi/10,00/"

	certificateDateLayout = "02/01/2006"
)

// PresenterConfig tunes a Presenter.
type PresenterConfig struct {
	LoadDelay  time.Duration
	PaymentURL string
	Now        func() time.Time
}

// Presenter reads a client's result record once and derives the result view.
type Presenter struct {
	store  ResultStore
	key    string
	delay  time.Duration
	payURL string
	now    func() time.Time

	state       PresenterState
	record      domain.ResultRecord
	metrics     domain.Metrics
	placeholder bool
	loadErr     error
}

// NewPresenter creates a presenter for a client in the loading state.
func NewPresenter(store ResultStore, clientID string, cfg PresenterConfig) *Presenter {
	if cfg.PaymentURL == "" {
		cfg.PaymentURL = DefaultPaymentURL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.LoadDelay < 0 {
		cfg.LoadDelay = 0
	}
	return &Presenter{
		store:  store,
		key:    ResultKey(clientID),
		delay:  cfg.LoadDelay,
		payURL: cfg.PaymentURL,
		now:    cfg.Now,
		state:  PresenterLoading,
	}
}

// PlaceholderRecord is shown when no record exists, so the view stays demonstrable.
func PlaceholderRecord(now time.Time) domain.ResultRecord {
	return domain.ResultRecord{
		Score:          8,
		TotalQuestions: 10,
		TimeUsed:       300,
		Timestamp:      now.UTC().Truncate(time.Millisecond),
	}
}

// State returns the current presenter state.
func (p *Presenter) State() PresenterState {
	return p.state
}

// Record returns the record the view is derived from.
func (p *Presenter) Record() domain.ResultRecord {
	return p.record
}

// Metrics returns the derived display metrics.
func (p *Presenter) Metrics() domain.Metrics {
	return p.metrics
}

// Placeholder reports whether the view shows the stand-in outcome.
func (p *Presenter) Placeholder() bool {
	return p.placeholder
}

// Err returns the read or decode failure that led to the error state.
func (p *Presenter) Err() error {
	return p.loadErr
}

// Load waits out the grace delay and reads the record exactly once. It only
// returns an error when ctx ends first or Load was already called; store and
// decode failures are reflected in the error state.
func (p *Presenter) Load(ctx context.Context) error {
	if p.state != PresenterLoading {
		return fmt.Errorf("load in %s: %w", p.state, domain.ErrInvalidTransition)
	}
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	raw, err := p.store.Get(ctx, p.key)
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		log.Printf("no result stored under %s, showing placeholder", p.key)
		p.placeholder = true
		p.show(PlaceholderRecord(p.now()))
		return nil
	case err != nil:
		log.Printf("read result %s: %v", p.key, err)
		p.loadErr = err
		p.state = PresenterError
		return nil
	}

	record, err := DecodeRecord(raw)
	if err != nil {
		log.Printf("parse result %s: %v", p.key, err)
		p.loadErr = err
		p.state = PresenterError
		return nil
	}
	p.show(record)
	return nil
}

func (p *Presenter) show(record domain.ResultRecord) {
	p.record = record
	p.metrics = Derive(record)
	p.state = PresenterPaywall
}

// Unlock reveals the full result. Nothing verifies that payment happened.
func (p *Presenter) Unlock() error {
	if p.state != PresenterPaywall {
		return fmt.Errorf("unlock in %s: %w", p.state, domain.ErrActionUnavailable)
	}
	p.state = PresenterUnlocked
	return nil
}

// Reset deletes the stored record so the next load behaves as if no attempt
// was made, and returns the path of the quiz entry view. A failed delete is
// logged only.
func (p *Presenter) Reset(ctx context.Context) (string, error) {
	if p.state != PresenterUnlocked {
		return "", fmt.Errorf("new test in %s: %w", p.state, domain.ErrActionUnavailable)
	}
	if err := p.store.Delete(ctx, p.key); err != nil {
		log.Printf("clear result %s: %v", p.key, err)
	}
	return EntryPath, nil
}

// Restart leaves the error view for the quiz entry view.
func (p *Presenter) Restart() (string, error) {
	if p.state != PresenterError {
		return "", fmt.Errorf("restart in %s: %w", p.state, domain.ErrActionUnavailable)
	}
	return EntryPath, nil
}

// Action is a control offered by a result view.
type Action struct {
	Name       string `json:"name"`
	Target     string `json:"target"`
	NewContext bool   `json:"newContext,omitempty"`
}

// Preview is the obscured paywall teaser.
type Preview struct {
	IQ             int    `json:"iq"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	TimeUsed       string `json:"timeUsed"`
	Category       string `json:"category"`
	Obscured       bool   `json:"obscured"`
}

// Certificate is the shareable summary of an unlocked result.
type Certificate struct {
	IQ       int    `json:"iq"`
	IssuedOn string `json:"issuedOn"`
	Text     string `json:"text"`
}

// FullResult is every metric shown once the result is unlocked.
type FullResult struct {
	IQ             int           `json:"iq"`
	Band           domain.IQBand `json:"band"`
	Score          int           `json:"score"`
	TotalQuestions int           `json:"totalQuestions"`
	Percentage     int           `json:"percentage"`
	TimeUsed       string        `json:"timeUsed"`
	Percentile     int           `json:"percentile"`
	Comparison     string        `json:"comparison"`
	Certificate    Certificate   `json:"certificate"`
}

// ResultView is the JSON-ready rendering of the presenter state.
type ResultView struct {
	State       PresenterState `json:"state"`
	Placeholder bool           `json:"placeholder,omitempty"`
	Message     string         `json:"message,omitempty"`
	Preview     *Preview       `json:"preview,omitempty"`
	Result      *FullResult    `json:"result,omitempty"`
	Actions     []Action       `json:"actions"`
}

// View renders the current state.
func (p *Presenter) View() ResultView {
	view := ResultView{State: p.state, Placeholder: p.placeholder, Actions: []Action{}}
	switch p.state {
	case PresenterError:
		view.Message = "your result could not be loaded"
		view.Actions = append(view.Actions, Action{Name: "restart", Target: EntryPath})
	case PresenterPaywall:
		view.Preview = &Preview{
			IQ:             p.metrics.IQ,
			Score:          p.record.Score,
			TotalQuestions: p.record.TotalQuestions,
			TimeUsed:       FormatDuration(p.record.TimeUsed),
			Category:       p.metrics.Band.Name,
			Obscured:       true,
		}
		view.Actions = append(view.Actions, Action{Name: "pay", Target: p.payURL, NewContext: true})
	case PresenterUnlocked:
		view.Result = p.fullResult()
		view.Actions = append(view.Actions, Action{Name: "new-test", Target: EntryPath})
	}
	return view
}

func (p *Presenter) fullResult() *FullResult {
	iq := p.metrics.IQ
	return &FullResult{
		IQ:             iq,
		Band:           p.metrics.Band,
		Score:          p.record.Score,
		TotalQuestions: p.record.TotalQuestions,
		Percentage:     int(math.Floor(p.metrics.Percentage + 0.5)),
		TimeUsed:       FormatDuration(p.record.TimeUsed),
		Percentile:     p.metrics.Percentile,
		Comparison:     ComparisonText(iq),
		Certificate: Certificate{
			IQ:       iq,
			IssuedOn: p.record.Timestamp.UTC().Format(certificateDateLayout),
			Text: fmt.Sprintf("This certificate attests that the bearer scored an IQ of %d points on the standardized test taken on %s.",
				iq, p.record.Timestamp.UTC().Format(certificateDateLayout)),
		},
	}
}

// ComparisonText is the population comparison prose for an IQ.
func ComparisonText(iq int) string {
	text := fmt.Sprintf("Your IQ of %d indicates you performed better than %d%% of the general population.", iq, Percentile(iq))
	if iq >= 120 {
		text += " You are in the top 10% most intelligent!"
	}
	if iq >= 130 {
		text += " This is considered giftedness!"
	}
	return text
}

// FormatDuration renders seconds as "Xm Ys".
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
