package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"iq-quiz-service/internal/app"
	"iq-quiz-service/internal/domain"
	"iq-quiz-service/internal/infra/memory"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newPresenter(store app.ResultStore) *app.Presenter {
	return app.NewPresenter(store, "client-1", app.PresenterConfig{
		PaymentURL: "https://pay.example/checkout",
		Now:        func() time.Time { return fixedNow },
	})
}

func storeRecord(t *testing.T, store app.ResultStore, record domain.ResultRecord) {
	t.Helper()
	raw, err := app.EncodeRecord(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := store.Set(context.Background(), app.ResultKey("client-1"), raw); err != nil {
		t.Fatalf("set: %v", err)
	}
}

func TestPresenterShowsPaywall(t *testing.T) {
	store := memory.NewResultStore()
	storeRecord(t, store, domain.ResultRecord{Score: 8, TotalQuestions: 10, TimeUsed: 125, Timestamp: fixedNow})

	p := newPresenter(store)
	if p.State() != app.PresenterLoading {
		t.Fatalf("expected loading")
	}
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.State() != app.PresenterPaywall || p.Placeholder() {
		t.Fatalf("expected paywall with real record, got %s placeholder=%v", p.State(), p.Placeholder())
	}

	view := p.View()
	if view.Preview == nil || !view.Preview.Obscured || view.Result != nil {
		t.Fatalf("expected obscured preview only, got %+v", view)
	}
	if view.Preview.IQ != 124 || view.Preview.Category != "Superior" || view.Preview.TimeUsed != "2m 5s" {
		t.Fatalf("unexpected preview %+v", view.Preview)
	}
	if len(view.Actions) != 1 || view.Actions[0].Name != "pay" || view.Actions[0].Target != "https://pay.example/checkout" || !view.Actions[0].NewContext {
		t.Fatalf("expected a single pay action, got %+v", view.Actions)
	}
	if _, err := p.Reset(context.Background()); !errors.Is(err, domain.ErrActionUnavailable) {
		t.Fatalf("expected new test unavailable behind paywall, got %v", err)
	}
	if err := p.Load(context.Background()); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected a single load, got %v", err)
	}
}

func TestPresenterPlaceholderWhenNoRecord(t *testing.T) {
	p := newPresenter(memory.NewResultStore())
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.State() != app.PresenterPaywall || !p.Placeholder() {
		t.Fatalf("expected placeholder paywall, got %s", p.State())
	}
	record := p.Record()
	if record.Score != 8 || record.TotalQuestions != 10 || record.TimeUsed != 300 || !record.Timestamp.Equal(fixedNow) {
		t.Fatalf("unexpected placeholder %+v", record)
	}
}

func TestPresenterMalformedRecord(t *testing.T) {
	store := memory.NewResultStore()
	_ = store.Set(context.Background(), app.ResultKey("client-1"), "{not json")

	p := newPresenter(store)
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.State() != app.PresenterError || !errors.Is(p.Err(), domain.ErrMalformedRecord) {
		t.Fatalf("expected error state, got %s (%v)", p.State(), p.Err())
	}
	view := p.View()
	if len(view.Actions) != 1 || view.Actions[0].Name != "restart" || view.Actions[0].Target != app.EntryPath {
		t.Fatalf("expected restart action, got %+v", view.Actions)
	}
	if err := p.Unlock(); !errors.Is(err, domain.ErrActionUnavailable) {
		t.Fatalf("expected unlock unavailable, got %v", err)
	}
	target, err := p.Restart()
	if err != nil || target != app.EntryPath {
		t.Fatalf("expected restart to entry, got %q %v", target, err)
	}
	// restart only navigates; the corrupt value stays
	if _, err := store.Get(context.Background(), app.ResultKey("client-1")); err != nil {
		t.Fatalf("expected record untouched, got %v", err)
	}
}

func TestPresenterStoreReadFailure(t *testing.T) {
	store := memory.NewResultStore()
	store.FailGet = errors.New("store unavailable")

	p := newPresenter(store)
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.State() != app.PresenterError {
		t.Fatalf("expected error state, got %s", p.State())
	}
}

func TestPresenterUnlockAndReset(t *testing.T) {
	ctx := context.Background()
	store := memory.NewResultStore()
	storeRecord(t, store, domain.ResultRecord{Score: 30, TotalQuestions: 30, TimeUsed: 400, Timestamp: fixedNow})

	p := newPresenter(store)
	_ = p.Load(ctx)
	if err := p.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	view := p.View()
	if view.State != app.PresenterUnlocked || view.Result == nil || view.Preview != nil {
		t.Fatalf("expected full result, got %+v", view)
	}
	res := view.Result
	if res.IQ != 145 || res.Band.Name != "Gifted" || res.Percentage != 100 || res.Percentile != 120 || res.TimeUsed != "6m 40s" {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.Contains(res.Comparison, "better than 120%") || !strings.Contains(res.Comparison, "top 10%") || !strings.Contains(res.Comparison, "giftedness") {
		t.Fatalf("unexpected comparison %q", res.Comparison)
	}
	if res.Certificate.IQ != 145 || res.Certificate.IssuedOn != "19/10/2026" {
		t.Fatalf("unexpected certificate %+v", res.Certificate)
	}

	target, err := p.Reset(ctx)
	if err != nil || target != app.EntryPath {
		t.Fatalf("expected reset to entry, got %q %v", target, err)
	}

	// a later load behaves exactly like the no-record case
	next := newPresenter(store)
	_ = next.Load(ctx)
	if !next.Placeholder() || next.State() != app.PresenterPaywall {
		t.Fatalf("expected placeholder after reset, got %s", next.State())
	}
}

func TestPresenterResetDeleteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	store := memory.NewResultStore()
	storeRecord(t, store, domain.ResultRecord{Score: 5, TotalQuestions: 10, TimeUsed: 10, Timestamp: fixedNow})
	store.FailDelete = errors.New("store unavailable")

	p := newPresenter(store)
	_ = p.Load(ctx)
	_ = p.Unlock()
	target, err := p.Reset(ctx)
	if err != nil || target != app.EntryPath {
		t.Fatalf("expected navigation despite failed delete, got %q %v", target, err)
	}
}

func TestPresenterLoadHonoursDelayAndContext(t *testing.T) {
	p := app.NewPresenter(memory.NewResultStore(), "client-1", app.PresenterConfig{LoadDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled load, got %v", err)
	}
	if p.State() != app.PresenterLoading {
		t.Fatalf("expected still loading, got %s", p.State())
	}

	delayed := app.NewPresenter(memory.NewResultStore(), "client-1", app.PresenterConfig{LoadDelay: 20 * time.Millisecond})
	start := time.Now()
	if err := delayed.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatalf("expected load to wait out the grace delay")
	}
}

func TestComparisonTextRemarks(t *testing.T) {
	if got := app.ComparisonText(110); strings.Contains(got, "top 10%") {
		t.Fatalf("unexpected remark for 110: %q", got)
	}
	got := app.ComparisonText(124)
	if !strings.Contains(got, "78%") || !strings.Contains(got, "top 10%") || strings.Contains(got, "giftedness") {
		t.Fatalf("unexpected text for 124: %q", got)
	}
}
