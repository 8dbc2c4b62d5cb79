package app_test

import (
	"testing"

	"iq-quiz-service/internal/app"
	"iq-quiz-service/internal/domain"
)

func TestScoreAllCorrect(t *testing.T) {
	questions := domain.Questions()
	answers := make([]int, len(questions))
	for i, q := range questions {
		answers[i] = q.Correct
	}
	score := app.Score(questions, answers)
	if score != len(questions) {
		t.Fatalf("expected %d, got %d", len(questions), score)
	}
	if pct := app.Percentage(score, len(questions)); pct != 100 {
		t.Fatalf("expected 100%%, got %v", pct)
	}
}

func TestScoreUnansweredCountsAsIncorrect(t *testing.T) {
	questions := domain.Questions()
	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = domain.Unanswered
	}
	answers[0] = questions[0].Correct

	if score := app.Score(questions, answers); score != 1 {
		t.Fatalf("expected 1, got %d", score)
	}
	// a short answer slice still scores against the whole battery
	if score := app.Score(questions, []int{questions[0].Correct}); score != 1 {
		t.Fatalf("expected 1 for truncated answers, got %d", score)
	}
	if pct := app.Percentage(1, len(questions)); pct != 10 {
		t.Fatalf("expected unanswered slots in the denominator, got %v", pct)
	}
}

func TestDeriveIQScenarios(t *testing.T) {
	cases := []struct {
		score, total int
		iq           int
		band         string
	}{
		{8, 10, 124, "Superior"},
		{30, 30, 145, "Gifted"},
		{0, 10, 85, "Below Average"},
		{5, 10, 100, "Average"},
		{7, 10, 111, "Above Average"},
		{9, 10, 142, "Gifted"},
		{6, 10, 103, "Average"},
	}
	for _, tc := range cases {
		m := app.Derive(domain.ResultRecord{Score: tc.score, TotalQuestions: tc.total})
		if m.IQ != tc.iq {
			t.Errorf("%d/%d: expected iq %d, got %d", tc.score, tc.total, tc.iq, m.IQ)
		}
		if m.Band.Name != tc.band {
			t.Errorf("%d/%d: expected band %s, got %s", tc.score, tc.total, tc.band, m.Band.Name)
		}
	}
}

func TestDeriveIQMonotonic(t *testing.T) {
	prev := app.DeriveIQ(0)
	for p := 0.0; p <= 100; p += 0.5 {
		iq := app.DeriveIQ(p)
		if iq < prev {
			t.Fatalf("iq dropped from %d to %d at %v%%", prev, iq, p)
		}
		prev = iq
	}
	if app.DeriveIQ(100) < app.DeriveIQ(50) {
		t.Fatalf("expected 100%% to score at least 50%%")
	}
}

func TestBandIsTotal(t *testing.T) {
	names := map[string]bool{
		"Low": true, "Below Average": true, "Average": true,
		"Above Average": true, "Superior": true, "Gifted": true,
	}
	for iq := -50; iq <= 250; iq++ {
		band := app.Band(iq)
		if !names[band.Name] || band.Description == "" {
			t.Fatalf("iq %d fell outside the bands: %+v", iq, band)
		}
	}
	boundaries := map[int]string{79: "Low", 80: "Below Average", 89: "Below Average", 90: "Average", 110: "Above Average", 120: "Superior", 130: "Gifted"}
	for iq, want := range boundaries {
		if got := app.Band(iq).Name; got != want {
			t.Errorf("iq %d: expected %s, got %s", iq, want, got)
		}
	}
}

func TestPercentileIsUnclamped(t *testing.T) {
	if got := app.Percentile(145); got != 120 {
		t.Fatalf("expected 120, got %d", got)
	}
	if got := app.Percentile(80); got != -10 {
		t.Fatalf("expected -10, got %d", got)
	}
}

func TestScoreBounds(t *testing.T) {
	questions := domain.Questions()
	for wrongFrom := 0; wrongFrom <= len(questions); wrongFrom++ {
		answers := make([]int, len(questions))
		for i, q := range questions {
			if i < wrongFrom {
				answers[i] = q.Correct
			} else {
				answers[i] = (q.Correct + 1) % domain.OptionsPerQuestion
			}
		}
		score := app.Score(questions, answers)
		pct := app.Percentage(score, len(questions))
		if score < 0 || score > len(questions) || pct < 0 || pct > 100 {
			t.Fatalf("out of bounds: score=%d pct=%v", score, pct)
		}
	}
}
