package app

import (
	"math"

	"iq-quiz-service/internal/domain"
)

// Score counts answers matching the correct option of the question at the
// same index. Unanswered slots and slots past the end of answers score zero
// but still belong to the denominator.
func Score(questions []domain.Question, answers []int) int {
	score := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] != domain.Unanswered && answers[i] == q.Correct {
			score++
		}
	}
	return score
}

// Percentage returns score/total*100. Integer division is avoided so exact
// thresholds like 70 or 80 compare exactly.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) * 100 / float64(total)
}

// DeriveIQ maps a percentage-correct to the heuristic IQ display value.
// It is not a psychometric instrument.
func DeriveIQ(percentage float64) int {
	iq := 85 + percentage*0.3
	if percentage >= 90 {
		iq += 15
	}
	if percentage >= 80 {
		iq += 10
	}
	if percentage >= 70 {
		iq += 5
	}
	return int(math.Floor(iq + 0.5))
}

var (
	BandGifted       = domain.IQBand{Name: "Gifted", Description: "Exceptional intelligence"}
	BandSuperior     = domain.IQBand{Name: "Superior", Description: "Very high intelligence"}
	BandAboveAverage = domain.IQBand{Name: "Above Average", Description: "Above-normal intelligence"}
	BandAverage      = domain.IQBand{Name: "Average", Description: "Normal intelligence"}
	BandBelowAverage = domain.IQBand{Name: "Below Average", Description: "Slightly below-normal intelligence"}
	BandLow          = domain.IQBand{Name: "Low", Description: "Below-normal intelligence"}
)

// Band buckets an IQ into one of six ordered bands; every int has a band.
func Band(iq int) domain.IQBand {
	switch {
	case iq >= 130:
		return BandGifted
	case iq >= 120:
		return BandSuperior
	case iq >= 110:
		return BandAboveAverage
	case iq >= 90:
		return BandAverage
	case iq >= 80:
		return BandBelowAverage
	default:
		return BandLow
	}
}

// Percentile is the cosmetic "better than N% of the population" figure.
// It is deliberately unclamped and can leave [0,100].
func Percentile(iq int) int {
	return (iq - 85) * 2
}

// Derive computes every display metric for a record.
func Derive(record domain.ResultRecord) domain.Metrics {
	pct := Percentage(record.Score, record.TotalQuestions)
	iq := DeriveIQ(pct)
	return domain.Metrics{
		Percentage: pct,
		IQ:         iq,
		Band:       Band(iq),
		Percentile: Percentile(iq),
	}
}
