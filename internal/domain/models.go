package domain

import "time"

// Category tags the ability a question exercises.
type Category string

const (
	CategoryLogic   Category = "logic"
	CategoryMath    Category = "math"
	CategoryVerbal  Category = "verbal"
	CategoryPattern Category = "pattern"
)

// OptionsPerQuestion is the fixed number of answer options.
const OptionsPerQuestion = 4

// Unanswered marks an answer slot that was never confirmed.
const Unanswered = -1

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID       int                        `json:"id"`
	Prompt   string                     `json:"prompt"`
	Options  [OptionsPerQuestion]string `json:"options"`
	Correct  int                        `json:"-"`
	Category Category                   `json:"category"`
}

// ResultRecord is the persisted summary of a finished attempt.
type ResultRecord struct {
	Score          int
	TotalQuestions int
	TimeUsed       int // seconds
	Timestamp      time.Time
}

// IQBand is one of the six ordered categories a derived IQ falls into.
type IQBand struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Metrics are the display values derived from a ResultRecord.
type Metrics struct {
	Percentage float64 `json:"percentage"`
	IQ         int     `json:"iq"`
	Band       IQBand  `json:"band"`
	Percentile int     `json:"percentile"`
}
