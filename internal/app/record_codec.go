package app

import (
	"encoding/json"
	"fmt"
	"time"

	"iq-quiz-service/internal/domain"
)

// ResultKeyPrefix is the well-known key results are stored under; the client
// id is appended so each client owns exactly one record.
const ResultKeyPrefix = "qiTestResult"

// ResultKey returns the store key for a client's result record.
func ResultKey(clientID string) string {
	return ResultKeyPrefix + ":" + clientID
}

// timestampLayout is ISO-8601 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type recordWire struct {
	Score          *int    `json:"score"`
	TotalQuestions *int    `json:"totalQuestions"`
	TimeUsed       *int    `json:"timeUsed"`
	Timestamp      *string `json:"timestamp"`
}

// EncodeRecord serializes a record to its stored JSON form.
func EncodeRecord(record domain.ResultRecord) (string, error) {
	ts := record.Timestamp.UTC().Format(timestampLayout)
	data, err := json.Marshal(recordWire{
		Score:          &record.Score,
		TotalQuestions: &record.TotalQuestions,
		TimeUsed:       &record.TimeUsed,
		Timestamp:      &ts,
	})
	if err != nil {
		return "", fmt.Errorf("encode result record: %w", err)
	}
	return string(data), nil
}

// DecodeRecord parses a stored record. Every failure wraps ErrMalformedRecord.
func DecodeRecord(raw string) (domain.ResultRecord, error) {
	var wire recordWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return domain.ResultRecord{}, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	if wire.Score == nil || wire.TotalQuestions == nil || wire.TimeUsed == nil || wire.Timestamp == nil {
		return domain.ResultRecord{}, fmt.Errorf("%w: missing field", domain.ErrMalformedRecord)
	}
	ts, err := time.Parse(time.RFC3339Nano, *wire.Timestamp)
	if err != nil {
		return domain.ResultRecord{}, fmt.Errorf("%w: timestamp: %v", domain.ErrMalformedRecord, err)
	}
	record := domain.ResultRecord{
		Score:          *wire.Score,
		TotalQuestions: *wire.TotalQuestions,
		TimeUsed:       *wire.TimeUsed,
		Timestamp:      ts.UTC(),
	}
	if record.TotalQuestions <= 0 || record.Score < 0 || record.Score > record.TotalQuestions || record.TimeUsed < 0 {
		return domain.ResultRecord{}, fmt.Errorf("%w: out of range values %+v", domain.ErrMalformedRecord, record)
	}
	return record, nil
}
