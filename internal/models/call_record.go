package models

import (
	"time"
)

// CallRecord is one processed call: the transcription in the original spoken
// language, its English translation, and the derived analysis. Records are
// written once and never updated.
type CallRecord struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Timestamp       time.Time `gorm:"index:idx_call_records_timestamp,sort:desc" json:"timestamp"`
	Filename        string    `gorm:"index" json:"filename"`
	TranscribedText string    `gorm:"type:text" json:"transcribed_text"`
	TranslatedText  string    `gorm:"type:text" json:"translated_text"`
	Analysis        string    `gorm:"type:text" json:"analysis"`
	Intent          string    `gorm:"index" json:"intent"`
	Sentiment       string    `json:"sentiment"`
	Language        string    `json:"language"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName specifies the table name for CallRecord
func (CallRecord) TableName() string {
	return "call_records"
}

// RecordStats aggregates history-view metrics over the call_records table.
type RecordStats struct {
	TotalCalls        int64   `json:"total_calls"`
	TodayCalls        int64   `json:"today_calls"`
	AvgTranscriptSize float64 `json:"avg_transcript_chars"`
}
