package contracts

import "time"

// Ticker represents a tracked equity symbol
// Created on first discovery; immutable afterwards except metadata refresh
// (company name / industry filled in by the validator once fundamentals land).
type Ticker struct {
	ID          int64     `json:"id"`
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
