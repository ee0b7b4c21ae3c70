// internal/domain/entity/flight_report.go
package entity

import (
	"time"
)

// Fault is one fault line extracted from a scanned report page.
type Fault struct {
	Time        string `json:"time"`
	Phase       string `json:"phase"`
	ATAChapter  string `json:"ataChapter"`
	Description string `json:"description"`
}

// Failure is one system failure line extracted from a scanned report page.
type Failure struct {
	Time        string `json:"time"`
	Source      string `json:"source"`
	Identifier  string `json:"identifier"`
	Description string `json:"description"`
}

// FlightReport is one ingested flight report. ID and CreatedAt are assigned
// locally at ingestion time, never taken from the recognition service.
type FlightReport struct {
	ID           string    `json:"id"`
	Aircraft     string    `json:"aircraft"`
	Date         string    `json:"date"`
	FlightNumber string    `json:"flightNumber"`
	CityPair     string    `json:"cityPair"`
	RawText      string    `json:"rawText,omitempty"`
	Faults       []Fault   `json:"faults"`
	Failures     []Failure `json:"failures"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReportDraft is the recognition service output for a single document,
// before identity and ingestion timestamp have been assigned.
type ReportDraft struct {
	Aircraft     string    `json:"aircraft"`
	Date         string    `json:"date"`
	FlightNumber string    `json:"flightNumber"`
	CityPair     string    `json:"cityPair"`
	RawText      string    `json:"rawText,omitempty"`
	Faults       []Fault   `json:"faults"`
	Failures     []Failure `json:"failures"`
}

// IsEmpty reports whether the draft carries no usable content at all.
func (d *ReportDraft) IsEmpty() bool {
	return d.Aircraft == "" && d.FlightNumber == "" && d.CityPair == "" &&
		len(d.Faults) == 0 && len(d.Failures) == 0
}

// Document is one raw scanned page handed to the recognition service.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}
