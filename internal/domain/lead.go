package domain

import "time"

// LeadStatus is the outcome of advertiser identification
type LeadStatus string

const (
	LeadStatusIdentified    LeadStatus = "identified"
	LeadStatusNotIdentified LeadStatus = "not_identified"
)

// LeadRecord is a candidate advertiser inferred from a purchase-consideration question
type LeadRecord struct {
	CustomerID              string     `json:"customerId"`
	PotentialAdvertiserName string     `json:"potentialAdvertiserName"`
	OriginalQuestion        string     `json:"originalQuestion"`
	Status                  LeadStatus `json:"status"`
	SourceEventID           string     `json:"sourceEventId"`
	Intent                  Intent     `json:"intent"`
	IdentifiedAt            time.Time  `json:"identifiedAt"`
}
