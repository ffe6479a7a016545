package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"eventName is required"`
}

// IngestResponse represents a successful event ingestion response
type IngestResponse struct {
	Message string `json:"message" example:"Event received successfully."`
}

// AdvertiserData identifies the matched advertiser
type AdvertiserData struct {
	ID          string `json:"id" example:"microsoft"`
	Name        string `json:"name" example:"Microsoft"`
	Description string `json:"description" example:"Microsoft AI and cloud services for enterprise solutions"`
}

// AdResponse represents a generated ad
type AdResponse struct {
	Advertiser      AdvertiserData `json:"advertiser"`
	AdContent       string         `json:"ad_content" example:"Microsoft의 솔루션이 궁금하시군요! 무료 체험 신청"`
	SimilarityScore float64        `json:"similarity_score" example:"0.87"`
	UserQuery       string         `json:"user_query" example:"마이크로소프트 클라우드 가격이 궁금해요"`
}

// LeadGroupData represents aggregated leads for a specific group
type LeadGroupData struct {
	GroupValue string `json:"group_value" example:"Microsoft"`
	TotalCount uint64 `json:"total_count" example:"42"`
}

// GetLeadStatsResponse represents the lead statistics response
type GetLeadStatsResponse struct {
	CustomerID      string          `json:"customer_id,omitempty" example:"customer-1"`
	From            int64           `json:"from" example:"1723475612"`
	To              int64           `json:"to" example:"1723562012"`
	TotalCount      uint64          `json:"total_count" example:"120"`
	UniqueCustomers uint64          `json:"unique_customers" example:"7"`
	GroupBy         string          `json:"group_by,omitempty" example:"advertiser"`
	Groups          []LeadGroupData `json:"groups,omitempty"`
}
