package dto

// AdRequest represents an ad generation request
type AdRequest struct {
	Query string `json:"query" example:"마이크로소프트 클라우드 가격이 궁금해요"`
}

// GetLeadStatsRequest represents a lead statistics query request
type GetLeadStatsRequest struct {
	CustomerID string `form:"customer_id" example:"customer-1"`
	From       int64  `form:"from" binding:"required" example:"1723475612"`
	To         int64  `form:"to" binding:"required" example:"1723562012"`
	GroupBy    string `form:"group_by" example:"advertiser"`
}
