package queue

import (
	"context"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
)

// LeadNotifier announces identified leads to the sales team
type LeadNotifier interface {
	PublishLead(ctx context.Context, lead *domain.LeadRecord) error
}
