package sales

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
	"github.com/BarkinBalci/ad-scouter-service/internal/queue"
	"github.com/BarkinBalci/ad-scouter-service/internal/repository"
	"github.com/BarkinBalci/ad-scouter-service/internal/watcher"
)

// Workflow stores identified leads and notifies the sales team
type Workflow struct {
	repo     repository.LeadRepository
	notifier queue.LeadNotifier
	log      *zap.Logger
}

var _ watcher.LeadSink = (*Workflow)(nil)

// NewWorkflow creates a new sales workflow
func NewWorkflow(repo repository.LeadRepository, notifier queue.LeadNotifier, log *zap.Logger) *Workflow {
	return &Workflow{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

// Forward stores the lead and then publishes the notification. A lead that could not
// be stored is not announced.
func (w *Workflow) Forward(ctx context.Context, lead *domain.LeadRecord) error {
	if _, err := w.repo.InsertLeads(ctx, []*domain.LeadRecord{lead}); err != nil {
		return fmt.Errorf("failed to store lead: %w", err)
	}

	if err := w.notifier.PublishLead(ctx, lead); err != nil {
		return fmt.Errorf("failed to notify sales team: %w", err)
	}

	w.log.Debug("Lead forwarded to sales workflow",
		zap.String("customer_id", lead.CustomerID),
		zap.String("advertiser", lead.PotentialAdvertiserName))
	return nil
}
