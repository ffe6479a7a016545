package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
	"github.com/BarkinBalci/ad-scouter-service/internal/repository"
)

// MockLeadRepository is a mock implementation of repository.LeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) InsertLeads(ctx context.Context, leads []*domain.LeadRecord) (int, error) {
	args := m.Called(ctx, leads)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) InitSchema(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLeadRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLeadRepository) Close() error {
	return m.Called().Error(0)
}

func (m *MockLeadRepository) GetLeadStats(ctx context.Context, query repository.LeadStatsQuery) (*repository.LeadStats, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.LeadStats), args.Error(1)
}

// MockLeadNotifier is a mock implementation of queue.LeadNotifier
type MockLeadNotifier struct {
	mock.Mock
}

func (m *MockLeadNotifier) PublishLead(ctx context.Context, lead *domain.LeadRecord) error {
	return m.Called(ctx, lead).Error(0)
}

func TestWorkflow_Forward_StoresThenNotifies(t *testing.T) {
	repo := new(MockLeadRepository)
	notifier := new(MockLeadNotifier)
	workflow := NewWorkflow(repo, notifier, zap.NewNop())

	lead := &domain.LeadRecord{CustomerID: "customer-1", PotentialAdvertiserName: "Kakao", Status: domain.LeadStatusIdentified}

	repo.On("InsertLeads", mock.Anything, []*domain.LeadRecord{lead}).Return(1, nil)
	notifier.On("PublishLead", mock.Anything, lead).Return(nil)

	assert.NoError(t, workflow.Forward(context.Background(), lead))
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestWorkflow_Forward_StoreFailureSkipsNotification(t *testing.T) {
	repo := new(MockLeadRepository)
	notifier := new(MockLeadNotifier)
	workflow := NewWorkflow(repo, notifier, zap.NewNop())

	repo.On("InsertLeads", mock.Anything, mock.Anything).Return(0, errors.New("clickhouse down"))

	err := workflow.Forward(context.Background(), &domain.LeadRecord{CustomerID: "customer-1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store lead")
	notifier.AssertNotCalled(t, "PublishLead", mock.Anything, mock.Anything)
}

func TestWorkflow_Forward_NotificationFailure(t *testing.T) {
	repo := new(MockLeadRepository)
	notifier := new(MockLeadNotifier)
	workflow := NewWorkflow(repo, notifier, zap.NewNop())

	repo.On("InsertLeads", mock.Anything, mock.Anything).Return(1, nil)
	notifier.On("PublishLead", mock.Anything, mock.Anything).Return(errors.New("throttled"))

	err := workflow.Forward(context.Background(), &domain.LeadRecord{CustomerID: "customer-1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to notify sales team")
}
