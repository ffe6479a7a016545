package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/dto"
	"github.com/BarkinBalci/ad-scouter-service/internal/repository"
)

const (
	testFrom int64 = 1723475612
	testTo   int64 = 1723562012
)

func TestStatsService_GetLeadStats_Success(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewStatsService(repo, zap.NewNop())

	repo.On("GetLeadStats", mock.Anything, repository.LeadStatsQuery{
		CustomerID: "customer-1",
		From:       testFrom,
		To:         testTo,
		GroupBy:    repository.GroupByAdvertiser,
	}).Return(&repository.LeadStats{
		TotalCount:      5,
		UniqueCustomers: 1,
		Groups: []repository.LeadGroupResult{
			{GroupValue: "Microsoft", TotalCount: 3},
			{GroupValue: "Google", TotalCount: 2},
		},
	}, nil)

	resp, err := svc.GetLeadStats(context.Background(), &dto.GetLeadStatsRequest{
		CustomerID: "customer-1",
		From:       testFrom,
		To:         testTo,
		GroupBy:    repository.GroupByAdvertiser,
	})

	require.NoError(t, err)
	assert.Equal(t, uint64(5), resp.TotalCount)
	assert.Equal(t, uint64(1), resp.UniqueCustomers)
	assert.Equal(t, []dto.LeadGroupData{
		{GroupValue: "Microsoft", TotalCount: 3},
		{GroupValue: "Google", TotalCount: 2},
	}, resp.Groups)
	repo.AssertExpectations(t)
}

func TestStatsService_GetLeadStats_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		req  dto.GetLeadStatsRequest
		msg  string
	}{
		{"inverted range", dto.GetLeadStatsRequest{From: testTo, To: testFrom}, "less than or equal"},
		{"unknown group", dto.GetLeadStatsRequest{From: testFrom, To: testTo, GroupBy: "channel"}, "invalid group_by"},
		{"hourly range too large", dto.GetLeadStatsRequest{From: 1, To: 91 * 24 * 3600, GroupBy: repository.GroupByHour}, "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockLeadRepository)
			svc := NewStatsService(repo, zap.NewNop())

			_, err := svc.GetLeadStats(context.Background(), &tt.req)

			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Contains(t, err.Error(), tt.msg)
			repo.AssertNotCalled(t, "GetLeadStats", mock.Anything, mock.Anything)
		})
	}
}

func TestStatsService_GetLeadStats_RepositoryError(t *testing.T) {
	repo := new(MockLeadRepository)
	svc := NewStatsService(repo, zap.NewNop())

	repo.On("GetLeadStats", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := svc.GetLeadStats(context.Background(), &dto.GetLeadStatsRequest{From: testFrom, To: testTo})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "failed to get lead stats")
}
