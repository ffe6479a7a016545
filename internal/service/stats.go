package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/dto"
	"github.com/BarkinBalci/ad-scouter-service/internal/repository"
)

const maxHourlyRangeSeconds = 90 * 24 * 3600

// StatsService serves lead statistics from the lead repository
type StatsService struct {
	repository repository.LeadRepository
	log        *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(repo repository.LeadRepository, log *zap.Logger) *StatsService {
	return &StatsService{
		repository: repo,
		log:        log,
	}
}

// GetLeadStats validates the query and retrieves aggregated lead statistics
func (s *StatsService) GetLeadStats(ctx context.Context, req *dto.GetLeadStatsRequest) (*dto.GetLeadStatsResponse, error) {
	if req.From > req.To {
		s.log.Warn("Invalid time range for lead stats",
			zap.Int64("from", req.From),
			zap.Int64("to", req.To))
		return nil, fmt.Errorf("%w: from timestamp must be less than or equal to to timestamp", ErrInvalidRequest)
	}

	switch req.GroupBy {
	case "", repository.GroupByAdvertiser, repository.GroupByDay:
	case repository.GroupByHour:
		if rangeSeconds := req.To - req.From; rangeSeconds > maxHourlyRangeSeconds {
			return nil, fmt.Errorf("%w: time range too large for hourly grouping (max 90 days, got %d days)",
				ErrInvalidRequest, rangeSeconds/(24*3600))
		}
	default:
		s.log.Warn("Invalid group_by value", zap.String("group_by", req.GroupBy))
		return nil, fmt.Errorf("%w: invalid group_by value: %s (supported: advertiser, hour, day)", ErrInvalidRequest, req.GroupBy)
	}

	query := repository.LeadStatsQuery{
		CustomerID: req.CustomerID,
		From:       req.From,
		To:         req.To,
		GroupBy:    req.GroupBy,
	}

	s.log.Info("Querying lead stats",
		zap.String("customer_id", req.CustomerID),
		zap.Int64("from", req.From),
		zap.Int64("to", req.To),
		zap.String("group_by", req.GroupBy))

	result, err := s.repository.GetLeadStats(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead stats from repository: %w", err)
	}

	response := &dto.GetLeadStatsResponse{
		CustomerID:      req.CustomerID,
		From:            req.From,
		To:              req.To,
		TotalCount:      result.TotalCount,
		UniqueCustomers: result.UniqueCustomers,
		GroupBy:         req.GroupBy,
		Groups:          make([]dto.LeadGroupData, 0, len(result.Groups)),
	}

	for _, group := range result.Groups {
		response.Groups = append(response.Groups, dto.LeadGroupData{
			GroupValue: group.GroupValue,
			TotalCount: group.TotalCount,
		})
	}

	return response, nil
}
