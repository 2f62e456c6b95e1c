package service

import (
	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/repository/interfaces"
)

type StatsService struct {
	donationRepo interfaces.DonationRepository
	projectRepo  interfaces.DonationProjectRepository
	userRepo     interfaces.UserRepository
}

func NewStatsService(
	donationRepo interfaces.DonationRepository,
	projectRepo interfaces.DonationProjectRepository,
	userRepo interfaces.UserRepository,
) *StatsService {
	return &StatsService{
		donationRepo: donationRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
	}
}

func (s *StatsService) GetSystemStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	counts, err := s.donationRepo.CountByStatus()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count donations", err)
	}
	stats["pending_donations"] = counts[model.DonationPending]
	stats["approved_donations"] = counts[model.DonationApproved]
	stats["rejected_donations"] = counts[model.DonationRejected]

	total, err := s.donationRepo.SumApprovedAmount()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to sum approved donations", err)
	}
	stats["total_approved_amount"] = total

	activeProjects, err := s.projectRepo.CountActive()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count active projects", err)
	}
	stats["active_donation_projects"] = activeProjects

	userCount, err := s.userRepo.Count()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count users", err)
	}
	stats["total_users"] = userCount

	return stats, nil
}
