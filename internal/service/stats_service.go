package service

import (
	"board-backend/internal/repository/interfaces"
)

type StatsService struct {
	customerRepo interfaces.CustomerRepository
	postRepo     interfaces.PostRepository
}

func NewStatsService(customerRepo interfaces.CustomerRepository, postRepo interfaces.PostRepository) *StatsService {
	return &StatsService{
		customerRepo: customerRepo,
		postRepo:     postRepo,
	}
}

func (s *StatsService) GetSystemStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	customerCount, err := s.customerRepo.Count()
	if err != nil {
		return nil, err
	}
	stats["total_customers"] = customerCount

	postCount, err := s.postRepo.Count()
	if err != nil {
		return nil, err
	}
	stats["total_posts"] = postCount

	likeCount, err := s.postRepo.CountLikes()
	if err != nil {
		return nil, err
	}
	stats["total_likes"] = likeCount

	return stats, nil
}
