package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ludora/internal/cache"
	"ludora/internal/domain"
	"ludora/internal/dto"
	"ludora/internal/logger"

	"go.uber.org/zap"
)

const topicsCacheTTL = 1 * time.Hour

// TopicService serves curriculum reference data.
type TopicService interface {
	ListTopics(ctx context.Context) ([]dto.TopicResponse, error)
	// InvalidateTopics drops the cached topic list after topics change.
	InvalidateTopics(ctx context.Context) error
}

type topicServiceImpl struct {
	topicRepo domain.TopicRepository
	cache     domain.Cache
}

// NewTopicService creates a TopicService. cache may be nil.
func NewTopicService(topicRepo domain.TopicRepository, cache domain.Cache) TopicService {
	return &topicServiceImpl{topicRepo: topicRepo, cache: cache}
}

func (s *topicServiceImpl) ListTopics(ctx context.Context) ([]dto.TopicResponse, error) {
	key := cache.TopicsKey()
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var topics []dto.TopicResponse
			if err := json.Unmarshal([]byte(cached), &topics); err == nil {
				return topics, nil
			}
			logger.Get().Warn("Failed to decode cached topics", zap.String("key", key), zap.Error(err))
		} else if err != domain.ErrCacheMiss {
			logger.Get().Warn("Topic cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	stored, err := s.topicRepo.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	topics := make([]dto.TopicResponse, 0, len(stored))
	for _, t := range stored {
		topics = append(topics, dto.TopicResponse{
			ID:          t.ID,
			Name:        t.Name,
			Subject:     t.Subject,
			Description: t.Description,
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(topics); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), topicsCacheTTL); err != nil {
				logger.Get().Warn("Topic cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return topics, nil
}

func (s *topicServiceImpl) InvalidateTopics(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, cache.TopicsKey())
}
