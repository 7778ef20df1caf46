package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ludora/internal/config"
	"ludora/internal/domain"
	"ludora/internal/dto"
	"ludora/internal/logger"
	"ludora/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRefreshConcurrency = 4
	defaultEntriesLimit       = 100
	maxEntriesLimit           = 1000
	entryDateLayout           = "2006-01-02"
)

// LeaderboardService defines the interface for leaderboard operations.
type LeaderboardService interface {
	CreateLeaderboard(ctx context.Context, req *dto.CreateLeaderboardRequest) (*dto.LeaderboardResponse, error)
	ListLeaderboards(ctx context.Context, activeOnly bool) ([]dto.LeaderboardResponse, error)
	// Recompute rebuilds the entries of the board's current window.
	Recompute(ctx context.Context, leaderboardID string) (*dto.RecomputeResponse, error)
	// RecomputeAll refreshes every active board, each in its own transaction.
	RecomputeAll(ctx context.Context) ([]dto.RecomputeResponse, error)
	GetEntries(ctx context.Context, leaderboardID string, limit int) (*dto.LeaderboardEntriesResponse, error)
}

type leaderboardServiceImpl struct {
	lbRepo       domain.LeaderboardRepository
	minigameRepo domain.MinigameRepository
	topicRepo    domain.TopicRepository
	board        domain.RankedBoard
	txManager    domain.TransactionManager
	concurrency  int
	defaultLimit int
	now          func() time.Time
}

// NewLeaderboardService creates a LeaderboardService. board may be nil.
func NewLeaderboardService(
	lbRepo domain.LeaderboardRepository,
	minigameRepo domain.MinigameRepository,
	topicRepo domain.TopicRepository,
	board domain.RankedBoard,
	txManager domain.TransactionManager,
	cfg config.LeaderboardConfig,
) LeaderboardService {
	concurrency := cfg.RefreshConcurrency
	if concurrency <= 0 {
		concurrency = defaultRefreshConcurrency
	}
	limit := cfg.DefaultLimit
	if limit <= 0 {
		limit = defaultEntriesLimit
	}
	return &leaderboardServiceImpl{
		lbRepo:       lbRepo,
		minigameRepo: minigameRepo,
		topicRepo:    topicRepo,
		board:        board,
		txManager:    txManager,
		concurrency:  concurrency,
		defaultLimit: limit,
		now:          time.Now,
	}
}

func (s *leaderboardServiceImpl) CreateLeaderboard(ctx context.Context, req *dto.CreateLeaderboardRequest) (*dto.LeaderboardResponse, error) {
	lb := &domain.Leaderboard{
		ID:          util.NewULID(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ScoreType:   domain.ScoreType(req.ScoreType),
		Timeframe:   domain.Timeframe(req.Timeframe),
		IsActive:    true,
		CreatedAt:   s.now(),
	}

	var errs domain.ValidationErrors
	if lb.Name == "" {
		errs = append(errs, domain.NewMissingFieldError("name"))
	}
	if !lb.ScoreType.Valid() {
		errs = append(errs, domain.NewInvalidFormatError("score_type", req.ScoreType))
	}
	if !lb.Timeframe.Valid() {
		errs = append(errs, domain.NewInvalidFormatError("timeframe", req.Timeframe))
	}
	switch lb.ScoreType {
	case domain.ScoreTypeMinigameHighScore:
		if blank(req.MinigameID) {
			errs = append(errs, domain.NewMissingFieldError("minigame_id"))
		}
		lb.MinigameID = req.MinigameID
	case domain.ScoreTypeTopicProficiency:
		if blank(req.TopicID) {
			errs = append(errs, domain.NewMissingFieldError("topic_id"))
		}
		lb.TopicID = req.TopicID
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if lb.MinigameID != nil {
		m, err := s.minigameRepo.GetMinigameByID(ctx, *lb.MinigameID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, domain.NewNotFoundError("minigame", *lb.MinigameID)
		}
	}
	if lb.TopicID != nil {
		t, err := s.topicRepo.GetTopicByID(ctx, *lb.TopicID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, domain.NewNotFoundError("topic", *lb.TopicID)
		}
	}

	exists, err := s.lbRepo.ExistsByName(ctx, lb.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewConflictError(domain.CodeDuplicateName, "leaderboard name already exists").WithDetail("name", lb.Name)
	}
	if err := s.lbRepo.CreateLeaderboard(ctx, lb); err != nil {
		return nil, err
	}

	logger.Get().Info("Leaderboard created",
		zap.String("leaderboardID", lb.ID),
		zap.String("scoreType", string(lb.ScoreType)),
		zap.String("timeframe", string(lb.Timeframe)))
	resp := toLeaderboardResponse(lb)
	return &resp, nil
}

func (s *leaderboardServiceImpl) ListLeaderboards(ctx context.Context, activeOnly bool) ([]dto.LeaderboardResponse, error) {
	boards, err := s.lbRepo.ListLeaderboards(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LeaderboardResponse, 0, len(boards))
	for _, lb := range boards {
		out = append(out, toLeaderboardResponse(lb))
	}
	return out, nil
}

func (s *leaderboardServiceImpl) Recompute(ctx context.Context, leaderboardID string) (*dto.RecomputeResponse, error) {
	lb, err := s.lbRepo.GetLeaderboardByID(ctx, leaderboardID)
	if err != nil {
		return nil, err
	}
	if lb == nil {
		return nil, domain.NewNotFoundError("leaderboard", leaderboardID)
	}
	return s.recompute(ctx, lb)
}

func (s *leaderboardServiceImpl) recompute(ctx context.Context, lb *domain.Leaderboard) (*dto.RecomputeResponse, error) {
	now := s.now()
	start, entryDate := lb.Timeframe.Window(now)

	var (
		scores  []domain.UserScore
		entries []*domain.LeaderboardEntry
	)
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		scores, err = s.lbRepo.AggregateScores(txCtx, lb, start)
		if err != nil {
			return err
		}
		for _, sc := range scores {
			if err := s.lbRepo.UpsertEntry(txCtx, lb.ID, sc.UserID, entryDate, sc.Score, now); err != nil {
				return err
			}
		}

		entries, err = s.lbRepo.ListEntries(txCtx, lb.ID, entryDate, 0)
		if err != nil {
			return err
		}
		domain.AssignRanks(entries)
		if err := s.lbRepo.UpdateRanks(txCtx, entries); err != nil {
			return err
		}
		return s.lbRepo.TouchLastUpdated(txCtx, lb.ID, now)
	})
	if err != nil {
		return nil, fmt.Errorf("recompute leaderboard %s: %w", lb.ID, err)
	}

	s.publish(ctx, lb.ID, entryDate, entries)

	logger.Get().Info("Leaderboard recomputed",
		zap.String("leaderboardID", lb.ID),
		zap.String("entryDate", entryDate.Format(entryDateLayout)),
		zap.Int("scores", len(scores)),
		zap.Int("entries", len(entries)))
	return &dto.RecomputeResponse{
		LeaderboardID:  lb.ID,
		EntryDate:      entryDate.Format(entryDateLayout),
		EntriesUpdated: len(scores),
		LastUpdated:    now,
	}, nil
}

// publish mirrors ranked entries into the board. Failures only cost read latency.
func (s *leaderboardServiceImpl) publish(ctx context.Context, leaderboardID string, entryDate time.Time, entries []*domain.LeaderboardEntry) {
	if s.board == nil {
		return
	}
	if err := s.board.Replace(ctx, leaderboardID, entryDate, entries); err != nil {
		logger.Get().Warn("Failed to publish leaderboard to cache",
			zap.String("leaderboardID", leaderboardID), zap.Error(err))
	}
}

func (s *leaderboardServiceImpl) RecomputeAll(ctx context.Context) ([]dto.RecomputeResponse, error) {
	boards, err := s.lbRepo.ListLeaderboards(ctx, true)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.RecomputeResponse, len(boards))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, lb := range boards {
		i, lb := i, lb
		g.Go(func() error {
			res, err := s.recompute(ctx, lb)
			if err != nil {
				logger.Get().Error("Leaderboard refresh failed", zap.String("leaderboardID", lb.ID), zap.Error(err))
				return err
			}
			results[i] = res
			return nil
		})
	}
	waitErr := g.Wait()

	out := make([]dto.RecomputeResponse, 0, len(boards))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, waitErr
}

func (s *leaderboardServiceImpl) GetEntries(ctx context.Context, leaderboardID string, limit int) (*dto.LeaderboardEntriesResponse, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > maxEntriesLimit {
		limit = maxEntriesLimit
	}

	lb, err := s.lbRepo.GetLeaderboardByID(ctx, leaderboardID)
	if err != nil {
		return nil, err
	}
	if lb == nil {
		return nil, domain.NewNotFoundError("leaderboard", leaderboardID)
	}
	_, entryDate := lb.Timeframe.Window(s.now())

	entries, err := s.readEntries(ctx, lb.ID, entryDate, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.LeaderboardEntryResponse, 0, len(entries))
	for i, e := range entries {
		rank := i + 1
		if e.Rank != nil {
			rank = *e.Rank
		}
		out = append(out, dto.LeaderboardEntryResponse{
			Rank:      rank,
			UserID:    e.UserID,
			Username:  e.Username,
			Score:     e.Score,
			UpdatedAt: e.UpdatedAt,
		})
	}
	return &dto.LeaderboardEntriesResponse{
		LeaderboardID: lb.ID,
		EntryDate:     entryDate.Format(entryDateLayout),
		Entries:       out,
	}, nil
}

// readEntries serves from the ranked board and falls back to the database,
// re-publishing the full window on a miss.
func (s *leaderboardServiceImpl) readEntries(ctx context.Context, leaderboardID string, entryDate time.Time, limit int) ([]*domain.LeaderboardEntry, error) {
	if s.board != nil {
		entries, err := s.board.Top(ctx, leaderboardID, entryDate, limit)
		if err == nil {
			return entries, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Leaderboard cache read failed", zap.String("leaderboardID", leaderboardID), zap.Error(err))
		}
	}

	entries, err := s.lbRepo.ListEntries(ctx, leaderboardID, entryDate, 0)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 && ranked(entries) {
		s.publish(ctx, leaderboardID, entryDate, entries)
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func ranked(entries []*domain.LeaderboardEntry) bool {
	for _, e := range entries {
		if e.Rank == nil {
			return false
		}
	}
	return true
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func toLeaderboardResponse(lb *domain.Leaderboard) dto.LeaderboardResponse {
	return dto.LeaderboardResponse{
		ID:          lb.ID,
		Name:        lb.Name,
		Description: lb.Description,
		ScoreType:   string(lb.ScoreType),
		Timeframe:   string(lb.Timeframe),
		MinigameID:  lb.MinigameID,
		TopicID:     lb.TopicID,
		IsActive:    lb.IsActive,
		LastUpdated: lb.LastUpdated,
	}
}
