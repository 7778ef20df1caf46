package commands

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"ludora/internal/dto"
	"ludora/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLeaderboardService struct {
	service.LeaderboardService
	recomputed []string
	allResults []dto.RecomputeResponse
	allErr     error
}

func (f *fakeLeaderboardService) Recompute(ctx context.Context, id string) (*dto.RecomputeResponse, error) {
	f.recomputed = append(f.recomputed, id)
	return &dto.RecomputeResponse{LeaderboardID: id, EntryDate: "2026-10-12", EntriesUpdated: 4}, nil
}

func (f *fakeLeaderboardService) RecomputeAll(ctx context.Context) ([]dto.RecomputeResponse, error) {
	return f.allResults, f.allErr
}

func runLeaderboard(t *testing.T, svc service.LeaderboardService, args ...string) (string, error) {
	t.Helper()
	cmd := LeaderboardCommands(svc, zap.NewNop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLeaderboardRefresh_Single(t *testing.T) {
	svc := &fakeLeaderboardService{}

	out, err := runLeaderboard(t, svc, "refresh", "--id", "lb-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"lb-1"}, svc.recomputed)
	assert.Contains(t, out, "lb-1\t2026-10-12\t4 entries")
}

func TestLeaderboardRefresh_All(t *testing.T) {
	svc := &fakeLeaderboardService{allResults: []dto.RecomputeResponse{
		{LeaderboardID: "lb-1", EntryDate: "1970-01-01", EntriesUpdated: 2},
		{LeaderboardID: "lb-2", EntryDate: "2026-10-18", EntriesUpdated: 0},
	}}

	out, err := runLeaderboard(t, svc, "refresh")

	require.NoError(t, err)
	assert.Empty(t, svc.recomputed)
	assert.Contains(t, out, "lb-1\t1970-01-01\t2 entries")
	assert.Contains(t, out, "lb-2\t2026-10-18\t0 entries")
}

func TestLeaderboardRefresh_PartialFailure(t *testing.T) {
	svc := &fakeLeaderboardService{
		allResults: []dto.RecomputeResponse{{LeaderboardID: "lb-1", EntryDate: "2026-10-18"}},
		allErr:     errors.New("leaderboard lb-2: ORA-00942: table or view does not exist"),
	}

	out, err := runLeaderboard(t, svc, "refresh")

	assert.Error(t, err)
	assert.Contains(t, out, "lb-1\t2026-10-18\t0 entries")
}
