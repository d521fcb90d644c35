package scheduler

import (
	"errors"
	"testing"

	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRatings struct {
	calls  []string
	fixErr error
}

func (f *fakeRatings) Recompute(_ *gorm.DB, fragranceID uint, _ string) (service.RatingSummary, error) {
	f.calls = append(f.calls, "recompute")
	return service.RatingSummary{FragranceID: fragranceID}, nil
}

func (f *fakeRatings) FixZeroRatings() ([]service.StaleRating, error) {
	f.calls = append(f.calls, "fix")
	return nil, f.fixErr
}

func (f *fakeRatings) RecomputeAll() (service.RepairResult, error) {
	f.calls = append(f.calls, "recompute_all")
	return service.RepairResult{Processed: 3}, nil
}

type fakeLimiter struct{ cleaned int }

func (f *fakeLimiter) Cleanup() int {
	f.cleaned++
	return 2
}

func TestMaintenanceScheduler_RunRatingRepair(t *testing.T) {
	ratings := &fakeRatings{}
	s := NewMaintenanceScheduler(ratings, nil, "")

	s.RunRatingRepair()
	assert.Equal(t, []string{"fix", "recompute_all"}, ratings.calls)
}

func TestMaintenanceScheduler_RunRatingRepair_StopsOnFixError(t *testing.T) {
	ratings := &fakeRatings{fixErr: errors.New("db down")}
	s := NewMaintenanceScheduler(ratings, nil, "")

	s.RunRatingRepair()
	assert.Equal(t, []string{"fix"}, ratings.calls)
}

func TestMaintenanceScheduler_Start(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		limiter  LimiterCleaner
		wantErr  bool
		wantJobs int
	}{
		{"Repair disabled", "", &fakeLimiter{}, false, 1},
		{"Repair enabled", "0 4 * * *", &fakeLimiter{}, false, 2},
		{"No jobs", "", nil, false, 0},
		{"Invalid spec", "every day", nil, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMaintenanceScheduler(&fakeRatings{}, tt.limiter, tt.spec)
			err := s.Start()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Stop()
			assert.Len(t, s.cron.Entries(), tt.wantJobs)
		})
	}
}

func TestMaintenanceScheduler_LimiterCleanup(t *testing.T) {
	limiter := &fakeLimiter{}
	s := NewMaintenanceScheduler(&fakeRatings{}, limiter, "")

	s.runLimiterCleanup()
	assert.Equal(t, 1, limiter.cleaned)
}
