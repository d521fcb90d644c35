package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/scentvault/scentvault-backend/pkg/logger"
)

// limiterCleanupSpec 유휴 rate limiter 정리 주기
const limiterCleanupSpec = "@every 10m"

// LimiterCleaner 유휴 rate limiter 정리
type LimiterCleaner interface {
	Cleanup() int
}

// MaintenanceScheduler 평점 복구 및 rate limiter 정리 스케줄러
type MaintenanceScheduler struct {
	cron       *cron.Cron
	ratings    service.RatingService
	limiter    LimiterCleaner
	repairSpec string
}

// NewMaintenanceScheduler 스케줄러 생성 (repairSpec 이 비어 있으면 평점 복구 작업 비활성화)
func NewMaintenanceScheduler(ratings service.RatingService, limiter LimiterCleaner, repairSpec string) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cron:       cron.New(),
		ratings:    ratings,
		limiter:    limiter,
		repairSpec: repairSpec,
	}
}

// Start 스케줄러 시작
func (s *MaintenanceScheduler) Start() error {
	if s.repairSpec != "" {
		if _, err := s.cron.AddFunc(s.repairSpec, s.RunRatingRepair); err != nil {
			logger.Error("Failed to add cron job for rating repair", err, map[string]interface{}{
				"spec": s.repairSpec,
			})
			return err
		}
	}

	if s.limiter != nil {
		if _, err := s.cron.AddFunc(limiterCleanupSpec, s.runLimiterCleanup); err != nil {
			logger.Error("Failed to add cron job for rate limiter cleanup", err)
			return err
		}
	}

	s.cron.Start()
	logger.Info("Maintenance scheduler started", map[string]interface{}{
		"rating_repair_spec": s.repairSpec,
		"jobs":               len(s.cron.Entries()),
	})
	return nil
}

// RunRatingRepair 남은 평점 정리 후 전체 재계산
func (s *MaintenanceScheduler) RunRatingRepair() {
	logger.Info("Starting scheduled rating repair")

	fixed, err := s.ratings.FixZeroRatings()
	if err != nil {
		logger.Error("Failed to fix stale ratings from scheduler", err)
		return
	}

	result, err := s.ratings.RecomputeAll()
	if err != nil {
		logger.Error("Failed to recompute ratings from scheduler", err)
		return
	}

	logger.Info("Scheduled rating repair finished", map[string]interface{}{
		"stale_fixed": len(fixed),
		"processed":   result.Processed,
		"failed":      result.Failed,
	})
}

func (s *MaintenanceScheduler) runLimiterCleanup() {
	if removed := s.limiter.Cleanup(); removed > 0 {
		logger.Debug("Idle rate limiters removed", map[string]interface{}{
			"removed": removed,
		})
	}
}

// Stop 스케줄러 중지 (실행 중인 작업 완료 대기)
func (s *MaintenanceScheduler) Stop() {
	logger.Info("Stopping maintenance scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Maintenance scheduler stopped")
}
