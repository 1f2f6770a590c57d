// services/stats.go
package services

import (
	"time"

	"github.com/wfunc/haftkhabis/logger"
	"github.com/wfunc/haftkhabis/models"
	"github.com/wfunc/haftkhabis/persistence"
)

// StatsService 战绩服务
type StatsService struct {
	db persistence.Database
}

// NewStatsService 创建战绩服务
func NewStatsService(db persistence.Database) *StatsService {
	return &StatsService{db: db}
}

// ArchiveMatch 归档一局结束的对局并更新每个玩家的战绩
func (s *StatsService) ArchiveMatch(roomID, roomName string, results []models.PlayerResult, duration time.Duration) error {
	record := &models.MatchRecord{
		RoomID:    roomID,
		RoomName:  roomName,
		Rankings:  results,
		Duration:  int(duration.Seconds()),
		CreatedAt: time.Now(),
	}

	if err := s.db.SaveMatchRecord(record); err != nil {
		logger.Log.Errorf("保存对局记录失败: room=%s err=%v", roomID, err)
		return err
	}

	for _, result := range results {
		if err := s.db.RecordPlayerResult(result.PlayerID, result.Name, result.Rank); err != nil {
			logger.Log.Errorf("更新玩家战绩失败: player=%s err=%v", result.PlayerID, err)
			return err
		}
	}

	logger.Log.Infof("对局已归档: room=%s players=%d", roomID, len(results))
	return nil
}

// GetPlayerStats 查询玩家统计
func (s *StatsService) GetPlayerStats(playerID string) (*models.PlayerStats, error) {
	return s.db.LoadPlayerStats(playerID)
}
