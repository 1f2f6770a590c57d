// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/haftkhabis/models"
)

// Database 数据库接口
//
// The engine itself never touches storage; only finished matches and
// per-player career stats are archived here.
type Database interface {
	SaveMatchRecord(record *models.MatchRecord) error
	RecordPlayerResult(playerID, name string, rank int) error
	LoadPlayerStats(playerID string) (*models.PlayerStats, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
