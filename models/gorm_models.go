// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormPlayer 玩家模型
type GormPlayer struct {
	gorm.Model
	PlayerID   string `gorm:"uniqueIndex;not null"`
	Name       string `gorm:"not null"`
	TotalGames int    `gorm:"default:0"`
	Wins       int    `gorm:"default:0"`
	BestRank   int    `gorm:"default:0"`
}

// GormMatchRecord 对局记录模型
type GormMatchRecord struct {
	gorm.Model
	RoomID   string                 `gorm:"index;not null"`
	RoomName string                 `gorm:"not null"`
	Rankings map[string]interface{} `gorm:"type:jsonb;not null"`
	Duration int                    `gorm:"default:0"` // 对局时长(秒)
}
