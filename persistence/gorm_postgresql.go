// persistence/gorm_postgresql.go
package persistence

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wfunc/haftkhabis/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := db.AutoMigrate(&models.GormPlayer{}, &models.GormMatchRecord{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SaveMatchRecord 保存对局记录
func (g *GormPostgreSQL) SaveMatchRecord(record *models.MatchRecord) error {
	rankings := make(map[string]interface{}, len(record.Rankings))
	for _, r := range record.Rankings {
		rankings[r.PlayerID] = map[string]interface{}{
			"name": r.Name,
			"rank": r.Rank,
		}
	}
	return g.db.Create(&models.GormMatchRecord{
		RoomID:   record.RoomID,
		RoomName: record.RoomName,
		Rankings: rankings,
		Duration: record.Duration,
	}).Error
}

// RecordPlayerResult 更新玩家战绩（原子操作）
func (g *GormPostgreSQL) RecordPlayerResult(playerID, name string, rank int) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		var player models.GormPlayer
		err := tx.Where("player_id = ?", playerID).First(&player).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			player = models.GormPlayer{
				PlayerID: playerID,
				Name:     name,
				BestRank: rank,
			}
			if err := tx.Create(&player).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":        name,
			"total_games": gorm.Expr("total_games + 1"),
		}
		if rank == 1 {
			updates["wins"] = gorm.Expr("wins + 1")
		}
		if player.BestRank == 0 || rank < player.BestRank {
			updates["best_rank"] = rank
		}
		return tx.Model(&player).Updates(updates).Error
	})
}

// LoadPlayerStats 加载玩家统计
func (g *GormPostgreSQL) LoadPlayerStats(playerID string) (*models.PlayerStats, error) {
	var player models.GormPlayer
	err := g.db.Where("player_id = ?", playerID).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &models.PlayerStats{
		PlayerID:   player.PlayerID,
		Name:       player.Name,
		TotalGames: player.TotalGames,
		Wins:       player.Wins,
		BestRank:   player.BestRank,
	}, nil
}

// Close 关闭数据库连接
func (g *GormPostgreSQL) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
