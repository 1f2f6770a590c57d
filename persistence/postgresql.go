// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/wfunc/haftkhabis/models"
)

// PostgreSQL 数据库实现 (database/sql)
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS players (
            id SERIAL PRIMARY KEY,
            player_id VARCHAR(255) UNIQUE NOT NULL,
            name VARCHAR(255) NOT NULL,
            total_games INT NOT NULL DEFAULT 0,
            wins INT NOT NULL DEFAULT 0,
            best_rank INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS match_records (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(255) NOT NULL,
            room_name VARCHAR(255) NOT NULL,
            rankings JSONB NOT NULL,
            duration INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_players_player_id ON players(player_id);
        CREATE INDEX IF NOT EXISTS idx_match_records_room_id ON match_records(room_id);
        CREATE INDEX IF NOT EXISTS idx_match_records_created_at ON match_records(created_at);
    `)

	return err
}

// SaveMatchRecord 保存对局记录
func (p *PostgreSQL) SaveMatchRecord(record *models.MatchRecord) error {
	rankings, err := json.Marshal(record.Rankings)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO match_records (room_id, room_name, rankings, duration)
        VALUES ($1, $2, $3, $4)
    `
	_, err = p.db.ExecContext(ctx, query, record.RoomID, record.RoomName, rankings, record.Duration)
	return err
}

// RecordPlayerResult 更新玩家战绩
func (p *PostgreSQL) RecordPlayerResult(playerID, name string, rank int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	win := 0
	if rank == 1 {
		win = 1
	}

	// UPSERT (PostgreSQL 9.5+)
	query := `
        INSERT INTO players (player_id, name, total_games, wins, best_rank)
        VALUES ($1, $2, 1, $3, $4)
        ON CONFLICT (player_id)
        DO UPDATE SET
            name = $2,
            total_games = players.total_games + 1,
            wins = players.wins + $3,
            best_rank = CASE
                WHEN players.best_rank = 0 OR $4 < players.best_rank THEN $4
                ELSE players.best_rank
            END,
            updated_at = CURRENT_TIMESTAMP
    `
	_, err := p.db.ExecContext(ctx, query, playerID, name, win, rank)
	return err
}

// LoadPlayerStats 加载玩家统计
func (p *PostgreSQL) LoadPlayerStats(playerID string) (*models.PlayerStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats := &models.PlayerStats{}
	query := `SELECT player_id, name, total_games, wins, best_rank FROM players WHERE player_id = $1`
	err := p.db.QueryRowContext(ctx, query, playerID).Scan(
		&stats.PlayerID, &stats.Name, &stats.TotalGames, &stats.Wins, &stats.BestRank)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return stats, nil
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
