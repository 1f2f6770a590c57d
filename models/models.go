// models/models.go
package models

import (
	"time"
)

// CardInfo is one card as shown to its holder: the raw token to play it
// back with, and the display name ("♦10", "♦A").
type CardInfo struct {
	Token   string `json:"token"`
	Display string `json:"display"`
}

// PlayerStatus 玩家在房间状态里的一行
type PlayerStatus struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Ready     bool   `json:"ready"`
	Rank      int    `json:"rank"`
	CardCount int    `json:"card_count"`
	Turn      bool   `json:"turn"`
}

// RoomState is the broadcast room snapshot: the Go rendition of the chat
// bot's status screen (ready markers in the lobby, top card / turn / flow
// during play).
type RoomState struct {
	RoomID  string         `json:"room_id"`
	Name    string         `json:"name"`
	Started bool           `json:"started"`
	TopCard string         `json:"top_card,omitempty"`
	Turn    int            `json:"turn"`
	Flow    int            `json:"flow"`
	Penalty int            `json:"penalty"`
	Players []PlayerStatus `json:"players"`
}

// HandState is sent privately to one player after every change.
type HandState struct {
	Cards   []CardInfo `json:"cards"`
	CanSkip bool       `json:"can_skip"`
}

// FineRequest asks the acting player to pick an opponent to fine.
type FineRequest struct {
	Card    string         `json:"card"`
	Targets []PlayerStatus `json:"targets"`
}

// PlayerResult 玩家战绩（用于对局记录）
type PlayerResult struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Rank     int    `json:"rank"`
}

// MatchRecord 对局记录模型
type MatchRecord struct {
	RoomID    string         `json:"room_id"`
	RoomName  string         `json:"room_name"`
	Rankings  []PlayerResult `json:"rankings"`
	Duration  int            `json:"duration"` // 对局时长(秒)
	CreatedAt time.Time      `json:"created_at"`
}

// PlayerStats 玩家统计信息
type PlayerStats struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	TotalGames int    `json:"total_games"`
	Wins       int    `json:"wins"`
	BestRank   int    `json:"best_rank"`
}
