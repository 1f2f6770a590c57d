// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/haftkhabis/room"
	"github.com/wfunc/haftkhabis/session"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found")
)

// 广播接口
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
	SendToPlayer(playerID string, msgID uint16, data []byte) error
}

// RoomBroadcaster pushes messages to sessions through the room and session
// managers. A session's id is its player id, so per-player delivery is a
// direct session lookup.
type RoomBroadcaster struct {
	roomManager    *room.Manager
	sessionManager *session.Manager
}

func NewRoomBroadcaster(roomManager *room.Manager, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		roomManager:    roomManager,
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomID string, msgID uint16, data []byte) error {
	if _, exists := b.roomManager.GetRoom(roomID); !exists {
		return ErrRoomNotFound
	}

	for _, s := range b.sessionManager.GetByRoomID(roomID) {
		if err := s.Send(msgID, data); err != nil {
			// 发送失败的玩家留给会话层清理
			continue
		}
	}
	return nil
}

func (b *RoomBroadcaster) SendToPlayer(playerID string, msgID uint16, data []byte) error {
	s, exists := b.sessionManager.Get(playerID)
	if !exists {
		return ErrPlayerNotFound
	}
	return s.Send(msgID, data)
}
