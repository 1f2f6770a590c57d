package room

// Broadcaster defines the interface for pushing messages to room members.
// This is defined here to break the import cycle between room and broadcast.
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
	SendToPlayer(playerID string, msgID uint16, data []byte) error
}
