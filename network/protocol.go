package network

// 消息ID定义
const (
	MsgTypeHeartbeat = 1

	// room lifecycle, client → server
	MsgTypeCreateRoom = 101
	MsgTypeJoinRoom   = 102
	MsgTypeLeaveRoom  = 103
	MsgTypeReady      = 104

	// in-game actions, client → server
	MsgTypePlayCard  = 201
	MsgTypeGrabCard  = 202
	MsgTypeSkipRound = 203

	// notifications, server → client
	MsgTypeRoomState   = 301
	MsgTypeGameStarted = 302
	MsgTypeGameSync    = 303
	MsgTypeFineRequest = 304
	MsgTypeGameEnd     = 305
	MsgTypeError       = 306
	MsgTypeHandState   = 307
)
