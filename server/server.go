package server

import (
	"encoding/json"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/haftkhabis/broadcast"
	"github.com/wfunc/haftkhabis/game"
	"github.com/wfunc/haftkhabis/logger"
	"github.com/wfunc/haftkhabis/models"
	"github.com/wfunc/haftkhabis/monitor"
	"github.com/wfunc/haftkhabis/network"
	"github.com/wfunc/haftkhabis/persistence"
	"github.com/wfunc/haftkhabis/room"
	haftkhabis_rpc "github.com/wfunc/haftkhabis/rpc"
	"github.com/wfunc/haftkhabis/services"
	"github.com/wfunc/haftkhabis/session"
)

type GameServer struct {
	addr           string
	metricsAddr    string
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	statsService   *services.StatsService
	broadcaster    broadcast.Broadcaster
	monitor        *monitor.Monitor
	rpcServer      *haftkhabis_rpc.Server
	shutdownChan   chan struct{}
}

// NewGameServer wires the whole stack together: sessions, the room
// directory, the broadcaster bridging the two, the stats service over the
// database and the RPC facade.
func NewGameServer(addr, rpcAddr, metricsAddr string, db persistence.Database, roomIdleTimeout time.Duration) *GameServer {
	s := &GameServer{
		addr:           addr,
		metricsAddr:    metricsAddr,
		roomManager:    room.NewManager(roomIdleTimeout),
		sessionManager: session.NewManager(),
		statsService:   services.NewStatsService(db),
		monitor:        monitor.NewMonitor("haftkhabis"),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化广播器
	s.broadcaster = broadcast.NewRoomBroadcaster(s.roomManager, s.sessionManager)

	// 对局结束后归档战绩
	s.roomManager.OnMatchFinished(func(r *room.Room, results []models.PlayerResult) {
		s.monitor.IncGamesFinished()
		duration := time.Since(r.CreatedAt)
		go func() {
			if err := s.statsService.ArchiveMatch(r.ID, r.Name, results, duration); err != nil {
				logger.Log.Errorf("Failed to archive match for room %s: %v", r.ID, err)
			}
		}()
	})

	// 初始化RPC服务器
	rpcServer, err := haftkhabis_rpc.NewServer(rpcAddr)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	// 注册RPC服务
	statsRPC := haftkhabis_rpc.NewStatsRPC(s.statsService)
	rpc.Register(statsRPC)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	if s.metricsAddr != "" {
		s.monitor.StartServer(s.metricsAddr)
	}

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
	s.roomManager.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		if sess.GetRoom() != "" {
			if err := s.roomManager.LeaveRoom(sess.GetID()); err != nil {
				logger.Log.Infof("Session %s leave on disconnect: %v", sess.GetID(), err)
			}
			s.monitor.SetActiveRooms(s.roomManager.Count())
		}
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.LastActive = time.Now()
	case network.MsgTypeCreateRoom:
		s.handleCreateRoom(sess, packet)
	case network.MsgTypeJoinRoom:
		s.handleJoinRoom(sess, packet)
	case network.MsgTypeLeaveRoom:
		s.handleLeaveRoom(sess, packet)
	case network.MsgTypeReady:
		s.handleReady(sess, packet)
	case network.MsgTypePlayCard:
		s.handlePlayCard(sess, packet)
	case network.MsgTypeGrabCard:
		s.handleGrabCard(sess, packet)
	case network.MsgTypeSkipRound:
		s.handleSkipRound(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

type createRoomRequest struct {
	Name       string `json:"name"`
	PlayerName string `json:"player_name"`
}

func (s *GameServer) handleCreateRoom(sess *session.Session, packet *network.Packet) {
	var req createRoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, err)
		return
	}
	if req.Name == "" {
		req.Name = "New Room"
	}
	if req.PlayerName == "" {
		req.PlayerName = sess.GetID()
	}

	roomID := uuid.New().String()
	r, err := s.roomManager.CreateRoom(roomID, req.Name, sess.GetID(), req.PlayerName, s.broadcaster)
	if err != nil {
		s.sendError(sess, err)
		return
	}
	sess.Name = req.PlayerName
	sess.SetRoom(roomID)
	s.monitor.SetActiveRooms(s.roomManager.Count())

	logger.Log.Infof("Session %s created room %s", sess.GetID(), roomID)

	data, _ := json.Marshal(r.State())
	sess.Send(network.MsgTypeCreateRoom, data)
}

type joinRoomRequest struct {
	RoomID     string `json:"room_id"`
	PlayerName string `json:"player_name"`
}

func (s *GameServer) handleJoinRoom(sess *session.Session, packet *network.Packet) {
	var req joinRoomRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, err)
		return
	}
	if req.PlayerName == "" {
		req.PlayerName = sess.GetID()
	}

	// Seat the session before the engine fires new-player-added, so the
	// broadcast already reaches the joiner.
	sess.Name = req.PlayerName
	sess.SetRoom(req.RoomID)
	if _, err := s.roomManager.JoinRoom(req.RoomID, sess.GetID(), req.PlayerName); err != nil {
		sess.SetRoom("")
		s.sendError(sess, err)
		return
	}
	logger.Log.Infof("Session %s joined room %s", sess.GetID(), req.RoomID)
}

func (s *GameServer) handleLeaveRoom(sess *session.Session, packet *network.Packet) {
	if err := s.roomManager.LeaveRoom(sess.GetID()); err != nil {
		s.sendError(sess, err)
		return
	}
	sess.SetRoom("")
	s.monitor.SetActiveRooms(s.roomManager.Count())
}

type readyRequest struct {
	Ready bool `json:"ready"`
}

func (s *GameServer) handleReady(sess *session.Session, packet *network.Packet) {
	var req readyRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, err)
		return
	}
	if err := s.roomManager.SetReady(sess.GetID(), req.Ready); err != nil {
		s.sendError(sess, err)
	}
}

type playCardRequest struct {
	Card    string `json:"card"`
	FinedID string `json:"fined_id,omitempty"`
}

func (s *GameServer) handlePlayCard(sess *session.Session, packet *network.Packet) {
	var req playCardRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, err)
		return
	}

	card := game.Card(req.Card)
	started := time.Now()

	var penaltyBefore int
	if r, err := s.roomManager.GetRoomByPlayer(sess.GetID()); err == nil {
		penaltyBefore = r.Game.Penalty()
	}

	if err := s.roomManager.PlayCard(sess.GetID(), card, req.FinedID); err != nil {
		s.sendError(sess, err)
		return
	}
	s.monitor.ObservePlayLatency(time.Since(started))

	if penaltyBefore > 0 && card.Rank() != game.RankPenalty {
		// Playing into a penalty stack absorbs it instead of discarding.
		s.monitor.AddPenaltyCardsDrawn(penaltyBefore)
	} else {
		s.monitor.IncCardsPlayed()
	}
}

func (s *GameServer) handleGrabCard(sess *session.Session, packet *network.Packet) {
	if err := s.roomManager.GrabCard(sess.GetID()); err != nil {
		s.sendError(sess, err)
		return
	}
	s.monitor.IncCardsGrabbed()
}

func (s *GameServer) handleSkipRound(sess *session.Session, packet *network.Packet) {
	if err := s.roomManager.SkipRound(sess.GetID()); err != nil {
		s.sendError(sess, err)
	}
}

func (s *GameServer) sendError(sess *session.Session, err error) {
	resp := map[string]string{"error": err.Error()}
	data, _ := json.Marshal(resp)
	if sendErr := sess.Send(network.MsgTypeError, data); sendErr != nil {
		logger.Log.Errorf("Failed to send error to session %s: %v", sess.GetID(), sendErr)
	}
}
