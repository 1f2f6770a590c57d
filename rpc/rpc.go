package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/haftkhabis/logger"
	"github.com/wfunc/haftkhabis/models"
	"github.com/wfunc/haftkhabis/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. Services are registered by the caller
// via net/rpc before Start.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// StatsRPC exposes match statistics over net/rpc.
type StatsRPC struct {
	stats *services.StatsService
}

// NewStatsRPC creates the RPC facade over the stats service.
func NewStatsRPC(ss *services.StatsService) *StatsRPC {
	return &StatsRPC{stats: ss}
}

// GetPlayerStatsArgs follows the net/rpc signature rules: exported method,
// exported arguments, second argument is a pointer, return type is error.
type GetPlayerStatsArgs struct {
	PlayerID string
}

type GetPlayerStatsReply struct {
	Stats *models.PlayerStats
}

func (sr *StatsRPC) GetPlayerStats(args *GetPlayerStatsArgs, reply *GetPlayerStatsReply) error {
	stats, err := sr.stats.GetPlayerStats(args.PlayerID)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}
