package ipc

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vk/grainbar/internal/ctxlog"
	"github.com/vk/grainbar/internal/state"
)

func (s *Server) handleWS(ctx context.Context) http.HandlerFunc {
	logger := ctxlog.FromContext(ctx)
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("WebSocket upgrade failed.", "remote_addr", r.RemoteAddr, "error", err)
			return
		}
		// Send the full state before registering for diffs; gorilla allows
		// only one concurrent writer per connection.
		if err := conn.WriteJSON(state.VarSnapshot{Vars: s.engine.Vars()}); err != nil {
			conn.Close()
			return
		}
		s.addConn(conn)
		defer s.removeConn(conn)

		// The read loop accepts poke messages and detects disconnects.
		for {
			var req pokeRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			if req.Name == "" {
				continue
			}
			update := state.Update{
				Entries: []state.UpdateEntry{{Var: req.Name, Value: req.Value}},
			}
			select {
			case s.engine.Updates() <- update:
			case <-r.Context().Done():
				return
			}
		}
	}
}

// Notify implements state.Subscriber by pushing the diff to every connected
// client. A client that cannot be written to is dropped.
func (s *Server) Notify(snapshot state.VarSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteJSON(snapshot); err != nil {
			conn.Close()
			delete(s.conns, conn)
		}
	}
	return nil
}

func (s *Server) addConn(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *Server) removeConn(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conns[conn]; ok {
		conn.Close()
		delete(s.conns, conn)
	}
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
		delete(s.conns, conn)
	}
}
