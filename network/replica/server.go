package replica

import (
	"io"
	"net"

	"coffeeledger/configs"
	"coffeeledger/engine"
	"coffeeledger/pool"
)

// Server is the Replica Server: one listener, one shared Engine, one peer
// Directory, and one self-healing worker pool that every accepted
// connection's handling runs on.
type Server struct {
	Engine    *engine.Engine
	Directory *Directory

	listener net.Listener
	workers  *pool.Pool
	done     chan struct{}
}

// Listen binds addr and returns a Server ready to Serve. Binding failures
// are the kind of fail-fast setup error this codebase panics on elsewhere
// (configs.CheckError), not a recoverable runtime condition.
func Listen(addr string, eng *engine.Engine, dir *Directory, workers, queue int) *Server {
	listener, err := net.Listen("tcp", addr)
	configs.CheckError(err)
	return &Server{
		Engine:    eng,
		Directory: dir,
		listener:  listener,
		workers:   pool.New(workers, queue),
		done:      make(chan struct{}),
	}
}

// Serve accepts connections until Close is called, dispatching each one to
// the worker pool based on its one-byte preamble.
func (s *Server) Serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				configs.Warn("replica: accept failed: %s", err.Error())
				continue
			}
		}
		s.workers.Submit(func() { s.dispatch(conn) })
	}
}

func (s *Server) dispatch(conn net.Conn) {
	preamble := make([]byte, 1)
	if _, err := io.ReadFull(conn, preamble); err != nil {
		conn.Close()
		return
	}
	switch preamble[0] {
	case configs.ClientConnection:
		s.handleClient(conn)
	case configs.ServerConnection:
		s.handlePeer(conn)
	default:
		configs.Warn("replica: unrecognized connection preamble 0x%x", preamble[0])
		conn.Close()
	}
}

// Close stops accepting new connections and waits for in-flight handlers
// to finish.
func (s *Server) Close() {
	close(s.done)
	s.listener.Close()
	s.workers.Stop()
}

// Addr reports the listener's bound address, useful when the caller let
// the OS pick an ephemeral port.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}
