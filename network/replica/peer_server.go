package replica

import (
	"bufio"
	"io"
	"net"

	"coffeeledger/configs"
)

// handlePeer serves one inbound replica-to-replica connection: a Prepare
// frame is answered with a single raw vote byte; a Finalize frame carries
// its own single raw verdict byte immediately after the JSON body and
// draws no reply, since the coordinator already decided and is only
// informing this participant.
func (s *Server) handlePeer(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)

	for {
		frame, err := readFrame(r)
		if err != nil {
			if err != io.EOF {
				configs.Warn("replica: peer frame read failed: %s", err.Error())
			}
			return
		}

		switch frame.Kind {
		case kindPrepare:
			vote := s.Engine.Vote(frame.Transaction)
			if _, err := conn.Write([]byte{encodeVote(vote)}); err != nil {
				return
			}
		case kindFinalize:
			verdictByte, err := r.ReadByte()
			if err != nil {
				if err != io.EOF {
					configs.Warn("replica: verdict byte read failed: %s", err.Error())
				}
				return
			}
			s.Engine.Finalize(frame.Transaction, decodeVerdict(verdictByte))
		default:
			configs.Warn("replica: unrecognized peer frame kind %q", frame.Kind)
			return
		}
	}
}
