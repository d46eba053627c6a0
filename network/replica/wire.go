package replica

import (
	"bufio"
	"fmt"

	"github.com/goccy/go-json"

	"coffeeledger/configs"
	"coffeeledger/engine"
)

// peerFrame is the JSON body carried after the frame-tag byte on a
// replica-to-replica connection. Kind picks which half of the protocol the
// receiver should run. The vote and verdict themselves never ride inside
// this JSON body -- per spec.md §6 they are raw single bytes on the wire,
// written immediately after a prepare or finalize frame respectively (see
// encodeVote/decodeVote and encodeVerdict/decodeVerdict below).
type peerFrame struct {
	Kind        string              `json:"kind"`
	Transaction *engine.Transaction `json:"transaction"`
}

const (
	kindPrepare  = "prepare"
	kindFinalize = "finalize"
)

// Vote and verdict wire bytes are fixed by spec.md §6 and are independent
// of engine.Vote/engine.Verdict's own internal numbering (which also has
// to represent Timeout and Disconnected, local-only states that never
// reach the wire).
const (
	voteByteAbort   byte = 0
	voteByteProceed byte = 1

	verdictByteAbort  byte = 0
	verdictByteCommit byte = 1
)

func encodeVote(v engine.Vote) byte {
	if v == engine.Proceed {
		return voteByteProceed
	}
	return voteByteAbort
}

func decodeVote(b byte) engine.Vote {
	if b == voteByteProceed {
		return engine.Proceed
	}
	return engine.Abort
}

func encodeVerdict(v engine.Verdict) byte {
	if v == engine.Commit {
		return verdictByteCommit
	}
	return verdictByteAbort
}

func decodeVerdict(b byte) engine.Verdict {
	if b == verdictByteCommit {
		return engine.Commit
	}
	return engine.Rollback
}

func writeFrame(w *bufio.Writer, f peerFrame) error {
	if err := w.WriteByte(configs.FrameTransaction); err != nil {
		return err
	}
	body, err := json.Marshal(f)
	if err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}

func readFrame(r *bufio.Reader) (peerFrame, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return peerFrame{}, err
	}
	if tag != configs.FrameTransaction {
		return peerFrame{}, fmt.Errorf("replica: unrecognized frame tag %d", tag)
	}
	line, err := r.ReadBytes('\n')
	if err != nil {
		return peerFrame{}, err
	}
	var f peerFrame
	if err := json.Unmarshal(line, &f); err != nil {
		return peerFrame{}, err
	}
	return f, nil
}
