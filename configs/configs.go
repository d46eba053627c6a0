// Package configs holds process-wide tunables and the small debug-print
// helpers the rest of the module relies on instead of a heavier logging
// dependency.
package configs

import (
	"fmt"
	"log"
	"time"
)

// Debugging toggles.
var (
	ShowDebugInfo = false
	ShowWarnings  = true
	LogToFile     = false
)

// Protocol timeouts for the two-phase commit round trip.
const (
	PrepareTimeout = 1000 * time.Millisecond
	CommitTimeout  = 3000 * time.Millisecond
)

// Connection preamble bytes: the first byte a peer writes after dialing,
// disambiguating a coffee-maker client connection from a replica-to-replica
// connection on the same listening port.
const (
	ClientConnection byte = 0x01
	ServerConnection byte = 0x02
)

// Peer-frame tag. TRANSACTION is the only frame kind defined today; the tag
// byte leaves room for future frame kinds without breaking the wire format.
const (
	FrameTransaction byte = 0x01
)

// DefaultWorkerPoolSize is used when the bootstrap config does not name one;
// the spec requires at least num_cpus, callers should prefer runtime.NumCPU().
const DefaultWorkerPoolSize = 8

// DefaultQueueDepth bounds how many dispatched jobs may wait for a free worker
// before Submit blocks the accept loop.
const DefaultQueueDepth = 256

func DPrintf(format string, a ...interface{}) {
	if !ShowDebugInfo {
		return
	}
	line := time.Now().Format("15:04:05.000") + " <---> " + format
	if LogToFile {
		log.Printf(line, a...)
	} else {
		fmt.Printf(line+"\n", a...)
	}
}

func Warn(format string, a ...interface{}) {
	if !ShowWarnings {
		return
	}
	line := "[WARNING] " + format
	if LogToFile {
		log.Printf(line, a...)
	} else {
		fmt.Printf(line+"\n", a...)
	}
}

// CheckError panics on unexpected, non-recoverable setup errors (bind
// failures, malformed bootstrap config) -- mirrors the teacher corpus'
// fail-fast convention for conditions that should never occur in a
// correctly configured deployment.
func CheckError(err error) {
	if err != nil {
		panic(err.Error())
	}
}
