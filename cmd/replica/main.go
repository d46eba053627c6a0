// Command replica runs one node of the loyalty-points network: a Balance
// Ledger, a Transaction Engine, and a Replica Server listening for both
// coffee-maker clients and peer replicas on the same port.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"coffeeledger/audit"
	"coffeeledger/bootstrap"
	"coffeeledger/configs"
	"coffeeledger/discovery"
	"coffeeledger/engine"
	"coffeeledger/ledger"
	"coffeeledger/network/replica"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: replica -addr <address> [-peer <peer>]... [-config <path>]")
	fmt.Fprintln(os.Stderr, "   or: replica <address> [<known_peer_address>]")
	flag.PrintDefaults()
}

func main() {
	var (
		addr       string
		configPath string
		propsPath  string
		debug      bool
		pgURL      string
		mongoURI   string
	)

	peers := stringList{}
	flag.StringVar(&addr, "addr", "", "listen address for this replica")
	flag.Var(&peers, "peer", "a peer address (repeatable)")
	flag.StringVar(&configPath, "config", "", "JSON bootstrap config path")
	flag.StringVar(&propsPath, "props", "", "optional .properties override for worker-pool sizing")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.StringVar(&pgURL, "postgres", "", "optional Postgres URL for the balance audit sink")
	flag.StringVar(&mongoURI, "mongo", "", "optional Mongo URI for the transaction audit sink")
	flag.Usage = usage
	flag.Parse()

	configs.ShowDebugInfo = debug

	cfg, err := resolveConfig(addr, configPath, propsPath, peers)
	configs.CheckError(err)

	seeds := discovery.NewConfigSeedSource(cfg.Peers)
	resolvedPeers, err := seeds.Peers(context.Background())
	configs.CheckError(err)

	l := ledger.New()
	eng := engine.New(cfg.ListenAddr, l)
	dir := replica.NewDirectory(cfg.ListenAddr, append(resolvedPeers, cfg.ListenAddr))

	if pgURL != "" {
		exporter, err := audit.NewPostgresBalanceExporter(context.Background(), pgURL, l, 10*time.Second)
		if err != nil {
			configs.Warn("replica: postgres audit sink disabled: %s", err.Error())
		} else {
			go exporter.Run()
			defer exporter.Stop()
		}
	}
	if mongoURI != "" {
		auditor, err := audit.NewMongoTransactionAuditor(context.Background(), mongoURI, "coffeeledger", configs.DefaultQueueDepth)
		if err != nil {
			configs.Warn("replica: mongo audit sink disabled: %s", err.Error())
		} else {
			defer auditor.Stop()
			eng.OnDecided = func(tx *engine.Transaction, verdict engine.Verdict) {
				auditor.Record(tx, verdict, time.Now())
			}
		}
	}

	srv := replica.Listen(cfg.ListenAddr, eng, dir, cfg.Workers, cfg.QueueDepth)
	configs.DPrintf("replica listening on %s with %d peer(s)", cfg.ListenAddr, dir.Size())
	srv.Serve()
}

// resolveConfig supports three equally valid ways to start a replica: a
// JSON bootstrap file, explicit -addr/-peer flags, or the original
// positional `<address> [<known_peer_address>]` form.
func resolveConfig(addr, configPath, propsPath string, peers stringList) (*bootstrap.Config, error) {
	if configPath != "" {
		return bootstrap.Load(configPath, propsPath)
	}

	if addr == "" {
		args := flag.Args()
		switch len(args) {
		case 1:
			addr = args[0]
		case 2:
			addr = args[0]
			peers = stringList{args[1]}
		default:
			return nil, fmt.Errorf("no listen address given")
		}
	}

	return &bootstrap.Config{
		ListenAddr: bootstrap.NormalizeAddr(addr),
		Peers:      peers.normalized(),
		Workers:    configs.DefaultWorkerPoolSize,
		QueueDepth: configs.DefaultQueueDepth,
	}, nil
}

// stringList implements flag.Value, letting -peer repeat.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func (s stringList) normalized() []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = bootstrap.NormalizeAddr(v)
	}
	return out
}
