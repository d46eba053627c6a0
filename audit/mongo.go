package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"coffeeledger/configs"
	"coffeeledger/engine"
)

// TransactionRecord is one audit-trail document: what a coordinator
// decided for one transaction, independent of the in-memory Ledger that
// is the actual source of truth.
type TransactionRecord struct {
	Coordinator string    `bson:"coordinator"`
	Timestamp   uint64    `bson:"timestamp"`
	ClientID    uint16    `bson:"client_id"`
	Action      string    `bson:"action"`
	Points      uint64    `bson:"points"`
	Verdict     string    `bson:"verdict"`
	RecordedAt  time.Time `bson:"recorded_at"`
}

// MongoTransactionAuditor appends one document per finalized transaction
// to a collection. Writes are fire-and-forget through a bounded channel so
// a slow or unavailable Mongo never blocks a commit round.
type MongoTransactionAuditor struct {
	client     *mongo.Client
	collection *mongo.Collection
	records    chan TransactionRecord
	done       chan struct{}
}

// NewMongoTransactionAuditor connects to uri and starts the background
// writer goroutine with a queue of the given depth.
func NewMongoTransactionAuditor(ctx context.Context, uri, database string, queueDepth int) (*MongoTransactionAuditor, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}
	a := &MongoTransactionAuditor{
		client:     client,
		collection: client.Database(database).Collection("transactions"),
		records:    make(chan TransactionRecord, queueDepth),
		done:       make(chan struct{}),
	}
	go a.run()
	return a, nil
}

// Record enqueues a finalized transaction for audit. Never blocks the
// caller longer than it takes to fill the queue; a full queue drops the
// record rather than stall the coordinator.
func (a *MongoTransactionAuditor) Record(tx *engine.Transaction, verdict engine.Verdict, at time.Time) {
	rec := TransactionRecord{
		Coordinator: tx.Coordinator,
		Timestamp:   tx.Timestamp,
		ClientID:    tx.ClientID,
		Action:      tx.Action.String(),
		Points:      tx.Points,
		Verdict:     verdict.String(),
		RecordedAt:  at,
	}
	select {
	case a.records <- rec:
	default:
		configs.Warn("audit: mongo queue full, dropping record for client %d", tx.ClientID)
	}
}

func (a *MongoTransactionAuditor) run() {
	for {
		select {
		case <-a.done:
			return
		case rec := <-a.records:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_, err := a.collection.InsertOne(ctx, rec)
			cancel()
			if err != nil {
				configs.Warn("audit: mongo insert failed: %s", err.Error())
			}
		}
	}
}

func (a *MongoTransactionAuditor) Stop() {
	close(a.done)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.client.Disconnect(ctx)
}
