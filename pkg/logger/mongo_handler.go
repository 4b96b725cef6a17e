package logger

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	mongoQueueSize = 4096
	mongoBatchSize = 50
	mongoDrainTick = 2 * time.Second
)

// LogDocument is the shape written to the logs collection.
type LogDocument struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// MongoHandler is an slog.Handler that asynchronously batches log records
// into a MongoDB collection. Writes are enqueued into a buffered channel;
// if the channel is full the record is dropped; logging must never block
// the request path. Wraps an inner handler that keeps writing to stdout.
type MongoHandler struct {
	inner slog.Handler
	col   *mongo.Collection
	queue chan LogDocument
	done  chan struct{}
}

// NewMongoHandler builds a handler draining into col. The caller shares the
// application's Mongo client; Close flushes the queue.
func NewMongoHandler(inner slog.Handler, col *mongo.Collection) *MongoHandler {
	h := &MongoHandler{
		inner: inner,
		col:   col,
		queue: make(chan LogDocument, mongoQueueSize),
		done:  make(chan struct{}),
	}
	go h.drain()
	return h
}

func (h *MongoHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *MongoHandler) Handle(ctx context.Context, r slog.Record) error {
	doc := LogDocument{
		Time:  r.Time,
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "request_id" {
			doc.RequestID = a.Value.String()
			return true
		}
		doc.Attrs[a.Key] = a.Value.Any()
		return true
	})

	select {
	case h.queue <- doc:
	default:
		// queue full, drop rather than block
	}

	return h.inner.Handle(ctx, r)
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MongoHandler{inner: h.inner.WithAttrs(attrs), col: h.col, queue: h.queue, done: h.done}
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	return &MongoHandler{inner: h.inner.WithGroup(name), col: h.col, queue: h.queue, done: h.done}
}

// drain batches queued documents into InsertMany calls.
func (h *MongoHandler) drain() {
	ticker := time.NewTicker(mongoDrainTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, mongoBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = h.col.InsertMany(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case doc := <-h.queue:
			batch = append(batch, doc)
			if len(batch) >= mongoBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-h.done:
			for {
				select {
				case doc := <-h.queue:
					batch = append(batch, doc)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close flushes pending records and stops the background drainer.
func (h *MongoHandler) Close() {
	close(h.done)
}
