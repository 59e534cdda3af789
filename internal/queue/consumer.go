package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dentexpo/expo-manager/internal/export"
	"github.com/dentexpo/expo-manager/internal/logging"
	"github.com/dentexpo/expo-manager/internal/report"
)

// Worker consumes export requests and produces the files.
type Worker struct {
	builder *report.Builder
	exports *export.Service
	log     *logging.Logger
}

// NewWorker constructs a Worker.
func NewWorker(builder *report.Builder, exports *export.Service, log *logging.Logger) *Worker {
	return &Worker{builder: builder, exports: exports, log: log}
}

// Run connects to the broker, declares the durable export queue and
// consumes requests until the context is cancelled.  It runs a
// reconnect loop with capped exponential backoff so a broker restart
// never takes the worker down for good.
func (w *Worker) Run(ctx context.Context) {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, err := amqp.Dial(BrokerURL())
		if err != nil {
			w.log.Warn("export worker: broker unreachable, retrying", map[string]any{
				"backoff": backoff.String(),
			})
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := w.consumeLoop(ctx, conn); err != nil {
			w.log.Warn("export worker: consume loop ended, reconnecting", map[string]any{
				"reason": err.Error(),
			})
		}
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		time.Sleep(2 * time.Second)
	}
}

func (w *Worker) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	if _, err := ch.QueueDeclare(ExportQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	deliveries, err := ch.Consume(ExportQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			if err := w.handle(ctx, d.Body); err != nil {
				w.log.Error("export worker: request failed", err, nil)
				// Drop the message: a malformed or failing request
				// will not succeed on redelivery either.
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handle produces the file described by one export request.
func (w *Worker) handle(ctx context.Context, body []byte) error {
	var ev ExportRequestedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	var path string
	var err error
	if ev.Entity == "snapshot" || ev.Format == "json" {
		var snap export.Snapshot
		if snap, err = w.builder.Snapshot(ctx); err == nil {
			path, err = w.exports.WriteSnapshot(snap)
		}
	} else {
		var ds export.Dataset
		if ds, err = w.builder.Dataset(ctx, ev.Entity); err == nil {
			path, err = w.exports.Export(ev.Format, ds)
		}
	}
	if err != nil {
		return err
	}

	w.log.Info("export worker: file written", map[string]any{
		"entity":       ev.Entity,
		"format":       ev.Format,
		"path":         path,
		"requested_by": ev.RequestedBy,
	})
	return nil
}
