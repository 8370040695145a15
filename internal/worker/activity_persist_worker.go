package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"conduit-api/internal/model"
	"conduit-api/internal/platform/rabbitmq"
)

// errInvalidActivity marks deliveries that can never be stored.
var errInvalidActivity = errors.New("invalid activity")

type ActivityRecorder interface {
	Create(ctx context.Context, activity *model.Activity) error
}

// ActivityPersistWorker drains the activity queue into the database.
type ActivityPersistWorker struct {
	conn      *amqp.Connection
	recorder  ActivityRecorder
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewActivityPersistWorker(conn *amqp.Connection, recorder ActivityRecorder, queueName string) *ActivityPersistWorker {
	return &ActivityPersistWorker{
		conn:      conn,
		recorder:  recorder,
		queueName: queueName,
	}
}

func (w *ActivityPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}
	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}
	if err := ch.Qos(16, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.handle(workerCtx, d.Body); err != nil {
					requeue := !errors.Is(err, errInvalidActivity) && !d.Redelivered
					logrus.WithError(err).WithFields(logrus.Fields{
						"queue":   w.queueName,
						"requeue": requeue,
					}).Warn("activity delivery failed")
					_ = d.Nack(false, requeue)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	logrus.WithField("queue", w.queueName).Info("activity worker started")
	return nil
}

func (w *ActivityPersistWorker) handle(ctx context.Context, body []byte) error {
	var activity model.Activity
	if err := json.Unmarshal(body, &activity); err != nil {
		return fmt.Errorf("%w: decode failed: %v", errInvalidActivity, err)
	}
	if activity.Kind == "" || activity.ActorID == 0 {
		return fmt.Errorf("%w: incomplete %+v", errInvalidActivity, activity)
	}
	activity.ID = 0
	return w.recorder.Create(ctx, &activity)
}

func (w *ActivityPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
