package service

import (
	"context"
	"log"
	"sync"
	"time"

	"invomail/internal/domain"
	"invomail/internal/port"
)

// QueueWorkerConfig holds settings for the notification queue worker.
type QueueWorkerConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// QueueWorker polls the notification queue and dispatches each message
// through the processor.
type QueueWorker struct {
	queue     port.MessageQueue
	processor Processor
	cfg       QueueWorkerConfig
	wg        sync.WaitGroup
}

// NewQueueWorker creates a new QueueWorker.
func NewQueueWorker(queue port.MessageQueue, processor Processor, cfg QueueWorkerConfig) *QueueWorker {
	return &QueueWorker{
		queue:     queue,
		processor: processor,
		cfg:       cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight runs have finished.
func (w *QueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("queueWorker: started (poll=%s, concurrency=%d)", w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("queueWorker: shutting down, waiting for in-flight runs...")
			w.wg.Wait()
			log.Printf("queueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			msgs, err := w.queue.Receive(ctx, int32(available))
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during poll — exit gracefully
					continue
				}
				log.Printf("queueWorker: receive error: %v", err)
				continue
			}

			for i := range msgs {
				msg := msgs[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight runs complete even during shutdown.
					runCtx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
					defer cancel()

					w.handle(runCtx, msg)
				}()
			}
		}
	}
}

// handle runs one queued notification and deletes it unless the pipeline
// failed, leaving redelivery of failures to the queue's own policy.
func (w *QueueWorker) handle(ctx context.Context, msg port.QueueMessage) {
	log.Printf("queueWorker: dispatching message %s", msg.ID)

	outcome, err := w.processor.ProcessNotification(ctx, []byte(msg.Body))
	if err != nil {
		log.Printf("queueWorker: message %s: %v", msg.ID, err)
	}
	if outcome == domain.OutcomeFailed {
		return
	}

	if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		log.Printf("queueWorker: message %s: delete failed: %v", msg.ID, err)
	}
}
