package main

import (
	"context"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

type boltDBConsumer struct {
	logger  *zap.Logger
	queue   Queuer
	archive BookArchiver
}

// NewBoltDBConsumer provides a consumer draining the catalog change
// queues into the local bolt archive.
func NewBoltDBConsumer(logger *zap.Logger, q Queuer, archive BookArchiver) Consumer {
	return &boltDBConsumer{logger, q, archive}
}

func (bc *boltDBConsumer) Consume(ctx context.Context, qids ...string) error {
	var book Book
	var err error
	var qid string
	for {
		qid, book, err = bc.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			bc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			bc.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		switch qid {
		case CreateQueue, UpdateQueue:
			if err = bc.archive.Put(ctx, book.ID, book); err != nil {
				bc.logger.Error("consumer: failed to archive", zap.Any("book", book), zap.Error(err))
			}
		case DeleteQueue:
			if err = bc.archive.Remove(ctx, book.ID); err != nil {
				bc.logger.Error("consumer: failed to remove from archive", zap.String("id", book.ID), zap.Error(err))
			}
		default:
			bc.logger.Warn("consumer: received book on unknown queue id", zap.String("qid", qid), zap.Any("book", book))
		}
	}
}
