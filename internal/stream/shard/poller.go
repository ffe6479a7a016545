package shard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrIteratorExpired is returned by a Source when the shard iterator can no longer be used
var ErrIteratorExpired = errors.New("shard iterator expired")

// ShardEnd is the checkpoint stored for a shard that was read to its end
const ShardEnd = "SHARD_END"

// Batch is one read from a shard
type Batch[T any] struct {
	Records            []T
	LastSequence       string
	NextIterator       string
	MillisBehindLatest int64
}

// Info identifies a shard and the shard it was split or merged from
type Info struct {
	ID       string
	ParentID string
}

// Position says where a new shard iterator starts
type Position struct {
	// AfterSequence resumes after this sequence number when set
	AfterSequence string
	// Oldest starts at the oldest retained record instead of the configured start
	Oldest bool
}

// Source abstracts a sharded log such as a Kinesis stream or a DynamoDB stream
type Source[T any] interface {
	Shards(ctx context.Context) ([]Info, error)
	Iterator(ctx context.Context, shardID string, position Position) (string, error)
	Read(ctx context.Context, iterator string) (*Batch[T], error)
}

// Checkpointer persists the last handled sequence number per shard
type Checkpointer interface {
	// Checkpoint returns the stored sequence, or "" when the shard has none
	Checkpoint(ctx context.Context, shardID string) (string, error)
	SaveCheckpoint(ctx context.Context, shardID, sequence string) error
}

// Handler processes one batch; it is called sequentially per shard
type Handler[T any] func(ctx context.Context, shardID string, records []T)

// Config configures the poller
type Config struct {
	PollInterval    time.Duration
	ErrorBackoff    time.Duration
	RefreshInterval time.Duration
	// Checkpoints is optional. Without it a restart reads from the configured start again.
	Checkpoints Checkpointer
}

// Poller reads every shard of a Source concurrently and hands batches to a Handler in shard order.
// The shard list is refreshed whenever a shard closes and on RefreshInterval; a child shard is
// started only after its parent has been read to the end.
// The iterator and checkpoint only advance after the handler returns, so an abnormal exit
// redelivers the batch.
type Poller[T any] struct {
	source  Source[T]
	handler Handler[T]
	config  Config
	log     *zap.Logger
}

// NewPoller creates a new shard poller
func NewPoller[T any](source Source[T], handler Handler[T], config Config, log *zap.Logger) *Poller[T] {
	if config.PollInterval <= 0 {
		config.PollInterval = time.Second
	}
	if config.ErrorBackoff <= 0 {
		config.ErrorBackoff = time.Second
	}
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = time.Minute
	}
	return &Poller[T]{
		source:  source,
		handler: handler,
		config:  config,
		log:     log,
	}
}

// lineage tracks which shards are running and which have been drained.
// It is only touched by the Start goroutine.
type lineage struct {
	initial  map[string]bool
	started  map[string]bool
	finished map[string]bool
}

// ready returns the shards that can start now, with where each one starts
func (l *lineage) ready(shards []Info) []Info {
	listed := make(map[string]bool, len(shards))
	for _, s := range shards {
		listed[s.ID] = true
	}

	var out []Info
	for _, s := range shards {
		if l.started[s.ID] {
			continue
		}
		if s.ParentID != "" && (listed[s.ParentID] || l.started[s.ParentID]) && !l.finished[s.ParentID] {
			continue
		}
		l.started[s.ID] = true
		out = append(out, s)
	}
	return out
}

// Start polls all shards until the context is cancelled. It returns once every in-flight
// batch has been handled. An error is returned only when the first shard listing fails.
func (p *Poller[T]) Start(ctx context.Context) error {
	shards, err := p.source.Shards(ctx)
	if err != nil {
		return fmt.Errorf("failed to list shards: %w", err)
	}

	p.log.Info("Starting shard poller", zap.Int("shard_count", len(shards)))

	l := &lineage{
		initial:  make(map[string]bool, len(shards)),
		started:  make(map[string]bool),
		finished: make(map[string]bool),
	}
	for _, s := range shards {
		l.initial[s.ID] = true
	}

	var g errgroup.Group
	closed := make(chan string)

	launch := func(shards []Info) {
		for _, s := range l.ready(shards) {
			// Shards that appear after startup are read from their first record.
			oldest := !l.initial[s.ID]
			g.Go(func() error {
				p.pollShard(ctx, s.ID, oldest, closed)
				return nil
			})
		}
	}
	launch(shards)

	ticker := time.NewTicker(p.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Shard poller stopping, waiting for in-flight batches")
			return g.Wait()
		case shardID := <-closed:
			l.finished[shardID] = true
		case <-ticker.C:
		}

		shards, err := p.source.Shards(ctx)
		if err != nil {
			if ctx.Err() == nil {
				p.log.Error("Failed to refresh shards", zap.Error(err))
			}
			continue
		}
		launch(shards)
	}
}

func (p *Poller[T]) pollShard(ctx context.Context, shardID string, oldest bool, closed chan<- string) {
	log := p.log.With(zap.String("shard_id", shardID))
	// In-flight batches finish and checkpoint even after shutdown begins.
	handleCtx := context.WithoutCancel(ctx)

	lastSequence, ok := p.loadCheckpoint(ctx, log, shardID)
	if !ok {
		return
	}
	if lastSequence == ShardEnd {
		log.Debug("Shard already drained")
		p.signalClosed(ctx, closed, shardID)
		return
	}

	iterator := ""
	for {
		select {
		case <-ctx.Done():
			log.Info("Shard poller shutting down")
			return
		default:
		}

		if iterator == "" {
			it, err := p.source.Iterator(ctx, shardID, Position{AfterSequence: lastSequence, Oldest: oldest})
			if err != nil {
				log.Error("Failed to get shard iterator", zap.Error(err))
				p.sleep(ctx, p.config.ErrorBackoff)
				continue
			}
			iterator = it
		}

		batch, err := p.source.Read(ctx, iterator)
		if err != nil {
			if errors.Is(err, ErrIteratorExpired) {
				log.Warn("Shard iterator expired, re-acquiring", zap.String("after_sequence", lastSequence))
				iterator = ""
				continue
			}
			if ctx.Err() == nil {
				log.Error("Error reading shard", zap.Error(err))
			}
			p.sleep(ctx, p.config.ErrorBackoff)
			continue
		}

		if len(batch.Records) > 0 {
			log.Info("Received records from shard",
				zap.Int("record_count", len(batch.Records)),
				zap.Int64("millis_behind_latest", batch.MillisBehindLatest))
			p.handler(handleCtx, shardID, batch.Records)
			lastSequence = batch.LastSequence
			p.saveCheckpoint(handleCtx, log, shardID, lastSequence)
		}

		if batch.NextIterator == "" {
			log.Info("Shard closed")
			p.saveCheckpoint(handleCtx, log, shardID, ShardEnd)
			p.signalClosed(ctx, closed, shardID)
			return
		}
		iterator = batch.NextIterator

		if len(batch.Records) == 0 {
			p.sleep(ctx, p.config.PollInterval)
		}
	}
}

// loadCheckpoint retries until the checkpoint is read; ok is false when ctx ends first
func (p *Poller[T]) loadCheckpoint(ctx context.Context, log *zap.Logger, shardID string) (string, bool) {
	if p.config.Checkpoints == nil {
		return "", true
	}
	for {
		sequence, err := p.config.Checkpoints.Checkpoint(ctx, shardID)
		if err == nil {
			if sequence != "" {
				log.Info("Resuming shard from checkpoint", zap.String("after_sequence", sequence))
			}
			return sequence, true
		}
		log.Error("Failed to load shard checkpoint", zap.Error(err))
		p.sleep(ctx, p.config.ErrorBackoff)
		if ctx.Err() != nil {
			return "", false
		}
	}
}

func (p *Poller[T]) saveCheckpoint(ctx context.Context, log *zap.Logger, shardID, sequence string) {
	if p.config.Checkpoints == nil {
		return
	}
	if err := p.config.Checkpoints.SaveCheckpoint(ctx, shardID, sequence); err != nil {
		log.Error("Failed to save shard checkpoint",
			zap.String("sequence_number", sequence),
			zap.Error(err))
	}
}

func (p *Poller[T]) signalClosed(ctx context.Context, closed chan<- string, shardID string) {
	select {
	case closed <- shardID:
	case <-ctx.Done():
	}
}

func (p *Poller[T]) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
