package queue

import (
	"context"
	"hash/fnv"
	"runtime"
	"sync"
	"time"

	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/metrics"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const queueName = "search_index"

// Indexer is the synchronous index writer behind the queue.
type Indexer interface {
	Upsert(ctx context.Context, v *models.Video)
	Remove(ctx context.Context, videoID string)
}

type jobKind string

const (
	jobUpsert jobKind = "upsert"
	jobRemove jobKind = "remove"
)

// IndexJob is one pending index write.
type IndexJob struct {
	Kind       jobKind
	VideoID    string
	Video      *models.Video
	EnqueuedAt time.Time
	// SpanContext links the write to the request that caused it.
	SpanContext trace.SpanContext
}

// IndexQueue moves search index writes off the request path. It has the
// same methods as the indexer it wraps, so services cannot tell the two
// apart. Jobs are dropped, never blocked on, when a worker's buffer is full.
//
// Every video is pinned to one worker, so writes for the same video are
// applied in the order they were queued.
type IndexQueue struct {
	shards []chan *IndexJob
	sink   Indexer

	// closedMux guards closed and every send on the shards.
	closedMux sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
}

// NewIndexQueue creates a queue in front of sink. Zero values pick the
// defaults: one worker per CPU (at most 4) and a buffer of 256 jobs split
// evenly between the workers.
func NewIndexQueue(sink Indexer, workers, buffer int) *IndexQueue {
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > 4 {
			workers = 4
		}
	}
	if buffer <= 0 {
		buffer = 256
	}
	perShard := buffer / workers
	if perShard < 1 {
		perShard = 1
	}

	shards := make([]chan *IndexJob, workers)
	for i := range shards {
		shards[i] = make(chan *IndexJob, perShard)
	}
	return &IndexQueue{shards: shards, sink: sink}
}

// Start begins processing jobs with worker pool
func (q *IndexQueue) Start() {
	logger.Log.Info("Starting index queue", zap.Int("workers", len(q.shards)))
	for i := range q.shards {
		q.wg.Add(1)
		go q.worker(i)
	}
}

// Stop refuses new jobs and waits until the queued ones are written.
func (q *IndexQueue) Stop() {
	q.closedMux.Lock()
	if q.closed {
		q.closedMux.Unlock()
		return
	}
	q.closed = true
	for _, shard := range q.shards {
		close(shard)
	}
	q.closedMux.Unlock()

	q.wg.Wait()
	logger.Log.Info("Index queue stopped")
}

// Upsert queues a write of v's current state.
func (q *IndexQueue) Upsert(ctx context.Context, v *models.Video) {
	if v == nil {
		return
	}
	snapshot := *v
	if v.Owner != nil {
		owner := *v.Owner
		snapshot.Owner = &owner
	}
	q.enqueue(&IndexJob{
		Kind:        jobUpsert,
		VideoID:     v.ID,
		Video:       &snapshot,
		EnqueuedAt:  time.Now(),
		SpanContext: trace.SpanContextFromContext(ctx),
	})
}

// Remove queues the deletion of videoID's document.
func (q *IndexQueue) Remove(ctx context.Context, videoID string) {
	q.enqueue(&IndexJob{
		Kind:        jobRemove,
		VideoID:     videoID,
		EnqueuedAt:  time.Now(),
		SpanContext: trace.SpanContextFromContext(ctx),
	})
}

// shardFor maps a video to the worker that owns its writes.
func (q *IndexQueue) shardFor(videoID string) int {
	h := fnv.New32a()
	h.Write([]byte(videoID))
	return int(h.Sum32() % uint32(len(q.shards)))
}

func (q *IndexQueue) depth() int {
	n := 0
	for _, shard := range q.shards {
		n += len(shard)
	}
	return n
}

func (q *IndexQueue) enqueue(job *IndexJob) bool {
	q.closedMux.RLock()
	defer q.closedMux.RUnlock()

	if q.closed {
		metrics.RecordQueueDropped(queueName)
		logger.Log.Warn("Index queue stopped, dropping job",
			zap.String("kind", string(job.Kind)), logger.WithVideoID(job.VideoID))
		return false
	}

	select {
	case q.shards[q.shardFor(job.VideoID)] <- job:
		metrics.SetQueueDepth(queueName, q.depth())
		return true
	default:
		metrics.RecordQueueDropped(queueName)
		logger.Log.Warn("Index queue is full, dropping job",
			zap.String("kind", string(job.Kind)), logger.WithVideoID(job.VideoID))
		return false
	}
}

// worker processes its shard until the queue is closed and drained
func (q *IndexQueue) worker(workerID int) {
	defer q.wg.Done()
	for job := range q.shards[workerID] {
		metrics.SetQueueDepth(queueName, q.depth())
		q.process(workerID, job)
	}
}

func (q *IndexQueue) process(workerID int, job *IndexJob) {
	ctx := context.Background()
	if job.SpanContext.IsValid() {
		ctx = trace.ContextWithRemoteSpanContext(ctx, job.SpanContext)
	}
	ctx, span := telemetry.GetBusinessEvents().TraceExternalAPI(ctx, "elasticsearch", string(job.Kind))
	defer span.End()

	switch job.Kind {
	case jobUpsert:
		q.sink.Upsert(ctx, job.Video)
	case jobRemove:
		q.sink.Remove(ctx, job.VideoID)
	}
	logger.Log.Debug("Index job done",
		zap.Int("worker_id", workerID),
		zap.String("kind", string(job.Kind)),
		logger.WithVideoID(job.VideoID),
		zap.Duration("queued_for", time.Since(job.EnqueuedAt)),
	)
}
