package command

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/room-chess-bot/internal/obslog"
)

// HandlerFunc processes one chat line.
type HandlerFunc func(ctx context.Context, in Incoming) error

const defaultQueueDepth = 64

// RoomQueue runs one worker per room so lines from the same room are handled
// in arrival order while different rooms proceed in parallel.
type RoomQueue struct {
	ctx     context.Context
	handle  HandlerFunc
	timeout time.Duration
	depth   int
	logger  *zap.Logger

	mu    sync.Mutex
	rooms map[string]chan Incoming
	wg    sync.WaitGroup
}

// NewRoomQueue starts no goroutines until a room sees its first line. Workers
// stop when ctx is done.
func NewRoomQueue(ctx context.Context, handle HandlerFunc, timeout time.Duration, logger *zap.Logger) *RoomQueue {
	if logger == nil {
		logger = obslog.L()
	}
	return &RoomQueue{
		ctx:     ctx,
		handle:  handle,
		timeout: timeout,
		depth:   defaultQueueDepth,
		logger:  logger,
		rooms:   make(map[string]chan Incoming),
	}
}

// Enqueue hands in to its room's worker. It never blocks: a full queue drops
// the line and reports false.
func (q *RoomQueue) Enqueue(in Incoming) bool {
	if q.ctx.Err() != nil {
		return false
	}
	ch := q.room(in.Room)
	select {
	case ch <- in:
		return true
	default:
		q.logger.Warn("room_queue_full", zap.String("room", in.Room), zap.Int("depth", q.depth))
		return false
	}
}

// Wait blocks until every worker has exited.
func (q *RoomQueue) Wait() { q.wg.Wait() }

func (q *RoomQueue) room(room string) chan Incoming {
	q.mu.Lock()
	defer q.mu.Unlock()
	ch, ok := q.rooms[room]
	if !ok {
		ch = make(chan Incoming, q.depth)
		q.rooms[room] = ch
		q.wg.Add(1)
		go q.work(ch)
	}
	return ch
}

func (q *RoomQueue) work(ch chan Incoming) {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case in := <-ch:
			q.run(in)
		}
	}
}

func (q *RoomQueue) run(in Incoming) {
	ctx := q.ctx
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}
	if err := q.handle(ctx, in); err != nil {
		q.logger.Error("reply_send_error", zap.String("room", in.Room), zap.Error(err))
	}
}
