// Package scheduler runs persistence jobs off the UI goroutine, one at a
// time, so no two writes to the same list ever overlap.
package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidDueTime = errors.New("scheduler: invalid due time")
	ErrNilJob         = errors.New("scheduler: job has no run func")
	ErrStopped        = errors.New("scheduler: engine stopped")
)

// Job is one unit of persistence work. Jobs sharing a non-empty Key
// coalesce while queued: the newest Run replaces the queued one and keeps
// its place in line.
type Job struct {
	ID    uint64
	Key   string
	Kind  string
	List  string
	Label string
	DueAt time.Time
	Run   func(ctx context.Context) error
}

type Result struct {
	Job        Job
	Err        error
	FinishedAt time.Time
}

type queueItem struct {
	job Job
	seq uint64
}

type priorityQueue []*queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if !pq[i].job.DueAt.Equal(pq[j].job.DueAt) {
		return pq[i].job.DueAt.Before(pq[j].job.DueAt)
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(*queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[0 : n-1]
	return item
}

type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	byKey   map[string]*queueItem
	seq     uint64
	out     chan Result
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	stopped bool
	dropped uint64
	now     func() time.Time
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		queue:  make(priorityQueue, 0),
		byKey:  make(map[string]*queueItem),
		out:    make(chan Result, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
	}
}

// C delivers one Result per finished job. It is closed after Stop.
func (e *Engine) C() <-chan Result {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

// Stop runs every queued job regardless of its due time, then closes C.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	if !e.started {
		e.stopped = true
		e.mu.Unlock()
		e.cancel()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
	e.cancel()
}

// Submit queues job to run as soon as the jobs ahead of it finish.
func (e *Engine) Submit(job Job) (uint64, error) {
	job.DueAt = e.now()
	return e.Schedule(job)
}

// Schedule queues job to run at job.DueAt and returns its id.
func (e *Engine) Schedule(job Job) (uint64, error) {
	if job.DueAt.IsZero() {
		return 0, ErrInvalidDueTime
	}
	if job.Run == nil {
		return 0, ErrNilJob
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return 0, ErrStopped
	}

	if job.Key != "" {
		if queued, ok := e.byKey[job.Key]; ok {
			job.ID = queued.job.ID
			job.DueAt = queued.job.DueAt
			queued.job = job
			return job.ID, nil
		}
	}

	e.seq++
	job.ID = e.seq
	item := &queueItem{job: job, seq: e.seq}
	heap.Push(&e.queue, item)
	if job.Key != "" {
		e.byKey[job.Key] = item
	}
	e.signalWakeup()
	return job.ID, nil
}

// Pending reports how many jobs are queued and not yet started.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Dropped counts results discarded because C was full.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				e.drain()
				return
			}
		}

		wait := next.DueAt.Sub(e.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			if job, ok := e.popDue(e.now()); ok {
				e.run(job)
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			stopTimer(timer)
			e.drain()
			return
		}
	}
}

func (e *Engine) drain() {
	for {
		job, ok := e.popDue(time.Time{})
		if !ok {
			return
		}
		e.run(job)
	}
}

func (e *Engine) run(job Job) {
	err := job.Run(e.ctx)
	res := Result{Job: job, Err: err, FinishedAt: e.now()}
	select {
	case e.out <- res:
	default:
		atomic.AddUint64(&e.dropped, 1)
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Job, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Job{}, false
	}
	return e.queue[0].job, true
}

// popDue removes the head job if it is due at now. A zero now pops the head
// unconditionally.
func (e *Engine) popDue(now time.Time) (Job, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.queue) == 0 {
		return Job{}, false
	}
	if !now.IsZero() && e.queue[0].job.DueAt.After(now) {
		return Job{}, false
	}
	item := heap.Pop(&e.queue).(*queueItem)
	if item.job.Key != "" {
		delete(e.byKey, item.job.Key)
	}
	return item.job, true
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
