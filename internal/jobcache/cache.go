package jobcache

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultCapacity bounds the number of jobs the cache holds at once.
	DefaultCapacity = 1000
	// DefaultTTL is how long a job survives after it was created,
	// regardless of state, before the sweep goroutine evicts it.
	DefaultTTL = 15 * time.Minute

	sweepInterval = 30 * time.Second
)

// Cache is the in-memory job store: bounded by count, evicted by age, safe
// for concurrent use from the HTTP handlers and the background sweeper.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	jobs     map[int32]*Job
	order    []int32 // insertion order, oldest first, for capacity eviction

	nextID int32

	stop chan struct{}
	done chan struct{}
}

// New creates a cache with the given capacity and TTL and starts its
// background eviction sweep. Callers must call Close to stop the sweep
// goroutine.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		capacity: capacity,
		ttl:      ttl,
		jobs:     make(map[int32]*Job),
		nextID:   1000,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go c.sweepLoop()
	return c
}

func (c *Cache) Close() {
	close(c.stop)
	<-c.done
}

func (c *Cache) sweepLoop() {
	defer close(c.done)
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *Cache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	kept := c.order[:0]
	for _, id := range c.order {
		job, ok := c.jobs[id]
		if !ok {
			continue
		}
		if now.Sub(job.CreatedAt) > c.ttl {
			delete(c.jobs, id)
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
}

// NextJobID allocates the next job-id. Allocation is monotonic for the
// lifetime of the cache; ids are never reused even after eviction.
func (c *Cache) NextJobID() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	return id
}

// Insert adds a newly created job to the cache, evicting the single oldest
// entry first if the cache is already at capacity.
func (c *Cache) Insert(id int32, printerURI, user, format string, tmpl TemplateAttrs, held bool) *Job {
	job := newJob(id, printerURI, user, format, tmpl, held)

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.jobs) >= c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		delete(c.jobs, oldest)
		c.order = c.order[1:]
	}
	c.jobs[id] = job
	c.order = append(c.order, id)
	return job
}

// Get returns the job with the given id, if still cached.
func (c *Cache) Get(id int32) (*Job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	j, ok := c.jobs[id]
	return j, ok
}

// List returns a snapshot of all cached jobs, oldest first.
func (c *Cache) List() []*Job {
	c.mu.Lock()
	ids := make([]int32, len(c.order))
	copy(ids, c.order)
	c.mu.Unlock()

	jobs := make([]*Job, 0, len(ids))
	for _, id := range ids {
		if j, ok := c.Get(id); ok {
			jobs = append(jobs, j)
		}
	}
	return jobs
}

// Delete removes a job from the cache outright, used by Purge-Jobs to
// clear terminal-state history rather than waiting for TTL eviction.
func (c *Cache) Delete(id int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.jobs[id]; !ok {
		return
	}
	delete(c.jobs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len reports how many jobs are currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.jobs)
}

// Transition functions below drive a cached job's state machine; they take
// the cache lock only to look the job up, then fire the event on the job's
// own FSM, matching the per-entry-lock recommendation for concurrent use.

func (c *Cache) Hold(ctx context.Context, id int32) error    { return c.event(ctx, id, evtHold) }
func (c *Cache) Release(ctx context.Context, id int32) error { return c.event(ctx, id, evtRelease) }
func (c *Cache) Process(ctx context.Context, id int32) error { return c.event(ctx, id, evtProcess) }
func (c *Cache) Stop(ctx context.Context, id int32) error    { return c.event(ctx, id, evtStop) }
func (c *Cache) Complete(ctx context.Context, id int32) error { return c.event(ctx, id, evtComplete) }
func (c *Cache) Cancel(ctx context.Context, id int32) error  { return c.event(ctx, id, evtCancel) }
func (c *Cache) Restart(ctx context.Context, id int32) error { return c.event(ctx, id, evtRestart) }

// Abort transitions a job to the aborted state, carrying reason through to
// the job's job-state-message ("Aborted: {reason}").
func (c *Cache) Abort(ctx context.Context, id int32, reason string) error {
	return c.event(ctx, id, evtAbort, reason)
}

func (c *Cache) event(ctx context.Context, id int32, evt string, args ...interface{}) error {
	job, ok := c.Get(id)
	if !ok {
		return ErrJobNotFound
	}
	return job.fire(ctx, evt, args...)
}
