// Package viewqueue batches listing page views into Postgres off the request
// path. Views are best-effort metrics: under pressure events are dropped, not
// queued unboundedly.
package viewqueue

import (
	"context"
	"database/sql"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

type view struct {
	bookID string
	at     time.Time
}

var (
	dbRef   *sql.DB
	queue   chan view
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Int64
)

// Start spins up the flush workers over a buffered channel.
func Start(db *sql.DB, buf, workers int) {
	once.Do(func() {
		dbRef = db
		queue = make(chan view, buf)
		done = make(chan struct{})
		for range workers {
			wg.Add(1)
			go worker()
		}
	})
}

// Enqueue records a view without blocking; a full buffer drops the event.
func Enqueue(bookID string) {
	if bookID == "" {
		return
	}
	select {
	case queue <- view{bookID: bookID, at: time.Now().UTC()}:
	default:
		if n := dropped.Add(1); n%1000 == 1 {
			log.Printf("[viewqueue] buffer full, %d views dropped so far", n)
		}
	}
}

// Shutdown stops the workers after a final drain.
func Shutdown() {
	if done == nil {
		return
	}
	close(done)
	wg.Wait()
}

const (
	batchSize  = 100
	flushEvery = 250 * time.Millisecond
	writeTO    = 500 * time.Millisecond
)

func worker() {
	defer wg.Done()
	tk := time.NewTicker(flushEvery)
	defer tk.Stop()

	batch := make([]view, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := insertBatch(batch); err != nil {
			log.Printf("[viewqueue] batch insert failed: %v", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-done:
			for {
				select {
				case v := <-queue:
					batch = append(batch, v)
					if len(batch) >= batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		case v := <-queue:
			batch = append(batch, v)
			if len(batch) >= batchSize {
				flush()
			}
		case <-tk.C:
			flush()
		}
	}
}

func insertBatch(batch []view) error {
	args := make([]any, 0, len(batch)*2)
	q := "INSERT INTO book_view_events (book_id, viewed_at) VALUES "
	for i, v := range batch {
		if i > 0 {
			q += ","
		}
		q += "($" + strconv.Itoa(2*i+1) + ",$" + strconv.Itoa(2*i+2) + ")"
		args = append(args, v.bookID, v.at)
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTO)
	defer cancel()
	_, err := dbRef.ExecContext(ctx, q, args...)
	return err
}
