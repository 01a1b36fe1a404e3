package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/game"
)

// Recorder buffers game events for one session and periodically flushes
// them to the store. It implements game.Recorder and is safe to call with
// the session lock held: full buffers are written in the background.
type Recorder struct {
	db        DB
	sessionID string
	log       *zap.Logger

	mu        sync.Mutex
	buffer    []SpinEvent
	seq       int
	flushSize int
	inflight  sync.WaitGroup
}

// NewRecorder creates a recorder for the given session.
// flushSize controls how many events are buffered before a batch insert.
func NewRecorder(db DB, sessionID string, flushSize int, log *zap.Logger) *Recorder {
	if flushSize <= 0 {
		flushSize = 50
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		db:        db,
		sessionID: sessionID,
		log:       log,
		buffer:    make([]SpinEvent, 0, flushSize),
		flushSize: flushSize,
	}
}

// Record adds an event to the buffer and flushes if the buffer is full.
func (r *Recorder) Record(ev game.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.buffer = append(r.buffer, fromEvent(r.sessionID, r.seq, ev))
	if len(r.buffer) >= r.flushSize {
		batch := r.takeLocked()
		r.inflight.Add(1)
		go func() {
			defer r.inflight.Done()
			r.save(batch)
		}()
	}
}

// Flush persists buffered events and waits for background writes.
func (r *Recorder) Flush() {
	r.mu.Lock()
	batch := r.takeLocked()
	r.mu.Unlock()

	r.save(batch)
	r.inflight.Wait()
}

// Close flushes the buffer. The store itself stays open.
func (r *Recorder) Close() error {
	r.Flush()
	return nil
}

func (r *Recorder) takeLocked() []SpinEvent {
	if len(r.buffer) == 0 {
		return nil
	}
	batch := make([]SpinEvent, len(r.buffer))
	copy(batch, r.buffer)
	r.buffer = r.buffer[:0]
	return batch
}

func (r *Recorder) save(batch []SpinEvent) {
	if len(batch) == 0 {
		return
	}
	if err := r.db.SaveEvents(r.sessionID, batch); err != nil {
		r.log.Error("flush events",
			zap.String("session_id", r.sessionID),
			zap.Int("count", len(batch)),
			zap.Error(err))
	}
}

func fromEvent(sessionID string, seq int, ev game.Event) SpinEvent {
	out := SpinEvent{
		SessionID:  sessionID,
		Seq:        seq,
		Kind:       string(ev.Kind),
		Zone:       ev.Zone,
		Category:   ev.Category.String(),
		SliceIndex: ev.SliceIndex,
		Forced:     ev.Forced,
		BombChance: ev.BombChance,
		Cost:       ev.Cost,
		Pending:    ev.Pending,
		Lifetime:   ev.Lifetime,
		CreatedAt:  ev.At,
	}
	if ev.SliceIndex >= 0 {
		out.SliceID = ev.Slice.ID
		out.SliceKind = ev.Slice.Kind.String()
		out.Value = ev.Slice.Value
	}
	return out
}
