package api

import (
	"sync"
	"time"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/game"
)

// FeedKind tags a presentation entry.
type FeedKind string

const (
	FeedRender FeedKind = "render"
	FeedPlay   FeedKind = "play"
	FeedStop   FeedKind = "stop"
	FeedPulse  FeedKind = "pulse"
	FeedSpin   FeedKind = "spin"
)

// FeedEntry is one presentation instruction for a remote shell.
type FeedEntry struct {
	Seq        uint64      `json:"seq"`
	Kind       FeedKind    `json:"kind"`
	Frame      *game.Frame `json:"frame,omitempty"`
	Cue        game.Cue    `json:"cue,omitempty"`
	Haptic     game.Haptic `json:"haptic,omitempty"`
	DurationMs int64       `json:"duration_ms,omitempty"`
	Target     *int        `json:"target,omitempty"`
	At         time.Time   `json:"at"`
}

const defaultFeedSize = 256

// Feed collects what the game would draw, play and vibrate so a client
// can replay it. It implements game.Display, game.Audio and game.Haptics;
// old entries are dropped once the ring is full.
type Feed struct {
	mu      sync.Mutex
	entries []FeedEntry
	next    int
	full    bool
	seq     uint64
}

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = defaultFeedSize
	}
	return &Feed{entries: make([]FeedEntry, size)}
}

func (f *Feed) Render(frame game.Frame) {
	f.push(FeedEntry{Kind: FeedRender, Frame: &frame})
}

func (f *Feed) Play(cue game.Cue) { f.push(FeedEntry{Kind: FeedPlay, Cue: cue}) }

func (f *Feed) Stop(cue game.Cue) { f.push(FeedEntry{Kind: FeedStop, Cue: cue}) }

func (f *Feed) Pulse(h game.Haptic) {
	f.push(FeedEntry{Kind: FeedPulse, Haptic: h, DurationMs: h.Duration().Milliseconds()})
}

// Spin records the slice a client-side animation should land on.
func (f *Feed) Spin(target int) {
	f.push(FeedEntry{Kind: FeedSpin, Target: &target})
}

func (f *Feed) push(e FeedEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	e.Seq = f.seq
	e.At = time.Now().UTC()
	f.entries[f.next] = e
	f.next = (f.next + 1) % len(f.entries)
	if f.next == 0 {
		f.full = true
	}
}

// Since returns entries with Seq > after, oldest first, at most limit
// (limit <= 0 means all retained).
func (f *Feed) Since(after uint64, limit int) []FeedEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := f.next
	start := 0
	if f.full {
		n = len(f.entries)
		start = f.next
	}
	out := make([]FeedEntry, 0)
	for i := 0; i < n; i++ {
		e := f.entries[(start+i)%len(f.entries)]
		if e.Seq <= after {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// LastSeq is the sequence number of the newest entry.
func (f *Feed) LastSeq() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}

// feedAnimator wraps an animator so the target is announced on the feed
// before the animation starts.
type feedAnimator struct {
	feed *Feed
	next game.Animator
}

func (a feedAnimator) SpinToSlice(target, count int, done func(int)) {
	a.feed.Spin(target)
	a.next.SpinToSlice(target, count, done)
}
