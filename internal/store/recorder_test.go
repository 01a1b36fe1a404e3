package store

import (
	"testing"
	"time"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/game"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

func TestRecorderFlushesBatches(t *testing.T) {
	db := testDB(t)
	id, _ := db.CreateSession(&Session{})

	rec := NewRecorder(db, id, 3, nil)
	for i := 0; i < 7; i++ {
		rec.Record(game.Event{
			Kind:       game.EventReward,
			Zone:       i + 1,
			Category:   wheel.CategoryNormal,
			SliceIndex: 0,
			Slice:      wheel.Slice{ID: "gold", Kind: wheel.RewardCurrency, Value: 10},
			Pending:    10 * (i + 1),
			Lifetime:   10 * (i + 1),
			At:         time.Now().UTC(),
		})
	}
	rec.Record(game.Event{Kind: game.EventLeave, Zone: 8, Category: wheel.CategoryNormal, SliceIndex: -1, Lifetime: 70})
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events, err := db.GetEvents(id, 0, 0)
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if len(events) != 8 {
		t.Fatalf("len(events) = %d, want 8", len(events))
	}
	for i, ev := range events {
		if ev.Seq != i+1 {
			t.Fatalf("events out of order at %d: seq %d", i, ev.Seq)
		}
	}
	last := events[7]
	if last.Kind != "leave" || last.SliceID != "" || last.SliceIndex != -1 {
		t.Errorf("leave event = %+v", last)
	}
	if events[0].SliceKind != "currency" || events[0].Value != 10 {
		t.Errorf("reward event = %+v", events[0])
	}

	sess, _ := db.GetSession(id)
	if sess.TotalSpins != 7 || sess.HighestZone != 8 || sess.Lifetime != 70 {
		t.Errorf("session totals = %+v", sess)
	}
}

func TestRecorderWithGame(t *testing.T) {
	db := testDB(t)
	id, _ := db.CreateSession(&Session{})
	rec := NewRecorder(db, id, 2, nil)

	normal := make([]wheel.Slice, wheel.SliceCount)
	for i := range normal {
		normal[i] = wheel.Slice{ID: "gold", Kind: wheel.RewardCurrency, Value: 50}
	}
	normal[2] = wheel.Slice{ID: "bomb", Kind: wheel.RewardBomb}
	g := game.New(game.Options{
		Profile: wheel.Profile{
			SafeInterval:  5,
			SuperInterval: 30,
			Normal:        wheel.ZoneProfile{Slices: normal},
			Bomb:          wheel.BombSlice("bomb"),
		},
		Recorder: rec,
	})
	g.Start()
	g.ForceNextSlice(0)
	g.RequestSpin()
	g.TryForceBombSlice()
	g.RequestSpin()
	g.RequestGiveUp()
	rec.Flush()

	events, err := db.GetEvents(id, 0, 0)
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	kinds := make([]string, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	want := []string{"reward", "bomb", "give_up"}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
}
