package ecs

import "testing"

func TestEventQueueFlushReleasesPayloads(t *testing.T) {
	var q EventQueue
	payload := &struct{ n int }{n: 7}
	q.Push(Event{Type: EventInput, Data: payload})
	q.Push(Event{Type: EventResize, Data: [2]int{640, 480}})

	q.Flush()
	if len(q.Pending()) != 0 {
		t.Fatalf("expected no pending events after flush, got %d", len(q.Pending()))
	}
	for i, evt := range q.items[:cap(q.items)] {
		if evt.Data != nil || evt.Type != "" {
			t.Fatalf("expected slot %d zeroed after flush, got %+v", i, evt)
		}
	}

	q.Push(Event{Type: EventInput})
	if got := q.Pending(); len(got) != 1 || got[0].Type != EventInput {
		t.Fatalf("expected queue reusable after flush, got %+v", got)
	}
}

func TestEventQueueDrain(t *testing.T) {
	var q EventQueue
	if q.Drain() != nil {
		t.Fatalf("expected nil drain on empty queue")
	}
	q.Push(Event{Type: "a"})
	q.Push(Event{Type: "b"})
	got := q.Drain()
	if len(got) != 2 || got[0].Type != "a" || got[1].Type != "b" {
		t.Fatalf("expected FIFO order, got %+v", got)
	}
	if len(q.Pending()) != 0 {
		t.Fatalf("expected drain to empty the queue")
	}
}
