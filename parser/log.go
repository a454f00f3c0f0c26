package parser

import (
	"sort"
)

// Normalizer rewrites or annotates the event list before replay.
type Normalizer interface {
	Normalize(events []*Event) []*Event
}

// Log is the ordered, read-only event sequence of one fight.
type Log struct {
	events []*Event
}

// NewLog orders copies of events by timestamp. Events sharing a timestamp
// keep the order they were given in. The given events are never modified, so
// the same slice can back several logs.
func NewLog(events []*Event, normalizers ...Normalizer) *Log {
	copies := make([]Event, 0, len(events))
	arr := make([]*Event, 0, len(events))
	for _, ev := range events {
		if ev == nil {
			continue
		}
		copies = append(copies, *ev)
		cp := &copies[len(copies)-1]
		cp.seq = 0
		cp.links = nil
		arr = append(arr, cp)
	}

	sortEvents(arr)
	for _, n := range normalizers {
		arr = n.Normalize(arr)
		sortEvents(arr)
	}

	return &Log{
		events: arr,
	}
}

func sortEvents(arr []*Event) {
	sort.SliceStable(
		arr,
		func(i, k int) bool {
			return arr[i].Timestamp < arr[k].Timestamp
		},
	)
	for i := range arr {
		arr[i].seq = i
	}
}

func (l *Log) Events() []*Event {
	return l.events
}

func (l *Log) Len() int {
	return len(l.events)
}

// Between returns the events with start <= timestamp <= end.
func (l *Log) Between(start, end int64) []*Event {
	from := sort.Search(len(l.events), func(i int) bool { return l.events[i].Timestamp >= start })
	to := sort.Search(len(l.events), func(i int) bool { return l.events[i].Timestamp > end })
	if from >= to {
		return nil
	}
	return l.events[from:to]
}
