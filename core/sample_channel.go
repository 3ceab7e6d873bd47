package core

import (
	"context"
	"sync/atomic"
)

// SampleChannel is the bounded single-producer/single-consumer queue between
// the sample producer and the shell. Publishing never blocks: a sample that
// does not fit is dropped.
type SampleChannel struct {
	ch      chan ADCValue
	dropped atomic.Uint32
}

// NewSampleChannel creates a channel holding at most capacity samples.
func NewSampleChannel(capacity int) *SampleChannel {
	if capacity <= 0 {
		capacity = SampleChannelCapacity
	}
	return &SampleChannel{ch: make(chan ADCValue, capacity)}
}

// TryPublish enqueues v if there is room. It returns false when the sample
// was dropped.
func (s *SampleChannel) TryPublish(v ADCValue) bool {
	select {
	case s.ch <- v:
		return true
	default:
		// Channel full, drop the new sample
		s.dropped.Add(1)
		RecordEvent(EvtSampleDropped, uint32(v))
		return false
	}
}

// Receive blocks until a sample is available or ctx is done.
func (s *SampleChannel) Receive(ctx context.Context) (ADCValue, error) {
	select {
	case v := <-s.ch:
		return v, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// C exposes the receive side for select loops.
func (s *SampleChannel) C() <-chan ADCValue {
	return s.ch
}

// Len returns the number of queued samples.
func (s *SampleChannel) Len() int { return len(s.ch) }

// Cap returns the channel capacity.
func (s *SampleChannel) Cap() int { return cap(s.ch) }

// Dropped returns how many samples were discarded because the channel was full.
func (s *SampleChannel) Dropped() uint32 {
	return s.dropped.Load()
}
