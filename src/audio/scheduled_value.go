package audio

import "math"

// ----- Event Kind ----- //

const (
	eventSetValue = iota
	eventLinearRamp
	eventExponentialRamp
)

// ----- Scheduled Value ----- //

// scheduledValue holds a scalar plus a time-sorted list of pending events.
// Ramps interpolate from the value at the previous event (the anchor), so a
// caller that wants a ramp from "wherever the value is right now" must anchor
// it first with SetValueAtTime.
type scheduledValue struct {
	ctx         *Context
	anchorValue float64
	anchorTime  float64
	value       float64
	events      []*valueEvent
}

type valueEvent struct {
	kind  int
	value float64
	time  float64
}

func newScheduledValue(ctx *Context, value float64) *scheduledValue {
	return &scheduledValue{
		ctx:         ctx,
		anchorValue: value,
		value:       value,
	}
}

var _ Param = (*scheduledValue)(nil)

// Value ...
func (s *scheduledValue) Value() float64 {
	s.ctx.Lock()
	defer s.ctx.Unlock()
	return s.compute(float64(s.ctx.pos) * secPerSample)
}

// SetValue ...
func (s *scheduledValue) SetValue(value float64) {
	s.ctx.Lock()
	defer s.ctx.Unlock()
	s.anchorValue = value
	s.anchorTime = float64(s.ctx.pos) * secPerSample
	s.value = value
	s.events = s.events[:0]
}

// SetValueAtTime ...
func (s *scheduledValue) SetValueAtTime(value float64, at float64) {
	s.ctx.Lock()
	defer s.ctx.Unlock()
	s.insert(&valueEvent{kind: eventSetValue, value: value, time: at})
}

// LinearRampToValueAtTime ...
func (s *scheduledValue) LinearRampToValueAtTime(value float64, at float64) {
	s.ctx.Lock()
	defer s.ctx.Unlock()
	s.insert(&valueEvent{kind: eventLinearRamp, value: value, time: at})
}

// ExponentialRampToValueAtTime ...
func (s *scheduledValue) ExponentialRampToValueAtTime(value float64, at float64) {
	s.ctx.Lock()
	defer s.ctx.Unlock()
	s.insert(&valueEvent{kind: eventExponentialRamp, value: value, time: at})
}

// CancelScheduledValues drops every event scheduled at or after `at`.
func (s *scheduledValue) CancelScheduledValues(at float64) {
	s.ctx.Lock()
	defer s.ctx.Unlock()
	kept := s.events[:0]
	for _, e := range s.events {
		if e.time < at {
			kept = append(kept, e)
		}
	}
	s.events = kept
}

func (s *scheduledValue) insert(e *valueEvent) {
	i := len(s.events)
	for i > 0 && s.events[i-1].time > e.time {
		i--
	}
	s.events = append(s.events, nil)
	copy(s.events[i+1:], s.events[i:])
	s.events[i] = e
}

// compute reads the value at time t without consuming events.
// Assumes the context lock is held.
func (s *scheduledValue) compute(t float64) float64 {
	anchorValue := s.anchorValue
	anchorTime := s.anchorTime
	for _, e := range s.events {
		if t >= e.time {
			anchorValue = e.value
			anchorTime = e.time
			continue
		}
		switch e.kind {
		case eventSetValue:
			return anchorValue
		case eventLinearRamp:
			u := rampPos(t, anchorTime, e.time)
			return anchorValue + (e.value-anchorValue)*u
		case eventExponentialRamp:
			u := rampPos(t, anchorTime, e.time)
			from := anchorValue
			if from <= 0 {
				from = valueEpsilon
			}
			return from * math.Pow(e.value/from, u)
		}
	}
	return anchorValue
}

// step advances to time t, folding passed events into the anchor.
// Assumes the context lock is held.
func (s *scheduledValue) step(t float64) float64 {
	s.value = s.compute(t)
	consumed := 0
	for _, e := range s.events {
		if t < e.time {
			break
		}
		s.anchorValue = e.value
		s.anchorTime = e.time
		consumed++
	}
	if consumed > 0 {
		s.events = append(s.events[:0], s.events[consumed:]...)
	}
	return s.value
}

func rampPos(t float64, from float64, to float64) float64 {
	if to <= from {
		return 1
	}
	u := (t - from) / (to - from)
	if u < 0 {
		return 0
	}
	if u > 1 {
		return 1
	}
	return u
}
