package audio

import (
	"math"
	"testing"
)

func valueAt(s *scheduledValue, t float64) float64 {
	s.ctx.Lock()
	defer s.ctx.Unlock()
	return s.compute(t)
}

func TestScheduledValueInitial(t *testing.T) {
	c := NewContext()
	s := newScheduledValue(c, 0.7)
	expectFloat(t, "initial", 0.7, valueAt(s, 0))
	expectFloat(t, "later", 0.7, valueAt(s, 100))
}

func TestScheduledValueSetValueAtTime(t *testing.T) {
	c := NewContext()
	s := newScheduledValue(c, 0)
	s.SetValueAtTime(1, 2)
	expectFloat(t, "before", 0, valueAt(s, 1.999))
	expectFloat(t, "at", 1, valueAt(s, 2))
	expectFloat(t, "after", 1, valueAt(s, 3))
}

func TestScheduledValueLinearRamp(t *testing.T) {
	c := NewContext()
	s := newScheduledValue(c, 0)
	s.SetValueAtTime(0, 1)
	s.LinearRampToValueAtTime(1, 2)
	expectFloat(t, "before anchor", 0, valueAt(s, 0.5))
	expectFloat(t, "quarter", 0.25, valueAt(s, 1.25))
	expectFloat(t, "half", 0.5, valueAt(s, 1.5))
	expectFloat(t, "end", 1, valueAt(s, 2))
	expectFloat(t, "past end", 1, valueAt(s, 5))
}

func TestScheduledValueExponentialRamp(t *testing.T) {
	c := NewContext()
	s := newScheduledValue(c, 1)
	s.ExponentialRampToValueAtTime(0.25, 2)
	expectFloat(t, "start", 1, valueAt(s, 0))
	expectFloat(t, "half", 0.5, valueAt(s, 1)) // 1*(0.25)^0.5
	expectFloat(t, "end", 0.25, valueAt(s, 2))
}

func TestScheduledValueExponentialRampFromZeroUsesFloor(t *testing.T) {
	c := NewContext()
	s := newScheduledValue(c, 0)
	s.ExponentialRampToValueAtTime(1, 1)
	v := valueAt(s, 0.5)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		t.Errorf("expected a finite non-negative value, got %v", v)
	}
	expectFloat(t, "end", 1, valueAt(s, 1))
}

func TestScheduledValueCancel(t *testing.T) {
	c := NewContext()
	s := newScheduledValue(c, 0)
	s.SetValueAtTime(0.5, 1)
	s.LinearRampToValueAtTime(1, 3)
	s.CancelScheduledValues(2)
	expectFloat(t, "kept event", 0.5, valueAt(s, 1))
	expectFloat(t, "dropped ramp", 0.5, valueAt(s, 3))
}

func TestScheduledValueCancelThenReanchor(t *testing.T) {
	c := NewContext()
	s := newScheduledValue(c, 0)
	s.LinearRampToValueAtTime(1, 2) // at t=1 the value is 0.5
	s.CancelScheduledValues(1)
	s.SetValueAtTime(0.5, 1)
	s.LinearRampToValueAtTime(0, 2)
	expectFloat(t, "reanchored", 0.5, valueAt(s, 1))
	expectFloat(t, "new ramp half", 0.25, valueAt(s, 1.5))
	expectFloat(t, "new ramp end", 0, valueAt(s, 2))
}

func TestScheduledValueStepConsumesEvents(t *testing.T) {
	c := NewContext()
	s := newScheduledValue(c, 0)
	s.SetValueAtTime(1, 1)
	s.LinearRampToValueAtTime(2, 2)
	c.Lock()
	expectFloat(t, "step before", 0, s.step(0.5))
	expectFloat(t, "step at set", 1, s.step(1))
	expectFloat(t, "step mid ramp", 1.5, s.step(1.5))
	expectFloat(t, "step past ramp", 2, s.step(3))
	expectInt(t, "events consumed", 0, len(s.events))
	c.Unlock()
}

func TestScheduledValueSetValueClearsSchedule(t *testing.T) {
	c := NewContext()
	s := newScheduledValue(c, 0)
	s.LinearRampToValueAtTime(1, 2)
	s.SetValue(0.3)
	expectFloat(t, "cleared", 0.3, valueAt(s, 1))
	expectFloat(t, "cleared later", 0.3, valueAt(s, 3))
}
