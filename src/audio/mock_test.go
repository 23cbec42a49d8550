package audio

import (
	"fmt"
	"testing"
)

// ----- Assertion Helpers ----- //

func expectNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("expected no error, but got: %v", err)
	}
}
func expectInt(t *testing.T, label string, want int, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", label, want, got)
	}
}
func expectFloat(t *testing.T, label string, want float64, got float64) {
	t.Helper()
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("%s: expected %v, got %v", label, want, got)
	}
}

// ----- Mock Graph ----- //

// mockEvent records one scheduling call on a mock param.
type mockEvent struct {
	name  string
	value float64
	time  float64
}

func (e mockEvent) String() string {
	return fmt.Sprintf("%s(%v, %v)", e.name, e.value, e.time)
}

type mockParam struct {
	value  float64
	events []mockEvent
}

func (p *mockParam) Value() float64 { return p.value }
func (p *mockParam) SetValue(value float64) {
	p.value = value
	p.events = append(p.events, mockEvent{name: "setValue", value: value})
}
func (p *mockParam) SetValueAtTime(value float64, at float64) {
	p.value = value
	p.events = append(p.events, mockEvent{name: "setValueAtTime", value: value, time: at})
}
func (p *mockParam) LinearRampToValueAtTime(value float64, at float64) {
	p.value = value
	p.events = append(p.events, mockEvent{name: "linearRampToValueAtTime", value: value, time: at})
}
func (p *mockParam) ExponentialRampToValueAtTime(value float64, at float64) {
	p.value = value
	p.events = append(p.events, mockEvent{name: "exponentialRampToValueAtTime", value: value, time: at})
}
func (p *mockParam) CancelScheduledValues(at float64) {
	p.events = append(p.events, mockEvent{name: "cancelScheduledValues", time: at})
}

type mockGain struct {
	param       *mockParam
	dest        GainNode
	disconnects int
}

func (g *mockGain) Gain() Param { return g.param }
func (g *mockGain) Connect(dest GainNode) {
	g.dest = dest
}
func (g *mockGain) Disconnect() {
	g.dest = nil
	g.disconnects++
}

type mockTone struct {
	freq        float64
	phase       float64
	starts      []float64
	stops       []float64
	dest        GainNode
	disconnects int
}

func (o *mockTone) Frequency() float64        { return o.freq }
func (o *mockTone) SetFrequency(freq float64) { o.freq = freq }
func (o *mockTone) SetPhase(phase float64)    { o.phase = phase }
func (o *mockTone) Start(at float64)          { o.starts = append(o.starts, at) }
func (o *mockTone) Stop(at float64)           { o.stops = append(o.stops, at) }
func (o *mockTone) Connect(dest GainNode) {
	o.dest = dest
}
func (o *mockTone) Disconnect() {
	o.dest = nil
	o.disconnects++
}

// mockGraph is a spy Graph: it hands out recording nodes and exposes a
// settable clock.
type mockGraph struct {
	now   float64
	dest  *mockGain
	gains []*mockGain
	tones []*mockTone
}

func newMockGraph() *mockGraph {
	return &mockGraph{
		dest: &mockGain{param: &mockParam{value: 1}},
	}
}

func (m *mockGraph) Now() float64 { return m.now }
func (m *mockGraph) NewGain() GainNode {
	g := &mockGain{param: &mockParam{}}
	m.gains = append(m.gains, g)
	return g
}
func (m *mockGraph) NewTone() ToneNode {
	o := &mockTone{}
	m.tones = append(m.tones, o)
	return o
}
func (m *mockGraph) Destination() GainNode { return m.dest }

// totalStarts counts Start calls across every tone the graph handed out.
func (m *mockGraph) totalStarts() int {
	n := 0
	for _, o := range m.tones {
		n += len(o.starts)
	}
	return n
}
