package audio

import (
	"math"
	"sync"
)

// ----- Graph ----- //

// Graph is the host side of the audio tree: a clock plus node factories.
// Voices and banks only talk to this interface, so tests can substitute spies.
type Graph interface {
	Now() float64
	NewGain() GainNode
	NewTone() ToneNode
	Destination() GainNode
}

// GainNode scales everything connected into it by its gain param.
type GainNode interface {
	Gain() Param
	Connect(dest GainNode)
	Disconnect()
}

// ToneNode is a sine generator with a scheduled start/stop window.
type ToneNode interface {
	Frequency() float64
	SetFrequency(freq float64)
	SetPhase(phase float64)
	Start(at float64)
	Stop(at float64)
	Connect(dest GainNode)
	Disconnect()
}

// Param is a scheduled scalar value on the graph clock.
// Ramps interpolate from the previous scheduled event. A cancel drops every
// event at or after the given time; the caller re-anchors the current value
// itself before scheduling again.
type Param interface {
	Value() float64
	SetValue(value float64)
	SetValueAtTime(value float64, at float64)
	LinearRampToValueAtTime(value float64, at float64)
	ExponentialRampToValueAtTime(value float64, at float64)
	CancelScheduledValues(at float64)
}

// ----- Context ----- //

// Context renders a tree of nodes sample by sample.
// Now() advances only when render() consumes frames, so scheduling is
// deterministic: offline rendering and the realtime pump share one clock.
type Context struct {
	sync.Mutex
	pos    int64
	master *gainNode
}

var _ Graph = (*Context)(nil)

// NewContext ...
func NewContext() *Context {
	c := &Context{}
	c.master = &gainNode{ctx: c, gain: newScheduledValue(c, 1)}
	return c
}

// Now ...
func (c *Context) Now() float64 {
	c.Lock()
	defer c.Unlock()
	return float64(c.pos) * secPerSample
}

// NewGain ...
func (c *Context) NewGain() GainNode {
	return &gainNode{ctx: c, gain: newScheduledValue(c, 1)}
}

// NewTone ...
func (c *Context) NewTone() ToneNode {
	return &toneNode{ctx: c, startAt: -1, stopAt: -1}
}

// Destination ...
func (c *Context) Destination() GainNode {
	return c.master
}

// render fills out with master samples and advances the clock.
func (c *Context) render(out []float64) {
	c.Lock()
	defer c.Unlock()
	for i := range out {
		t := float64(c.pos) * secPerSample
		out[i] = c.master.step(t)
		c.pos++
	}
}

// ----- Nodes ----- //

type graphSource interface {
	step(t float64) float64
}

type gainNode struct {
	ctx    *Context
	gain   *scheduledValue
	inputs []graphSource
	dest   *gainNode
}

func (g *gainNode) Gain() Param { return g.gain }

func (g *gainNode) Connect(dest GainNode) {
	d, ok := dest.(*gainNode)
	if !ok {
		return
	}
	g.ctx.Lock()
	defer g.ctx.Unlock()
	if g.dest != nil {
		g.dest.removeInput(g)
	}
	g.dest = d
	d.inputs = append(d.inputs, g)
}

func (g *gainNode) Disconnect() {
	g.ctx.Lock()
	defer g.ctx.Unlock()
	if g.dest == nil {
		return
	}
	g.dest.removeInput(g)
	g.dest = nil
}

func (g *gainNode) removeInput(s graphSource) {
	for i, input := range g.inputs {
		if input == s {
			g.inputs = append(g.inputs[:i], g.inputs[i+1:]...)
			return
		}
	}
}

func (g *gainNode) step(t float64) float64 {
	value := 0.0
	for _, input := range g.inputs {
		value += input.step(t)
	}
	return value * g.gain.step(t)
}

type toneNode struct {
	ctx     *Context
	freq    float64
	phase   float64
	pos     float64 // accumulated phase while running
	startAt float64 // -1: not scheduled
	stopAt  float64 // -1: no stop scheduled
	dest    *gainNode
}

func (o *toneNode) Frequency() float64 {
	o.ctx.Lock()
	defer o.ctx.Unlock()
	return o.freq
}

func (o *toneNode) SetFrequency(freq float64) {
	o.ctx.Lock()
	defer o.ctx.Unlock()
	o.freq = freq
}

func (o *toneNode) SetPhase(phase float64) {
	o.ctx.Lock()
	defer o.ctx.Unlock()
	o.phase = phase
}

// Start schedules the tone. Restarting resets the accumulated phase and
// clears a pending stop.
func (o *toneNode) Start(at float64) {
	o.ctx.Lock()
	defer o.ctx.Unlock()
	o.startAt = at
	o.stopAt = -1
	o.pos = 0
}

func (o *toneNode) Stop(at float64) {
	o.ctx.Lock()
	defer o.ctx.Unlock()
	if o.startAt < 0 {
		return
	}
	o.stopAt = at
}

func (o *toneNode) Connect(dest GainNode) {
	d, ok := dest.(*gainNode)
	if !ok {
		return
	}
	o.ctx.Lock()
	defer o.ctx.Unlock()
	if o.dest != nil {
		o.dest.removeInput(o)
	}
	o.dest = d
	d.inputs = append(d.inputs, o)
}

func (o *toneNode) Disconnect() {
	o.ctx.Lock()
	defer o.ctx.Unlock()
	if o.dest == nil {
		return
	}
	o.dest.removeInput(o)
	o.dest = nil
}

func (o *toneNode) step(t float64) float64 {
	if o.startAt < 0 || t < o.startAt {
		return 0.0
	}
	if o.stopAt >= 0 && t >= o.stopAt {
		return 0.0
	}
	value := math.Sin(o.phase + o.pos)
	o.pos += 2.0 * math.Pi * o.freq * secPerSample
	if o.pos > 2.0*math.Pi {
		o.pos -= 2.0 * math.Pi
	}
	return value
}
