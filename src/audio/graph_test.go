package audio

import (
	"math"
	"testing"
)

func maxAbs(data []float64) float64 {
	m := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

func TestContextClock(t *testing.T) {
	c := NewContext()
	expectFloat(t, "initial", 0, c.Now())
	c.render(make([]float64, sampleRate/10))
	expectFloat(t, "after render", 0.1, c.Now())
}

func TestContextRendersConnectedTone(t *testing.T) {
	c := NewContext()
	tone := c.NewTone()
	gain := c.NewGain()
	tone.SetFrequency(1000)
	tone.Connect(gain)
	gain.Connect(c.Destination())
	tone.Start(0)

	out := make([]float64, 256)
	c.render(out)
	expectFloat(t, "first sample", 0, out[0]) // sin(0)
	expectFloat(t, "second sample", math.Sin(2*math.Pi*1000*secPerSample), out[1])
	if maxAbs(out) == 0 {
		t.Errorf("expected a signal")
	}
}

func TestContextToneStartStopWindow(t *testing.T) {
	c := NewContext()
	tone := c.NewTone()
	tone.SetFrequency(1000)
	tone.Connect(c.Destination())
	tone.Start(64 * secPerSample)
	tone.Stop(128 * secPerSample)

	out := make([]float64, 256)
	c.render(out)
	if maxAbs(out[:64]) != 0 {
		t.Errorf("expected silence before start")
	}
	if maxAbs(out[64:128]) == 0 {
		t.Errorf("expected signal inside window")
	}
	if maxAbs(out[128:]) != 0 {
		t.Errorf("expected silence after stop")
	}
}

func TestContextGainScalesSignal(t *testing.T) {
	c := NewContext()
	tone := c.NewTone()
	gain := c.NewGain()
	tone.SetFrequency(1000)
	tone.Connect(gain)
	gain.Connect(c.Destination())
	gain.Gain().SetValue(0.25)
	tone.Start(0)

	out := make([]float64, 256)
	c.render(out)
	if m := maxAbs(out); m > 0.25+1e-9 {
		t.Errorf("expected signal scaled to 0.25, got peak %v", m)
	}
	expectFloat(t, "second sample", 0.25*math.Sin(2*math.Pi*1000*secPerSample), out[1])
}

func TestContextDisconnectSilences(t *testing.T) {
	c := NewContext()
	tone := c.NewTone()
	tone.SetFrequency(1000)
	tone.Connect(c.Destination())
	tone.Start(0)
	tone.Disconnect()

	out := make([]float64, 64)
	c.render(out)
	if maxAbs(out) != 0 {
		t.Errorf("expected silence after disconnect")
	}
}

func TestContextSumsInputs(t *testing.T) {
	c := NewContext()
	for i := 0; i < 2; i++ {
		tone := c.NewTone()
		tone.SetFrequency(1000)
		tone.Connect(c.Destination())
		tone.Start(0)
	}
	out := make([]float64, 4)
	c.render(out)
	expectFloat(t, "summed second sample", 2*math.Sin(2*math.Pi*1000*secPerSample), out[1])
}

func TestContextScheduledGainRamp(t *testing.T) {
	c := NewContext()
	tone := c.NewTone()
	gain := c.NewGain()
	tone.SetFrequency(1000)
	tone.Connect(gain)
	gain.Connect(c.Destination())
	gain.Gain().SetValue(0)
	gain.Gain().LinearRampToValueAtTime(1, 128*secPerSample)
	tone.Start(0)

	out := make([]float64, 256)
	c.render(out)
	expectFloat(t, "silent at ramp start", 0, out[0])
	// past the ramp the tone comes through at full scale
	if maxAbs(out[128:]) < 0.5 {
		t.Errorf("expected audible signal after ramp, got peak %v", maxAbs(out[128:]))
	}
}
