package audio

// ----- Oscillator ----- //

// Oscillator realizes one partial: a tone node feeding its own gain stage.
// It is exclusively owned by one OscillatorBank.
type Oscillator struct {
	graph Graph
	tone  ToneNode
	gain  GainNode
	rate  float64
	pitch float64 // last played pitch, 0 until first Play
}

func newOscillator(graph Graph, partial Partial, dest GainNode) *Oscillator {
	tone := graph.NewTone()
	tone.SetPhase(partial.Phase)
	gain := graph.NewGain()
	gain.Gain().SetValue(partial.Amplitude)
	tone.Connect(gain)
	gain.Connect(dest)
	return &Oscillator{
		graph: graph,
		tone:  tone,
		gain:  gain,
		rate:  partial.Rate,
	}
}

// Play tunes the tone to pitch*rate and starts it at `at`.
func (o *Oscillator) Play(pitch float64, at float64) {
	o.pitch = pitch
	o.tone.SetFrequency(pitch * o.rate)
	o.tone.Start(at)
}

// Stop ...
func (o *Oscillator) Stop(at float64) {
	o.tone.Stop(at)
}

// Update retunes the oscillator to a new partial in place. A playing
// oscillator keeps running at the new rate and amplitude.
func (o *Oscillator) Update(partial Partial) {
	o.rate = partial.Rate
	o.tone.SetPhase(partial.Phase)
	o.gain.Gain().SetValue(partial.Amplitude)
	if o.pitch != 0 {
		o.tone.SetFrequency(o.pitch * o.rate)
	}
}

// Rate ...
func (o *Oscillator) Rate() float64 {
	return o.rate
}

// SetRate ...
func (o *Oscillator) SetRate(rate float64) {
	o.rate = rate
	if o.pitch != 0 {
		o.tone.SetFrequency(o.pitch * o.rate)
	}
}

// Destroy stops the tone and disconnects both nodes from the graph.
func (o *Oscillator) Destroy() {
	o.tone.Stop(o.graph.Now())
	o.tone.Disconnect()
	o.gain.Disconnect()
}
