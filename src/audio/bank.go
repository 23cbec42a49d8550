package audio

// ----- Entity State ----- //

const (
	stateReady = iota
	statePlaying
	stateUsed
)

// ----- Oscillator Bank ----- //

// OscillatorBank owns the oscillators realizing one spectral layer, mixed
// through its own gain stage into a caller-supplied destination.
type OscillatorBank struct {
	graph       Graph
	gain        GainNode
	oscillators []*Oscillator
	pitch       float64
	state       int
}

// NewOscillatorBank builds one oscillator per partial, each connected to the
// bank's gain stage. The bank starts at gain 1 in the ready state.
func NewOscillatorBank(graph Graph, partials []Partial, dest GainNode) *OscillatorBank {
	gain := graph.NewGain()
	gain.Gain().SetValue(1)
	gain.Connect(dest)
	b := &OscillatorBank{
		graph: graph,
		gain:  gain,
		state: stateReady,
	}
	for _, p := range partials {
		b.CreateOscillator(p)
	}
	return b
}

// Play triggers every oscillator at the given pitch. Re-triggering while
// already playing restarts all oscillators at the new pitch.
func (b *OscillatorBank) Play(pitch float64, at float64) {
	if b.state == stateUsed {
		return
	}
	b.pitch = pitch
	for _, o := range b.oscillators {
		o.Play(pitch, at)
	}
	b.state = statePlaying
}

// Stop halts every oscillator. The bank stays in its current state and can
// be re-triggered with Play.
func (b *OscillatorBank) Stop(at float64) {
	for _, o := range b.oscillators {
		o.Stop(at)
	}
}

// Update reconciles the owned oscillators against a new layer: the common
// prefix is updated in place, surplus oscillators are removed from index
// len(newPartials) on, and missing ones are appended.
func (b *OscillatorBank) Update(layer SpectralLayer) {
	if b.state == stateUsed {
		return
	}
	common := len(b.oscillators)
	if len(layer.Partials) < common {
		common = len(layer.Partials)
	}
	for i := 0; i < common; i++ {
		b.oscillators[i].Update(layer.Partials[i])
	}
	for i := len(b.oscillators); i > len(layer.Partials); i-- {
		b.RemoveOscillator(common)
	}
	for i := common; i < len(layer.Partials); i++ {
		b.CreateOscillator(layer.Partials[i])
	}
}

// CreateOscillator appends an oscillator for the partial. If the bank is
// already playing, the new oscillator starts immediately at the current
// pitch rather than waiting for the next trigger.
func (b *OscillatorBank) CreateOscillator(partial Partial) *Oscillator {
	o := newOscillator(b.graph, partial, b.gain)
	b.oscillators = append(b.oscillators, o)
	if b.state == statePlaying {
		o.Play(b.pitch, b.graph.Now())
	}
	return o
}

// RemoveOscillator removes and destroys the oscillator at index, returning
// it, or nil when the index is out of range.
func (b *OscillatorBank) RemoveOscillator(index int) *Oscillator {
	if index < 0 || index >= len(b.oscillators) {
		return nil
	}
	o := b.oscillators[index]
	b.oscillators = append(b.oscillators[:index], b.oscillators[index+1:]...)
	o.Destroy()
	return o
}

// Oscillator returns the oscillator at index, or nil when out of range.
func (b *OscillatorBank) Oscillator(index int) *Oscillator {
	if index < 0 || index >= len(b.oscillators) {
		return nil
	}
	return b.oscillators[index]
}

// Len ...
func (b *OscillatorBank) Len() int {
	return len(b.oscillators)
}

// SetGain ramps the bank's gain linearly to value, starting at `at`.
func (b *OscillatorBank) SetGain(value float64, at float64) {
	b.gain.Gain().LinearRampToValueAtTime(value, at)
}

// ShiftRate detunes every oscillator by adding delta to its rate.
func (b *OscillatorBank) ShiftRate(delta float64) {
	for _, o := range b.oscillators {
		o.SetRate(o.Rate() + delta)
	}
}

// Destroy stops playback, destroys every owned oscillator and disconnects
// the gain stage. The bank is permanently retired afterwards.
func (b *OscillatorBank) Destroy() {
	if b.state == stateUsed {
		return
	}
	if b.state == statePlaying {
		b.Stop(b.graph.Now())
	}
	for _, o := range b.oscillators {
		o.Destroy()
	}
	b.gain.Disconnect()
	b.state = stateUsed
}
