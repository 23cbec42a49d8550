package audio

import (
	"fmt"
	"math/rand"
)

// ----- Voice ----- //

// VoiceConfig carries the construction arguments for a Voice. ID may be
// empty; NewID may be nil, in which case a package-level random generator is
// used. Destination defaults to the graph's destination.
type VoiceConfig struct {
	ID          string
	Spectrum    Spectrum
	ADSR        ADSR
	Graph       Graph
	Destination GainNode
	NewID       func() string
}

// Voice is one polyphonic note instance: a bank per spectral layer, mixed
// through the voice's gain stage which carries the ADSR envelope.
type Voice struct {
	ID    string
	graph Graph
	gain  GainNode
	banks []*OscillatorBank
	adsr  ADSR
	pitch float64
	state int
}

// NewVoice ...
func NewVoice(config VoiceConfig) *Voice {
	id := config.ID
	if id == "" {
		newID := config.NewID
		if newID == nil {
			newID = randomID
		}
		id = newID()
	}
	dest := config.Destination
	if dest == nil {
		dest = config.Graph.Destination()
	}
	gain := config.Graph.NewGain()
	gain.Gain().SetValue(1)
	gain.Connect(dest)
	v := &Voice{
		ID:    id,
		graph: config.Graph,
		gain:  gain,
		adsr:  config.ADSR,
		state: stateReady,
	}
	for _, layer := range config.Spectrum {
		v.banks = append(v.banks, NewOscillatorBank(config.Graph, layer.Partials, gain))
	}
	return v
}

func randomID() string {
	return fmt.Sprintf("%08x%08x", rand.Uint32(), rand.Uint32())
}

// Play triggers the voice at the given pitch and velocity, scheduling the
// attack and decay ramps from `at`. A retrigger while already playing cancels
// pending gain events, re-anchors the current value and jumps to the sustain
// level before scheduling the new envelope.
func (v *Voice) Play(pitch float64, velocity float64, at float64) {
	if v.state == stateUsed {
		return
	}
	v.pitch = pitch
	gain := v.gain.Gain()
	if v.state == statePlaying {
		gain.CancelScheduledValues(at)
		gain.SetValueAtTime(gain.Value(), at)
		gain.SetValueAtTime(velocity*v.adsr.Sustain, at)
	} else {
		gain.SetValue(valueEpsilon)
	}
	for _, b := range v.banks {
		b.Play(pitch, at)
	}
	v.state = statePlaying
	gain.LinearRampToValueAtTime(velocity, at+v.adsr.Attack)
	gain.LinearRampToValueAtTime(velocity*v.adsr.Sustain, at+v.adsr.Attack+v.adsr.Decay)
}

// Release fades the voice out over the release time. The voice stays in the
// playing state; the caller tracks release completion on its own clock.
func (v *Voice) Release(at float64) {
	gain := v.gain.Gain()
	gain.CancelScheduledValues(at)
	gain.SetValueAtTime(gain.Value(), at)
	gain.LinearRampToValueAtTime(valueEpsilon, at+v.adsr.Release)
}

// Stop halts every bank's oscillators without touching the envelope. Like
// OscillatorBank.Stop this does not change the voice's state.
func (v *Voice) Stop(at float64) {
	for _, b := range v.banks {
		b.Stop(at)
	}
}

// Bank returns the bank at index, or nil when out of range.
func (v *Voice) Bank(index int) *OscillatorBank {
	if index < 0 || index >= len(v.banks) {
		return nil
	}
	return v.banks[index]
}

// OscillatorAt returns the oscillator at partialIndex inside the bank at
// bankIndex, or nil when either index is out of range.
func (v *Voice) OscillatorAt(bankIndex int, partialIndex int) *Oscillator {
	b := v.Bank(bankIndex)
	if b == nil {
		return nil
	}
	return b.Oscillator(partialIndex)
}

// Update reconciles the owned banks against a new spectrum, with the same
// prefix-update / fixed-index-removal / tail-append shape the banks use for
// their partials.
func (v *Voice) Update(spectrum Spectrum) {
	if v.state == stateUsed {
		return
	}
	common := len(v.banks)
	if len(spectrum) < common {
		common = len(spectrum)
	}
	for i := 0; i < common; i++ {
		v.banks[i].Update(spectrum[i])
	}
	for i := len(v.banks); i > len(spectrum); i-- {
		b := v.banks[common]
		v.banks = append(v.banks[:common], v.banks[common+1:]...)
		b.Destroy()
	}
	for i := common; i < len(spectrum); i++ {
		b := NewOscillatorBank(v.graph, spectrum[i].Partials, v.gain)
		if v.state == statePlaying {
			b.Play(v.pitch, v.graph.Now())
		}
		v.banks = append(v.banks, b)
	}
}

// SetGain ramps the voice's gain exponentially to value starting at `at`.
// Exponential ramps cannot reach zero, so a zero target becomes a tiny
// positive floor.
func (v *Voice) SetGain(value float64, at float64) {
	if value < valueEpsilon {
		value = valueEpsilon
	}
	v.gain.Gain().ExponentialRampToValueAtTime(value, at)
}

// UpdateADSR replaces the envelope parameters. Ramps already scheduled keep
// playing out unchanged.
func (v *Voice) UpdateADSR(adsr ADSR) {
	v.adsr = adsr
}

// ADSR ...
func (v *Voice) ADSR() ADSR {
	return v.adsr
}

// Banks ...
func (v *Voice) Banks() int {
	return len(v.banks)
}

// Oscillators flattens every oscillator across every bank in bank-major
// order.
func (v *Voice) Oscillators() []*Oscillator {
	oscillators := make([]*Oscillator, 0, len(v.banks))
	for _, b := range v.banks {
		for i := 0; i < b.Len(); i++ {
			oscillators = append(oscillators, b.Oscillator(i))
		}
	}
	return oscillators
}

// Destroy permanently retires the voice: every bank is destroyed and the
// gain stage disconnected. Any later Play or Update is a no-op. Destroy
// itself may be called repeatedly.
func (v *Voice) Destroy() {
	if v.state == stateUsed {
		return
	}
	v.state = stateUsed
	for _, b := range v.banks {
		b.Destroy()
	}
	v.gain.Disconnect()
}
