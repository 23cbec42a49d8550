package audio

import (
	"encoding/json"
	"log"
	"math"
	"strconv"
)

// ----- Spectrum ----- //

// Partial is one sinusoidal component of a spectral layer. Rate is a
// frequency ratio applied to the played pitch; playing at pitch 1.0 makes
// rates absolute Hz.
type Partial struct {
	Rate      float64
	Amplitude float64 // 0-1
	Phase     float64 // radians
}

// SpectralLayer is the harmonic content of one oscillator bank.
type SpectralLayer struct {
	Partials []Partial
}

// Spectrum is the full ordered set of layers composing one voice's timbre.
type Spectrum []SpectralLayer

// harmonicSpectrum builds a single-layer spectrum of n partials with
// amplitude(k) for the k-th harmonic (k starts at 1). A zero amplitude
// skips the harmonic.
func harmonicSpectrum(n int, amplitude func(k int) float64) Spectrum {
	partials := make([]Partial, 0, n)
	for k := 1; k <= n; k++ {
		a := amplitude(k)
		if a == 0 {
			continue
		}
		partials = append(partials, Partial{Rate: float64(k), Amplitude: a})
	}
	return Spectrum{{Partials: partials}}
}

// ----- Spectrum Params ----- //

type partialParams struct {
	rate      float64
	amplitude float64
	phase     float64
}
type partialJSON struct {
	Rate      float64 `json:"rate"`
	Amplitude float64 `json:"amplitude"`
	Phase     float64 `json:"phase"`
}

func (p *partialParams) applyJSON(data json.RawMessage) {
	var j partialJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to partialParams")
		return
	}
	p.rate = j.Rate
	p.amplitude = j.Amplitude
	p.phase = j.Phase
}
func (p *partialParams) toJSON() json.RawMessage {
	return toRawMessage(&partialJSON{
		Rate:      p.rate,
		Amplitude: p.amplitude,
		Phase:     p.phase,
	})
}
func (p *partialParams) set(key string, value string) error {
	switch key {
	case "rate":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.rate = value
	case "amplitude":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.amplitude = value
	case "phase":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.phase = math.Mod(value, 2.0*math.Pi)
	}
	return nil
}

type layerParams struct {
	partials []*partialParams
}
type layerJSON struct {
	Partials []json.RawMessage `json:"partials"`
}

func (l *layerParams) applyJSON(data json.RawMessage) {
	var j layerJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to layerParams")
		return
	}
	l.partials = make([]*partialParams, len(j.Partials))
	for i, data := range j.Partials {
		l.partials[i] = &partialParams{}
		l.partials[i].applyJSON(data)
	}
}
func (l *layerParams) toJSON() json.RawMessage {
	partialJsons := make([]json.RawMessage, len(l.partials))
	for i, p := range l.partials {
		partialJsons[i] = p.toJSON()
	}
	return toRawMessage(&layerJSON{
		Partials: partialJsons,
	})
}

type spectrumParams struct {
	layers []*layerParams
}
type spectrumJSON struct {
	Layers []json.RawMessage `json:"layers"`
}

func (s *spectrumParams) applyJSON(data json.RawMessage) {
	var j spectrumJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to spectrumParams")
		return
	}
	s.layers = make([]*layerParams, len(j.Layers))
	for i, data := range j.Layers {
		s.layers[i] = &layerParams{}
		s.layers[i].applyJSON(data)
	}
}
func (s *spectrumParams) toJSON() json.RawMessage {
	layerJsons := make([]json.RawMessage, len(s.layers))
	for i, l := range s.layers {
		layerJsons[i] = l.toJSON()
	}
	return toRawMessage(&spectrumJSON{
		Layers: layerJsons,
	})
}

// applySpectrum replaces the params with the given spectrum.
func (s *spectrumParams) applySpectrum(spectrum Spectrum) {
	s.layers = make([]*layerParams, len(spectrum))
	for i, layer := range spectrum {
		l := &layerParams{partials: make([]*partialParams, len(layer.Partials))}
		for j, p := range layer.Partials {
			l.partials[j] = &partialParams{rate: p.Rate, amplitude: p.Amplitude, phase: p.Phase}
		}
		s.layers[i] = l
	}
}

// toSpectrum snapshots the params as an immutable spectrum.
func (s *spectrumParams) toSpectrum() Spectrum {
	spectrum := make(Spectrum, len(s.layers))
	for i, l := range s.layers {
		partials := make([]Partial, len(l.partials))
		for j, p := range l.partials {
			partials[j] = Partial{Rate: p.rate, Amplitude: p.amplitude, Phase: p.phase}
		}
		spectrum[i] = SpectralLayer{Partials: partials}
	}
	return spectrum
}

// resize grows or shrinks the layer list; new layers start with a lone
// fundamental so they are audible immediately.
func (s *spectrumParams) resize(n int) {
	for len(s.layers) < n {
		s.layers = append(s.layers, &layerParams{
			partials: []*partialParams{{rate: 1, amplitude: 1}},
		})
	}
	if len(s.layers) > n {
		s.layers = s.layers[:n]
	}
}

// partialAt returns the addressed partial, growing the layer's partial list
// up to the index so `set partial 0 7 rate x` works on a fresh layer.
func (s *spectrumParams) partialAt(layer int, index int) *partialParams {
	if layer < 0 || layer >= len(s.layers) || index < 0 || index >= maxPartials {
		return nil
	}
	l := s.layers[layer]
	for len(l.partials) <= index {
		l.partials = append(l.partials, &partialParams{rate: float64(len(l.partials) + 1)})
	}
	return l.partials[index]
}
