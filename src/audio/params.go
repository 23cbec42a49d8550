package audio

import (
	"encoding/json"
	"log"
	"strconv"
)

type params struct {
	gain           float64 // master, 0-1
	spectrumParams *spectrumParams
	adsrParams     *adsrParams
}

func newParams() *params {
	sp := &spectrumParams{}
	sp.applySpectrum(sawSpectrum)
	return &params{
		gain:           0.1,
		spectrumParams: sp,
		adsrParams:     &adsrParams{attack: 0.01, decay: 0.1, sustain: 0.7, release: 0.2},
	}
}

type paramsJSON struct {
	Gain     float64         `json:"gain"`
	Spectrum json.RawMessage `json:"spectrum"`
	Adsr     json.RawMessage `json:"adsr"`
}

func (p *params) applyJSON(data json.RawMessage) {
	var j paramsJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to params")
		return
	}
	p.gain = j.Gain
	p.spectrumParams.applyJSON(j.Spectrum)
	p.adsrParams.applyJSON(j.Adsr)
}
func (p *params) toJSON() json.RawMessage {
	return toRawMessage(&paramsJSON{
		Gain:     p.gain,
		Spectrum: p.spectrumParams.toJSON(),
		Adsr:     p.adsrParams.toJSON(),
	})
}
func (p *params) set(key string, value string) error {
	switch key {
	case "gain":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.gain = value
	}
	return nil
}
