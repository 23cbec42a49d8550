package audio

import (
	"encoding/json"
	"log"
	"strconv"
)

// ----- ADSR ----- //

/*
  v +     x
    |    / \
  s +   /   `x------x
    |  /             \
    | /               \
  0 +-----+---+------+---
    |a    |d  |      |r |
*/

// ADSR shapes a voice's gain over time. Attack, Decay and Release are
// durations in seconds; Sustain is a 0-1 fraction of the peak.
type ADSR struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// ----- ADSR Params ----- //

type adsrParams struct {
	attack  float64 // sec
	decay   float64 // sec
	sustain float64 // 0-1
	release float64 // sec
}
type adsrJSON struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

func (a *adsrParams) applyJSON(data json.RawMessage) {
	var j adsrJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to adsrParams")
		return
	}
	a.attack = j.Attack
	a.decay = j.Decay
	a.sustain = j.Sustain
	a.release = j.Release
}
func (a *adsrParams) toJSON() json.RawMessage {
	return toRawMessage(&adsrJSON{
		Attack:  a.attack,
		Decay:   a.decay,
		Sustain: a.sustain,
		Release: a.release,
	})
}
func (a *adsrParams) set(key string, value string) error {
	switch key {
	case "attack":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.attack = value
	case "decay":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.decay = value
	case "sustain":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.sustain = value
	case "release":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.release = value
	}
	return nil
}

func (a *adsrParams) toADSR() ADSR {
	return ADSR{
		Attack:  a.attack,
		Decay:   a.decay,
		Sustain: a.sustain,
		Release: a.release,
	}
}
