package audio

import (
	"encoding/json"
	"io/ioutil"
)

// ----- Built-in Spectra ----- //

var sineSpectrum = harmonicSpectrum(1, func(k int) float64 {
	return 1
})

var sawSpectrum = harmonicSpectrum(16, func(k int) float64 {
	return 1 / float64(k)
})

var squareSpectrum = harmonicSpectrum(16, func(k int) float64 {
	if k%2 == 0 {
		return 0
	}
	return 1 / float64(k)
})

// organSpectrum layers three octaves, each a short harmonic stack, roughly
// like drawbars 16'/8'/4'.
var organSpectrum = Spectrum{
	{Partials: []Partial{{Rate: 0.5, Amplitude: 0.6}, {Rate: 1.5, Amplitude: 0.2}}},
	{Partials: []Partial{{Rate: 1, Amplitude: 1}, {Rate: 2, Amplitude: 0.4}, {Rate: 3, Amplitude: 0.2}}},
	{Partials: []Partial{{Rate: 4, Amplitude: 0.3}, {Rate: 8, Amplitude: 0.1}}},
}

func builtinSpectrum(name string) (Spectrum, bool) {
	switch name {
	case "sine":
		return sineSpectrum, true
	case "saw":
		return sawSpectrum, true
	case "square":
		return squareSpectrum, true
	case "organ":
		return organSpectrum, true
	}
	return nil, false
}

// ----- Preset Manager ----- //

type presetMetaJSON struct {
	Name string `json:"name"`
}
type presetMetaListJSON struct {
	Items []presetMetaJSON `json:"items"`
}
type presetMeta struct {
	name string
}
type presetData struct {
	list []*presetMeta
}

// presetManager loads named parameter presets (whole params JSON, spectrum
// included) from a directory of JSON files listed in _list.json.
type presetManager struct {
	dir  string
	data *presetData
}

func newPresetManager(dir string) *presetManager {
	return &presetManager{
		dir: dir,
	}
}

func (pm *presetManager) getList() ([]*presetMeta, error) {
	if pm.data == nil {
		err := pm.loadData()
		if err != nil {
			return nil, err
		}
	}
	return pm.data.list, nil
}
func (pm *presetManager) applyToParams(name string, target *params) error {
	path := pm.dir + "/" + name + ".json"
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	target.applyJSON(bytes)
	return nil
}
func (pm *presetManager) loadData() error {
	path := pm.dir + "/_list.json"
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	metaListJSON := &presetMetaListJSON{}
	err = json.Unmarshal(bytes, &metaListJSON)
	if err != nil {
		return err
	}
	if pm.data == nil {
		pm.data = &presetData{list: make([]*presetMeta, 0, 128)}
	}
	pm.data.list = pm.data.list[:0]
	for _, item := range metaListJSON.Items {
		pm.data.list = append(pm.data.list, &presetMeta{name: item.Name})
	}
	return nil
}
