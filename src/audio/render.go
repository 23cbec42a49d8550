package audio

import (
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// renderToFile bounces the next `seconds` of the graph to a 16-bit mono WAV
// file. It borrows the graph clock, so anything scheduled (running notes,
// pending ramps) plays into the bounce exactly as it would have played live.
// Assumes the state lock is held.
func (a *Audio) renderToFile(path string, seconds float64) error {
	samples := int(seconds * sampleRate)
	buf := make([]float64, samplesPerCycle)
	data := make([]int, 0, samples)
	for rendered := 0; rendered < samples; {
		n := samples - rendered
		if n > samplesPerCycle {
			n = samplesPerCycle
		}
		a.state.graph.render(buf[:n])
		for _, value := range buf[:n] {
			if value > 1 {
				value = 1
			}
			if value < -1 {
				value = -1
			}
			data = append(data, int(value*32767))
		}
		rendered += n
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	e := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	err = e.Write(&goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	})
	if err != nil {
		return err
	}
	return e.Close()
}
