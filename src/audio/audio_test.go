package audio

import (
	"os"
	"testing"

	"github.com/go-audio/wav"
)

func TestUpdateCommands(t *testing.T) {
	a := newAudio()
	expectNoError(t, a.update([]string{"set", "gain", "0.2"}))
	expectNoError(t, a.update([]string{"set", "adsr", "attack", "0.05"}))
	expectNoError(t, a.update([]string{"set", "spectrum", "layers", "2"}))
	expectNoError(t, a.update([]string{"set", "partial", "1", "3", "rate", "4.5"}))
	expectNoError(t, a.update([]string{"preset", "square"}))
	expectNoError(t, a.update([]string{"note_on", "69", "0.8"}))
	expectNoError(t, a.update([]string{"note_off", "69"}))

	if !a.Changes.Has("data") {
		t.Errorf("expected data change to be recorded")
	}
	expectFloat(t, "gain", 0.2, a.state.params.gain)
	expectFloat(t, "attack", 0.05, a.state.params.adsrParams.attack)
}

func TestUpdateRejectsUnknownCommand(t *testing.T) {
	a := newAudio()
	if err := a.update([]string{"explode"}); err == nil {
		t.Errorf("expected an error for unknown command")
	}
	if err := a.update([]string{"set", "nothing", "1"}); err == nil {
		t.Errorf("expected an error for unknown set target")
	}
	if err := a.update([]string{"note_on", "not-a-note"}); err == nil {
		t.Errorf("expected an error for bad note")
	}
}

func TestReadProducesSignalWhilePlaying(t *testing.T) {
	a := newAudio()
	expectNoError(t, a.update([]string{"preset", "saw"}))
	expectNoError(t, a.update([]string{"note_on", "69"}))
	buf := make([]byte, bufferSizeInBytes)
	n, err := a.Read(buf)
	expectNoError(t, err)
	expectInt(t, "read size", bufferSizeInBytes, n)
	silent := true
	for _, b := range buf {
		if b != 0 {
			silent = false
			break
		}
	}
	if silent {
		t.Errorf("expected a non-silent buffer while a note is playing")
	}
}

func TestGetFFT(t *testing.T) {
	a := newAudio()
	expectNoError(t, a.update([]string{"note_on", "69"}))
	buf := make([]byte, bufferSizeInBytes)
	_, err := a.Read(buf)
	expectNoError(t, err)
	result := a.GetFFT()
	expectInt(t, "fft size", fftSize/2, len(result))
}

func TestJSONRoundTrip(t *testing.T) {
	a := newAudio()
	expectNoError(t, a.update([]string{"set", "adsr", "sustain", "0.3"}))
	data := a.ToJSON()

	b := newAudio()
	b.ApplyJSON(data)
	expectFloat(t, "sustain", 0.3, b.state.params.adsrParams.sustain)
	expectInt(t, "layers", len(a.state.params.spectrumParams.layers), len(b.state.params.spectrumParams.layers))
}

func TestRenderCommandWritesWav(t *testing.T) {
	a := newAudio()
	path := t.TempDir() + "/bounce.wav"
	expectNoError(t, a.update([]string{"note_on", "69"}))
	expectNoError(t, a.update([]string{"render", path, "0.1"}))

	f, err := os.Open(path)
	expectNoError(t, err)
	defer f.Close()
	d := wav.NewDecoder(f)
	d.ReadInfo()
	if !d.IsValidFile() {
		t.Fatalf("expected a valid wav file")
	}
	expectInt(t, "sample rate", sampleRate, int(d.SampleRate))
	expectInt(t, "channels", 1, int(d.NumChans))
	pcm, err := d.FullPCMBuffer()
	expectNoError(t, err)
	expectInt(t, "rendered samples", sampleRate/10, len(pcm.Data))
}
