package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"sync"

	"github.com/hajimehoshi/oto"
)

const (
	sampleRate      = 48000
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
	fftSize         = 2048 // multiple of samplesPerCycle
	maxPoly         = 128
	maxPartials     = 128
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096
const secPerSample = 1.0 / sampleRate
const baseFreq = 442.0
const valueEpsilon = 1e-4

// ----- Utility ----- //

func noteToFreq(note int) float64 {
	return baseFreq * math.Pow(2, float64(note-69)/12)
}
func toRawMessage(v interface{}) json.RawMessage {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(bytes)
}

// ----- Changes ----- //

// Changes ...
type Changes struct {
	sync.Mutex
	dict map[string]struct{}
}

// Add ...
func (c *Changes) Add(key string) {
	c.Lock()
	c.dict[key] = struct{}{}
	c.Unlock()
}

// Has ...
func (c *Changes) Has(key string) bool {
	c.Lock()
	_, ok := c.dict[key]
	c.Unlock()
	return ok
}

// Delete ...
func (c *Changes) Delete(key string) {
	c.Lock()
	delete(c.dict, key)
	c.Unlock()
}

// ----- State ----- //

type state struct {
	sync.Mutex
	graph   *Context
	params  *params
	voices  *voiceAllocator
	presets *presetManager
	out     []float64 // length: fftSize
	pos     int64
}

func newState() *state {
	graph := NewContext()
	params := newParams()
	graph.Destination().Gain().SetValue(params.gain)
	return &state{
		graph:   graph,
		params:  params,
		voices:  newVoiceAllocator(graph, graph.Destination()),
		presets: newPresetManager("presets"),
		out:     make([]float64, fftSize),
	}
}

// ----- Audio ----- //

// Audio renders the voice graph into an oto player and applies commands
// coming in over CommandCh.
type Audio struct {
	ctx        context.Context
	otoContext *oto.Context
	CommandCh  chan []string
	state      *state
	Changes    *Changes
	analyzer   *analyzer
}

var _ io.Reader = (*Audio)(nil)

type audioJSON struct {
	Params json.RawMessage `json:"params"`
}

// ApplyJSON ...
func (a *Audio) ApplyJSON(data []byte) {
	a.state.Lock()
	defer a.state.Unlock()
	var j audioJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to Audio", err)
		return
	}
	a.state.params.applyJSON(j.Params)
	a.applyParams()
}

// ToJSON ...
func (a *Audio) ToJSON() []byte {
	a.state.Lock()
	defer a.state.Unlock()
	bytes, err := json.Marshal(a.toJSON())
	if err != nil {
		panic(err)
	}
	return bytes
}

func (a *Audio) toJSON() json.RawMessage {
	return toRawMessage(&audioJSON{
		Params: a.state.params.toJSON(),
	})
}

func (a *Audio) Read(buf []byte) (int, error) {
	select {
	case <-a.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
		a.state.Lock()
		defer a.state.Unlock()
		bufSamples := int64(len(buf) / bytesPerSample)
		offset := a.state.pos % fftSize
		out := a.state.out[offset : offset+bufSamples]
		a.state.graph.render(out)
		writeBuffer(a.state.out, offset, buf, 0)
		writeBuffer(a.state.out, offset, buf, 1)
		a.state.pos += bufSamples
		return len(buf), nil
	}
}

func writeBuffer(out []float64, outOffset int64, buf []byte, ch int) {
	sampleLength := int(len(buf) / bytesPerSample)
	for i := 0; i < sampleLength; i++ {
		value := out[outOffset+int64(i)]
		switch bitDepthInBytes {
		case 1:
			const max = 127
			b := int(value * max)
			buf[bytesPerSample*i+ch] = byte(b + 128)
		case 2:
			const max = 32767
			b := int16(value * max)
			buf[bytesPerSample*i+2*ch] = byte(b)
			buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
		}
	}
}

// newAudio builds an Audio without an output device; NewAudio attaches oto.
func newAudio() *Audio {
	return &Audio{
		ctx:       context.Background(),
		CommandCh: make(chan []string, 256),
		state:     newState(),
		Changes: &Changes{
			dict: make(map[string]struct{}),
		},
		analyzer: newAnalyzer(fftSize),
	}
}

// NewAudio ...
func NewAudio() (*Audio, error) {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return nil, err
	}
	audio := newAudio()
	audio.otoContext = otoContext
	go processCommands(audio, audio.CommandCh)
	return audio, nil
}

func processCommands(audio *Audio, commandCh <-chan []string) {
	for command := range commandCh {
		err := audio.update(command)
		if err != nil {
			log.Printf("command error: %v\n", err)
		}
	}
	log.Println("processCommands() ended.")
}

func (a *Audio) update(command []string) error {
	a.state.Lock()
	defer a.state.Unlock()

	switch command[0] {
	case "set":
		command = command[1:]
		if len(command) == 0 {
			return fmt.Errorf("missing set target")
		}
		switch command[0] {
		case "gain":
			command = command[1:]
			if len(command) != 1 {
				return fmt.Errorf("invalid value %v", command)
			}
			err := a.state.params.set("gain", command[0])
			if err != nil {
				return err
			}
			a.applyParams()
		case "adsr":
			command = command[1:]
			if len(command) != 2 {
				return fmt.Errorf("invalid key-value pair %v", command)
			}
			err := a.state.params.adsrParams.set(command[0], command[1])
			if err != nil {
				return err
			}
		case "spectrum":
			command = command[1:]
			if len(command) != 2 || command[0] != "layers" {
				return fmt.Errorf("invalid key-value pair %v", command)
			}
			layers, err := strconv.ParseInt(command[1], 10, 64)
			if err != nil {
				return err
			}
			a.state.params.spectrumParams.resize(int(layers))
		case "partial":
			command = command[1:]
			if len(command) != 4 {
				return fmt.Errorf("invalid partial command %v", command)
			}
			layer, err := strconv.ParseInt(command[0], 10, 64)
			if err != nil {
				return err
			}
			index, err := strconv.ParseInt(command[1], 10, 64)
			if err != nil {
				return err
			}
			p := a.state.params.spectrumParams.partialAt(int(layer), int(index))
			if p == nil {
				return fmt.Errorf("no such partial %v %v", layer, index)
			}
			err = p.set(command[2], command[3])
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown set target %v", command[0])
		}
		a.Changes.Add("data")
	case "preset":
		if len(command) != 2 {
			return fmt.Errorf("invalid preset command %v", command)
		}
		spectrum, ok := builtinSpectrum(command[1])
		if ok {
			a.state.params.spectrumParams.applySpectrum(spectrum)
		} else {
			err := a.state.presets.applyToParams(command[1], a.state.params)
			if err != nil {
				return err
			}
			a.applyParams()
		}
		a.Changes.Add("data")
	case "note_on":
		if len(command) < 2 {
			return fmt.Errorf("invalid note_on command %v", command)
		}
		note, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		velocity := 1.0
		if len(command) > 2 {
			velocity, err = strconv.ParseFloat(command[2], 64)
			if err != nil {
				return err
			}
		}
		a.noteOn(int(note), velocity)
	case "note_off":
		if len(command) != 2 {
			return fmt.Errorf("invalid note_off command %v", command)
		}
		note, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		a.state.voices.noteOff(int(note))
	case "render":
		if len(command) != 3 {
			return fmt.Errorf("invalid render command %v", command)
		}
		seconds, err := strconv.ParseFloat(command[2], 64)
		if err != nil {
			return err
		}
		return a.renderToFile(command[1], seconds)
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
	return nil
}

// noteOn assumes the state lock is held.
func (a *Audio) noteOn(note int, velocity float64) {
	a.state.voices.noteOn(
		note,
		velocity,
		a.state.params.spectrumParams.toSpectrum(),
		a.state.params.adsrParams.toADSR(),
	)
}

// applyParams pushes non-voice params into the graph. Voice-level params
// (spectrum, adsr) are snapshotted per note-on instead.
func (a *Audio) applyParams() {
	a.state.graph.Destination().Gain().SetValue(a.state.params.gain)
}

// Close ...
func (a *Audio) Close() error {
	log.Println("Closing Audio...")
	close(a.CommandCh)
	a.state.Lock()
	a.state.voices.destroy()
	a.state.Unlock()
	if a.otoContext == nil {
		return nil
	}
	return a.otoContext.Close()
}

// Start ...
func (a *Audio) Start(ctx context.Context) error {
	p := a.otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	a.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, a, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

// GetFFT ...
func (a *Audio) GetFFT() []float64 {
	a.state.Lock()
	// out:       | 4 | 1 | 2 | 3 |
	// offset:        ^
	// input:     | 1 | 2 | 3 | 4 |
	offset := a.state.pos % fftSize
	a.analyzer.fill(a.state.out, offset)
	a.state.Unlock()
	return a.analyzer.magnitudes()
}

// AddMidiEvent ...
func (a *Audio) AddMidiEvent(data []byte) {
	a.state.Lock()
	defer a.state.Unlock()
	if len(data) < 3 {
		return
	}
	if data[0]>>4 == 8 || data[0]>>4 == 9 && data[2] == 0 {
		log.Printf("got note-off: %v\n", data)
		a.state.voices.noteOff(int(data[1]))
	} else if data[0]>>4 == 9 && data[2] > 0 {
		log.Printf("got note-on: %v\n", data)
		a.noteOn(int(data[1]), float64(data[2])/127.0)
	}
}
