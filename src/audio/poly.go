package audio

import "log"

// ----- Voice Allocator ----- //

// releasedVoice parks a released voice until its release tail has played
// out; only then may it be pooled for reuse.
type releasedVoice struct {
	voice  *Voice
	freeAt float64
}

// voiceAllocator maps MIDI-style notes to voices. Active voices are keyed by
// note; released ones wait for their tail, then return to the pool. The
// allocator is the component that tracks release completion, since voices do
// not retire themselves.
type voiceAllocator struct {
	graph    Graph
	dest     GainNode
	newID    func() string
	active   map[int]*Voice
	released []releasedVoice
	pooled   []*Voice
}

func newVoiceAllocator(graph Graph, dest GainNode) *voiceAllocator {
	return &voiceAllocator{
		graph:  graph,
		dest:   dest,
		active: make(map[int]*Voice),
	}
}

func (va *voiceAllocator) noteOn(note int, velocity float64, spectrum Spectrum, adsr ADSR) {
	now := va.graph.Now()
	va.reap(now)
	if v, ok := va.active[note]; ok {
		// retrigger on the same note reuses the sounding voice
		v.UpdateADSR(adsr)
		v.Update(spectrum)
		v.Play(noteToFreq(note), velocity, now)
		return
	}
	if len(va.active)+len(va.released) >= maxPoly {
		log.Println("maxPoly exceeded")
		return
	}
	var v *Voice
	if n := len(va.pooled); n > 0 {
		v = va.pooled[n-1]
		va.pooled = va.pooled[:n-1]
		v.UpdateADSR(adsr)
		v.Update(spectrum)
	} else {
		v = NewVoice(VoiceConfig{
			Spectrum:    spectrum,
			ADSR:        adsr,
			Graph:       va.graph,
			Destination: va.dest,
			NewID:       va.newID,
		})
	}
	va.active[note] = v
	v.Play(noteToFreq(note), velocity, now)
}

func (va *voiceAllocator) noteOff(note int) {
	v, ok := va.active[note]
	if !ok {
		return
	}
	now := va.graph.Now()
	v.Release(now)
	delete(va.active, note)
	va.released = append(va.released, releasedVoice{voice: v, freeAt: now + v.ADSR().Release})
	va.reap(now)
}

// reap moves voices whose release tail has fully played back into the pool.
func (va *voiceAllocator) reap(now float64) {
	kept := va.released[:0]
	for _, r := range va.released {
		if now >= r.freeAt {
			r.voice.Stop(now)
			va.pooled = append(va.pooled, r.voice)
		} else {
			kept = append(kept, r)
		}
	}
	va.released = kept
}

func (va *voiceAllocator) destroy() {
	for note, v := range va.active {
		v.Destroy()
		delete(va.active, note)
	}
	for _, r := range va.released {
		r.voice.Destroy()
	}
	va.released = nil
	for _, v := range va.pooled {
		v.Destroy()
	}
	va.pooled = nil
}

func (va *voiceAllocator) voiceCount() int {
	return len(va.active) + len(va.released) + len(va.pooled)
}
