package audio

import (
	"math/cmplx"

	"github.com/ktye/fft"
)

// ----- Analyzer ----- //

// analyzer turns the master output ring into magnitude spectra.
type analyzer struct {
	fft    fft.FFT
	input  []float64
	buf    []complex128
	result []float64
}

func newAnalyzer(size int) *analyzer {
	f, err := fft.New(size)
	if err != nil {
		panic(err)
	}
	return &analyzer{
		fft:    f,
		input:  make([]float64, size),
		buf:    make([]complex128, size),
		result: make([]float64, size/2),
	}
}

// fill unrolls the ring buffer so the oldest sample comes first.
func (an *analyzer) fill(ring []float64, offset int64) {
	copy(an.input, ring[offset:])
	copy(an.input[int64(len(ring))-offset:], ring[:offset])
}

// magnitudes windows the captured input and returns the first half of the
// normalized magnitude spectrum.
func (an *analyzer) magnitudes() []float64 {
	size := len(an.input)
	han(an.input)
	for i, value := range an.input {
		an.buf[i] = complex(value, 0)
	}
	an.buf = an.fft.Transform(an.buf)
	for i := range an.result {
		an.result[i] = cmplx.Abs(an.buf[i]) * 2 / float64(size)
	}
	return an.result
}
