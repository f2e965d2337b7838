package listing

import (
	"bufio"
	"fmt"
	"io"

	"github.com/james-see/k4tool/pkg/k4"
)

// Waves returns every wave in ascending order, named from names when known
func Waves(names k4.WaveNames) []k4.Wave {
	waves := make([]k4.Wave, 0, k4.WaveCount)
	for n := range k4.WaveNumbers() {
		waves = append(waves, names.Wave(n))
	}
	return waves
}

// WriteWaveList writes one line per wave, 1 through 256
func WriteWaveList(w io.Writer, names k4.WaveNames) error {
	bw := bufio.NewWriter(w)
	for n := range k4.WaveNumbers() {
		if _, err := fmt.Fprintln(bw, names.Wave(n)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
