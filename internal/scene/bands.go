package scene

import "github.com/iburimskiy/heart-rain/internal/config"

// Levels are the normalised [0,1] energies of the three bands hearts react to.
type Levels struct {
	Bass, Mid, Treble float64
}

// ReadLevels averages each band of a frequency snapshot. Bins past the end of
// the snapshot count as silence, so a short or empty snapshot degrades to zero.
func ReadLevels(snapshot []uint8, bands config.BandConfig) Levels {
	return Levels{
		Bass:   bandMean(snapshot, bands.Bass),
		Mid:    bandMean(snapshot, bands.Mid),
		Treble: bandMean(snapshot, bands.Treble),
	}
}

func bandMean(snapshot []uint8, r config.BandRange) float64 {
	width := r.End - r.Start
	if width <= 0 {
		return 0
	}
	var sum int
	for i := r.Start; i < r.End && i < len(snapshot); i++ {
		sum += int(snapshot[i])
	}
	return float64(sum) / float64(width) / 255
}
