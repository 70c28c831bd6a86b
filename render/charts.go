package render

import (
	"fmt"
	"io"
	"strings"
)

// barWidth is the character width of a full chart bar.
const barWidth = 40

// sparkRunes map normalized values to block heights, lowest to highest.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// writeBar draws one labeled horizontal bar for a 0-100 value.
func writeBar(w io.Writer, label string, value float64) {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	filled := int(value/100*barWidth + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	fmt.Fprintf(w, "  %-12s %s %s\n", label, bar, formatPercent(value))
}

// writeSparkline draws a series as a single line of block characters,
// normalized to the series' own min/max.
func writeSparkline(w io.Writer, series []float64) {
	if len(series) == 0 {
		return
	}

	min, max := series[0], series[0]
	for _, v := range series {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var b strings.Builder
	for _, v := range series {
		idx := 0
		if max > min {
			idx = int((v - min) / (max - min) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	fmt.Fprintf(w, "  %s\n", b.String())
}
