// Package extract pulls named percentage metrics out of evaluation log text.
//
// Evaluation logs are free text; everything before the result marker line is
// training chatter and is ignored. After the marker, metrics appear as
// "* <name>: <value>%" lines.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ResultMarker arms metric extraction. Lines before it are never matched.
const ResultMarker = "=> result"

// MetricNames are the metric labels recognized after the marker. Accuracy is
// the primary metric; the rest are optional and widen the ledger schema when
// they appear.
var MetricNames = []string{"accuracy", "precision", "recall", "f1_score", "balanced_accuracy"}

// MetricSet maps a metric name to its percentage value.
type MetricSet map[string]float64

var metricPatterns = compilePatterns()

func compilePatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(MetricNames))
	for _, name := range MetricNames {
		patterns[name] = regexp.MustCompile(fmt.Sprintf(`\* %s: ([\d.eE+-]+)%%`, name))
	}
	return patterns
}

// Extract scans log text for the result marker and returns the metrics
// reported after it. Only the first value per metric name is trusted; later
// duplicate blocks (retries) are ignored. Returns an empty set when the
// marker is absent or nothing recognizable follows it — the caller must
// treat that as unmeasured, not zero.
func Extract(text string) MetricSet {
	metrics := MetricSet{}
	armed := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == ResultMarker {
			armed = true
			continue
		}
		if !armed {
			continue
		}
		for _, name := range MetricNames {
			if _, seen := metrics[name]; seen {
				continue
			}
			m := metricPatterns[name].FindStringSubmatch(line)
			if m == nil {
				continue
			}
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			metrics[name] = v
		}
	}
	return metrics
}
