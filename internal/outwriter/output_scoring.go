package outwriter

import (
	"fmt"
	"io"

	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
)

// scoringRules is the JSON/CSV-friendly view of the active scoring setup.
type scoringRules struct {
	Weights   map[schema.SignalSource]float64 `json:"weights"`
	Penalties schema.PenaltyWeights           `json:"penalties"`
	Bands     []scoringBand                   `json:"bands"`
}

type scoringBand struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
}

func activeBands() []scoringBand {
	return []scoringBand{
		{Label: contract.ExcellentValue, Min: 95},
		{Label: contract.GoodValue, Min: 90},
		{Label: contract.FairValue, Min: 80},
		{Label: contract.NeedsWorkValue, Min: 60},
		{Label: contract.CriticalValue, Min: 0},
	}
}

// PrintScoringRules outputs the active weights, penalties, and score bands.
func PrintScoringRules(cfg *contract.Config) error {
	rules := scoringRules{
		Weights:   cfg.SourceWeights,
		Penalties: cfg.Penalties,
		Bands:     activeBands(),
	}

	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rules)
		}, "JSON")
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		fmt.Fprintln(w, "Composite weights (renormalized over available sources):")
		for _, source := range schema.AllSignalSources {
			fmt.Fprintf(w, "  %-16s %.2f\n", source, rules.Weights[source])
		}

		fmt.Fprintln(w, "\nPenalties:")
		fmt.Fprintf(w, "  structural error   -%.2f per error\n", rules.Penalties.StructuralError)
		fmt.Fprintf(w, "  contrast issue     -%.2f per issue\n", rules.Penalties.Contrast)
		fmt.Fprintf(w, "  critical violation -%.2f per violation\n", rules.Penalties.Critical)
		fmt.Fprintf(w, "  serious violation  -%.2f per violation\n", rules.Penalties.Serious)

		fmt.Fprintln(w, "\nScore bands:")
		for _, band := range rules.Bands {
			fmt.Fprintf(w, "  %-12s >= %.0f\n", band.Label, band.Min)
		}
		return nil
	}, "scoring rules")
}
