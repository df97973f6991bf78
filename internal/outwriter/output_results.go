package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
)

// PrintAuditResults outputs audit results, dispatching based on the output
// format configured.
func PrintAuditResults(results []schema.AuditResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeResultJSON(results, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeResultCSV(results, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeResultTable(results, cfg, fmtFloat, intFmt, duration, w)
		}, "table")
	}
	return nil
}

// writeResultJSON handles opening the file and calling the JSON writer.
func writeResultJSON(results []schema.AuditResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, results)
	}, "JSON")
}

// writeResultCSV handles opening the file and calling the CSV writer.
func writeResultCSV(results []schema.AuditResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, auditCSVHeader, csvRowWriter(results))
	}, "CSV")
}

// scoreCell renders a composite score for table display. A fully degraded
// result has no measurement behind its zero, so it renders as a sentinel
// instead of a number.
func scoreCell(r *schema.AuditResult, fmtFloat func(float64) string) string {
	if r.FullyDegraded {
		return "N/A"
	}
	return fmtFloat(r.CompositeScore)
}

// labelCell renders the band label, colored or plain.
func labelCell(r *schema.AuditResult, useColors bool) string {
	if useColors {
		return contract.GetColorLabel(r.CompositeScore, r.FullyDegraded)
	}
	return contract.GetPlainLabel(r.CompositeScore, r.FullyDegraded)
}

// writeResultTable generates and writes the human-readable report: the
// scoreboard table followed by a detail block per page.
func writeResultTable(results []schema.AuditResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Market", "Page", "URL", "Score", "Label", "Crit", "Ser", "Err", "Contrast"}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	urlWidth := GetMaxTableURLWidth(cfg)
	var data [][]string
	for i := range results {
		r := &results[i]
		data = append(data, []string{
			r.Market,
			r.PageLabel,
			contract.TruncateURL(r.URL, urlWidth),
			scoreCell(r, fmtFloat),
			labelCell(r, cfg.UseColors),
			fmt.Sprintf(intFmt, r.CriticalCount),
			fmt.Sprintf(intFmt, r.SeriousCount),
			fmt.Sprintf(intFmt, r.StructuralErrors),
			fmt.Sprintf(intFmt, r.ContrastIssues),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for i := range results {
		if err := writeResultDetail(writer, &results[i], fmtFloat); err != nil {
			return err
		}
	}

	degraded := 0
	for i := range results {
		if results[i].Degraded {
			degraded++
		}
	}
	if _, err := fmt.Fprintf(writer, "\nAudited %d pages (%d degraded)\n", len(results), degraded); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Audit completed in %v with %d workers. Store backend: %s\n", duration.Round(time.Millisecond), cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeResultDetail prints the per-page block: component scores, top
// failed sub-checks, itemized findings, and recommendations.
func writeResultDetail(w io.Writer, r *schema.AuditResult, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "\n%s / %s (%s)\n", r.Market, r.PageLabel, r.URL); err != nil {
		return err
	}

	for _, cs := range r.ComponentScores {
		if cs.Available {
			fmt.Fprintf(w, "  %-16s %s (weight %.2f)\n", cs.Source, fmtFloat(cs.Score), cs.Weight)
		} else {
			fmt.Fprintf(w, "  %-16s unavailable\n", cs.Source)
		}
	}

	if len(r.TopFailed) > 0 {
		fmt.Fprintln(w, "  Top failed checks:")
		for _, title := range r.TopFailed {
			fmt.Fprintf(w, "    - %s\n", title)
		}
	}

	if len(r.Findings) > 0 {
		fmt.Fprintf(w, "  Findings (showing %d of %d):\n", len(r.Findings), r.TotalFindings)
		for _, f := range r.Findings {
			fmt.Fprintf(w, "    [%s] %s: %s (%d elements, %s)\n",
				f.Severity, f.RuleID, f.Description, f.ElementCount, f.Criterion)
			if f.Advice != "" {
				fmt.Fprintf(w, "      Advice: %s\n", f.Advice)
			}
		}
	}

	fmt.Fprintln(w, "  Recommendations:")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(w, "    - %s\n", rec)
	}
	return nil
}

// PrintTargets outputs the resolved audit batch.
func PrintTargets(targets []schema.AuditTarget, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, targets)
		}, "JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"market", "page", "url"}, func(cw *csv.Writer) error {
				for _, t := range targets {
					if err := cw.Write([]string{t.Market, t.PageLabel, t.URL}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"#", "Market", "Page", "URL"})
			var data [][]string
			for i, t := range targets {
				data = append(data, []string{strconv.Itoa(i + 1), t.Market, t.PageLabel, t.URL})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "%d targets in batch\n", len(targets))
			return err
		}, "table")
	}
}
