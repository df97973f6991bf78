package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pagewatch/a11ymon/schema"
)

// auditCSVHeader is the canonical column set. ParseAuditCSV reads exactly
// this layout back, so exports survive a round trip through spreadsheets.
var auditCSVHeader = []string{
	"market",
	"page",
	"url",
	"composite_score",
	"degraded",
	"fully_degraded",
	"page_quality_score",
	"page_quality_weight",
	"structural_score",
	"structural_weight",
	"rule_engine_score",
	"rule_engine_weight",
	"critical",
	"serious",
	"moderate",
	"minor",
	"total_findings",
	"structural_errors",
	"contrast_issues",
	"recommendations",
	"deploy_version",
	"timestamp",
}

// csvRowWriter returns a row writer over the results. Scores use full
// float precision rather than display precision so re-imported reports
// carry the same numbers.
func csvRowWriter(results []schema.AuditResult) func(*csv.Writer) error {
	return func(w *csv.Writer) error {
		for i := range results {
			if err := w.Write(auditCSVRow(&results[i])); err != nil {
				return err
			}
		}
		return nil
	}
}

func auditCSVRow(r *schema.AuditResult) []string {
	pqScore, pqWeight := componentCells(r, schema.SourcePageQuality)
	ssScore, ssWeight := componentCells(r, schema.SourceStructuralScan)
	reScore, reWeight := componentCells(r, schema.SourceRuleEngine)

	return []string{
		r.Market,
		r.PageLabel,
		r.URL,
		formatFloat(r.CompositeScore),
		strconv.FormatBool(r.Degraded),
		strconv.FormatBool(r.FullyDegraded),
		pqScore, pqWeight,
		ssScore, ssWeight,
		reScore, reWeight,
		strconv.Itoa(r.CriticalCount),
		strconv.Itoa(r.SeriousCount),
		strconv.Itoa(r.ModerateCount),
		strconv.Itoa(r.MinorCount),
		strconv.Itoa(r.TotalFindings),
		strconv.Itoa(r.StructuralErrors),
		strconv.Itoa(r.ContrastIssues),
		strings.Join(r.Recommendations, schema.RecSeparator),
		r.DeployVersion,
		r.Timestamp.UTC().Format(time.RFC3339),
	}
}

// componentCells renders one source's score and weight, or empty cells
// when the source was absent or unavailable.
func componentCells(r *schema.AuditResult, source schema.SignalSource) (string, string) {
	cs, ok := r.ComponentScoreFor(source)
	if !ok || !cs.Available {
		return "", ""
	}
	return formatFloat(cs.Score), formatFloat(cs.Weight)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseAuditCSV reads results back from the canonical CSV layout. It is
// the inverse of the CSV writer for everything the CSV carries; itemized
// findings and top failed checks only live in the JSON format.
func ParseAuditCSV(r io.Reader) ([]schema.AuditResult, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	if len(header) != len(auditCSVHeader) || header[0] != auditCSVHeader[0] {
		return nil, fmt.Errorf("unrecognized CSV layout: expected %d columns starting with %q", len(auditCSVHeader), auditCSVHeader[0])
	}

	var results []schema.AuditResult
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV record: %w", err)
		}

		result, err := parseAuditRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func parseAuditRow(record []string) (schema.AuditResult, error) {
	var r schema.AuditResult
	if len(record) != len(auditCSVHeader) {
		return r, fmt.Errorf("expected %d fields, got %d", len(auditCSVHeader), len(record))
	}

	r.Market = record[0]
	r.PageLabel = record[1]
	r.URL = record[2]

	var err error
	if r.CompositeScore, err = strconv.ParseFloat(record[3], 64); err != nil {
		return r, fmt.Errorf("composite_score: %w", err)
	}
	if r.Degraded, err = strconv.ParseBool(record[4]); err != nil {
		return r, fmt.Errorf("degraded: %w", err)
	}
	if r.FullyDegraded, err = strconv.ParseBool(record[5]); err != nil {
		return r, fmt.Errorf("fully_degraded: %w", err)
	}

	sources := []schema.SignalSource{
		schema.SourcePageQuality,
		schema.SourceStructuralScan,
		schema.SourceRuleEngine,
	}
	for i, source := range sources {
		scoreCell, weightCell := record[6+i*2], record[7+i*2]
		if scoreCell == "" {
			continue
		}
		cs := schema.ComponentScore{Source: source, Available: true}
		if cs.Score, err = strconv.ParseFloat(scoreCell, 64); err != nil {
			return r, fmt.Errorf("%s score: %w", source, err)
		}
		if cs.Weight, err = strconv.ParseFloat(weightCell, 64); err != nil {
			return r, fmt.Errorf("%s weight: %w", source, err)
		}
		r.ComponentScores = append(r.ComponentScores, cs)
	}

	counts := []*int{
		&r.CriticalCount, &r.SeriousCount, &r.ModerateCount, &r.MinorCount,
		&r.TotalFindings, &r.StructuralErrors, &r.ContrastIssues,
	}
	for i, dst := range counts {
		if *dst, err = strconv.Atoi(record[12+i]); err != nil {
			return r, fmt.Errorf("%s: %w", auditCSVHeader[12+i], err)
		}
	}

	if record[19] != "" {
		r.Recommendations = strings.Split(record[19], schema.RecSeparator)
	}
	r.DeployVersion = record[20]

	if record[21] != "" {
		if r.Timestamp, err = time.Parse(time.RFC3339, record[21]); err != nil {
			return r, fmt.Errorf("timestamp: %w", err)
		}
	}
	return r, nil
}

// ReadAuditCSVFile loads a previously exported CSV report from disk.
func ReadAuditCSVFile(path string) ([]schema.AuditResult, error) {
	if path == "" {
		return nil, fmt.Errorf("no input file given")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return ParseAuditCSV(file)
}
