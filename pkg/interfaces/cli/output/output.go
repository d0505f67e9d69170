package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vsinha/factorysim/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool

	// Writer receives stdout output; nil means os.Stdout
	Writer io.Writer
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stdout
	}
	return c.Writer
}

// Generate creates output in the specified format
func Generate(outcome *dto.Outcome, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(outcome, config)
	case "json":
		return generateJSONOutput(outcome, "outcome.json", config)
	case "csv":
		return generateCSVOutput(outcome, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// GenerateComparison prints both outcomes side by side, or the pair as JSON
func GenerateComparison(comparison *dto.Comparison, config Config) error {
	switch config.Format {
	case "json":
		return generateJSONOutput(comparison, "comparison.json", config)
	case "text", "csv":
		w := config.writer()
		fmt.Fprintf(w, "Strategy Comparison\n")
		fmt.Fprintf(w, "===================\n\n")
		fmt.Fprintf(w, "%-12s %-12s %-12s %-10s %-8s\n", "Strategy", "Income", "Completion", "Trials", "Failed")
		fmt.Fprintf(w, "%-12s %-12s %-12s %-10s %-8s\n", "------------", "------------", "------------", "----------", "--------")
		for _, o := range []*dto.Outcome{comparison.Exhaustive, comparison.Greedy} {
			if o == nil {
				continue
			}
			fmt.Fprintf(w, "%-12s %-12s %-12d %-10d %-8d\n", o.Strategy, o.Income.StringFixed(2), o.CompletionTime, o.Trials, o.FailedTrials)
		}
		fmt.Fprintf(w, "\nIncome gap: %s\n", comparison.IncomeGap().StringFixed(2))
		if best := comparison.Best(); best != nil {
			fmt.Fprintf(w, "Best: %s\n", best.Strategy)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(outcome *dto.Outcome, config Config) error {
	w := config.writer()
	fmt.Fprintf(w, "Schedule Summary (%s)\n", outcome.Strategy)
	fmt.Fprintf(w, "=========================\n\n")

	fmt.Fprintf(w, "Income: %s\n", outcome.Income.StringFixed(2))
	fmt.Fprintf(w, "Completion Time: %d\n", outcome.CompletionTime)
	fmt.Fprintf(w, "Completed: %t\n", outcome.Completed)
	if !outcome.Completed {
		fmt.Fprintf(w, "Remaining Steps: %d\n", outcome.RemainingSteps)
	}
	fmt.Fprintf(w, "Trials: %d (failed %d, best #%d)\n", outcome.Trials, outcome.FailedTrials, outcome.TrialIndex)
	fmt.Fprintf(w, "Search Time: %v\n\n", outcome.Duration)

	if len(outcome.SkippedOrders) > 0 {
		fmt.Fprintf(w, "Skipped Orders: %v\n\n", outcome.SkippedOrders)
	}

	if config.Verbose && len(outcome.Steps) > 0 {
		fmt.Fprintf(w, "%-5s %-28s %-10s %-6s %-16s %-8s %-9s %-9s\n",
			"Seq", "Kind", "Item", "Qty", "Resource", "Driver", "Planned", "Done")
		fmt.Fprintf(w, "%-5s %-28s %-10s %-6s %-16s %-8s %-9s %-9s\n",
			"-----", "----------------------------", "----------", "------", "----------------", "--------", "---------", "---------")
		for _, s := range outcome.Steps {
			done := "-"
			if s.Completed {
				done = strconv.FormatInt(int64(s.CompletedAt), 10)
			}
			fmt.Fprintf(w, "%-5d %-28s %-10s %-6d %-16s %-8s %-9d %-9s\n",
				s.Seq, s.Kind, s.Item, s.Amount, s.Resource, s.Driver, s.ScheduledAt, done)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(value interface{}, name string, config Config) error {
	jsonData, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.writer(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, name)
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes the executed steps as CSV
func generateCSVOutput(outcome *dto.Outcome, config Config) error {
	if config.OutputDir == "" {
		return writeStepsCSV(outcome.Steps, config.writer())
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "steps.csv")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	if err := writeStepsCSV(outcome.Steps, file); err != nil {
		return fmt.Errorf("failed to write steps CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "CSV results saved to: %s\n", filename)
	}
	return nil
}

func writeStepsCSV(steps []dto.StepSummary, w io.Writer) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	header := []string{"seq", "kind", "item", "amount", "resource", "driver", "scheduled_at", "completed_at", "completed"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, s := range steps {
		record := []string{
			strconv.Itoa(s.Seq),
			s.Kind,
			s.Item,
			strconv.FormatInt(int64(s.Amount), 10),
			s.Resource,
			s.Driver,
			strconv.FormatInt(int64(s.ScheduledAt), 10),
			strconv.FormatInt(int64(s.CompletedAt), 10),
			strconv.FormatBool(s.Completed),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
