package formalize

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
)

var logger = log.New(os.Stderr, "", 0)

// Inputs names the result log of each variant.
type Inputs struct {
	Before string
	After  string
	Pure   string
}

func DefaultInputs() Inputs {
	return Inputs{
		Before: "result_before.txt",
		After:  "result_after.txt",
		Pure:   "result_pure.txt",
	}
}

// LoadInputs parses the three logs in order, stopping at the first failure.
func LoadInputs(inputs Inputs) (before, after, pure *ParsedLog, err error) {
	before, err = ParseLogFile(inputs.Before)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "baseline log")
	}
	after, err = ParseLogFile(inputs.After)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "treatment log")
	}
	pure, err = ParseLogFile(inputs.Pure)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "reference log")
	}

	return before, after, pure, nil
}

func formatDeciles(deciles []float64) string {
	numStrs := []string{}

	for _, decile := range deciles {
		numStrs = append(numStrs, fmt.Sprintf("%.3f", decile))
	}

	return fmt.Sprintf("%v", numStrs)
}

func printStats(printer *log.Logger, label string, unit string, stats *Stats) {
	if stats != nil {
		printer.Printf("%s-mean: %.3f %s\n", label, stats.Mean, unit)
		printer.Printf("%s-stddev: %.3f %s\n", label, stats.StdDev, unit)
		printer.Printf("%s-stderr: %.3f %s\n", label, stats.StdErr, unit)
		printer.Printf("%s-min: %.3f %s\n", label, stats.Min, unit)
		printer.Printf("%s-max: %.3f %s\n", label, stats.Max, unit)
		printer.Printf("%s-deciles: %s %s\n", label, formatDeciles(stats.Deciles), unit)
		printer.Printf("%s-n: %d\n", label, stats.NSamples)
		printer.Println()
	}
}

func PrintOverhead(printer *log.Logger, report *OverheadReport) {
	printer.Printf("Sites: %d\n", report.Sites)
	printer.Println()

	printStats(printer, "IDS-overhead-after", "ms", report.IDSAfterMS)
	printStats(printer, "IDS-overhead-pure", "ms", report.IDSPureMS)
	printStats(printer, "Compression-overhead-after", "ms", report.CompressionAfterMS)
	printStats(printer, "Compression-overhead-pure", "ms", report.CompressionPureMS)
	printStats(printer, "PressRate-before", "", report.PressRateBefore)
	printStats(printer, "PressRate-after", "", report.PressRateAfter)
}

// RunAndPrint is the batch run: parse the three logs, pivot them and export the table.
func RunAndPrint(printer *log.Logger, inputs Inputs, outputPath string) error {
	before, after, pure, err := LoadInputs(inputs)
	if err != nil {
		return err
	}

	table := Aggregate(before, after, pure)
	for _, site := range table.Orphans() {
		logger.Printf("Warning: %s is missing from the baseline log and gets no row\n", site)
	}

	if err := ExportTable(outputPath, table); err != nil {
		return err
	}

	printer.Printf("Rows: %d\n", len(table.rows))
	printer.Printf("Output: %s\n", outputPath)

	return nil
}

func SummarizeAndPrint(printer *log.Logger, inputs Inputs) error {
	before, after, pure, err := LoadInputs(inputs)
	if err != nil {
		return err
	}

	PrintOverhead(printer, SummarizeOverhead(before, after, pure))

	return nil
}
