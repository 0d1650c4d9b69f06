// Command deltat computes the graphically corrected ΔT for one measurement file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chrissnell/calorimetry/internal/calorimetry"
	"github.com/chrissnell/calorimetry/internal/constants"
	"github.com/chrissnell/calorimetry/internal/ingest"
	"github.com/chrissnell/calorimetry/internal/log"
	"github.com/chrissnell/calorimetry/internal/render"
	"github.com/chrissnell/calorimetry/pkg/config"
	"github.com/chrissnell/calorimetry/pkg/responseformat"
)

func main() {
	input := flag.String("input", "", "Measurement file (.xlsx, .csv or .json) with time, temperature and phase columns (required, '-' for stdin)")
	inputFormat := flag.String("input-format", "", "Input format when it cannot be guessed from the file name: xlsx, csv or json")
	sheet := flag.String("sheet", "", "Worksheet to read from an xlsx workbook (default: first sheet)")
	output := flag.String("output", "text", "Result format: text, json or msgpack")
	chartFile := flag.String("chart", "", "Write the annotated chart to this .png or .svg file")
	cfgFile := flag.String("config", "", "Optional YAML configuration for chart labels, size and precision")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("deltat (%s) %s\n", constants.AppName, constants.Version)
		os.Exit(0)
	}

	if *input == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -input <data.xlsx> [-chart chart.png]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := config.Default()
	if *cfgFile != "" {
		var err error
		cfg, err = config.NewYAMLProvider(*cfgFile).LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
	}
	if *sheet != "" {
		cfg.Analysis.Sheet = *sheet
	}

	analysis, err := run(*input, ingest.Format(*inputFormat), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := writeResult(os.Stdout, analysis, *output, cfg.Analysis.Digits()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing result: %v\n", err)
		os.Exit(1)
	}

	if *chartFile != "" {
		if err := writeChart(*chartFile, analysis, cfg.Chart); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing chart: %v\n", err)
			os.Exit(1)
		}
		log.Infof("chart written to %s", *chartFile)
	}
}

func run(path string, format ingest.Format, cfg *config.ConfigData) (*calorimetry.Analysis, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	if format == "" {
		var err error
		format, err = ingest.DetectFormat(path, "")
		if err != nil {
			return nil, err
		}
	}

	table, err := ingest.Decode(r, format, ingest.Options{
		Sheet:    cfg.Analysis.Sheet,
		MaxBytes: cfg.Server.MaxUploadBytes,
	})
	if err != nil {
		return nil, err
	}

	analyzer := calorimetry.NewAnalyzer(log.GetSugaredLogger(), calorimetry.ChartOptions{
		Title:  cfg.Chart.Title,
		XLabel: cfg.Chart.XLabel,
		YLabel: cfg.Chart.YLabel,
	})
	return analyzer.Analyze(table)
}

func writeResult(w io.Writer, a *calorimetry.Analysis, output string, precision int) error {
	switch output {
	case "text":
		for _, line := range a.Result.Summary(precision) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	case "json":
		return responseformat.Encode(w, responseformat.JSON, a)
	case "msgpack":
		return responseformat.Encode(w, responseformat.MsgPack, a)
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

func writeChart(path string, a *calorimetry.Analysis, cc config.ChartData) error {
	format, err := render.ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = render.Render(f, a.Chart, render.Options{Format: format, Width: cc.Width, Height: cc.Height})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
