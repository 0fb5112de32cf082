package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/perses-gateway/tools/dashgen/dashboards"
	"github.com/donaldgifford/perses-gateway/tools/dashgen/rules"
	"github.com/donaldgifford/perses-gateway/tools/dashgen/validate"
)

const generatedHeader = "# Code generated by dashgen. DO NOT EDIT.\n"

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// artifact is one generated file, relative to the output directory.
type artifact struct {
	path string
	data []byte
}

func run(cfg Config, validateOnly bool) error {
	files, err := generate(cfg)
	if err != nil {
		return err
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	for _, f := range files {
		path := filepath.Join(cfg.OutputDir, f.path)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("creating directory for %s: %w", f.path, err)
		}
		if err := os.WriteFile(path, f.data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		fmt.Printf("dashgen: wrote %s\n", path)
	}
	return nil
}

// generate builds and validates every enabled artifact.
func generate(cfg Config) ([]artifact, error) {
	var (
		files []artifact
		errs  []error
	)

	if cfg.DashboardEnabled {
		dash, err := dashboards.BuildOverview().Build()
		if err != nil {
			return nil, fmt.Errorf("building dashboard: %w", err)
		}

		res := validate.Dashboard(&dash, KnownMetrics)
		errs = append(errs, res.Errors...)
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %v\n", w)
		}

		data, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding dashboard: %w", err)
		}
		files = append(files, artifact{
			path: filepath.Join("grafana", "data", "pgw-overview.json"),
			data: append(data, '\n'),
		})
	}

	if cfg.RulesEnabled {
		for name, cr := range map[string]rules.PrometheusRule{
			"pgw-recording-rules.yaml": rules.RecordingRules(),
			"pgw-alerts.yaml":          rules.AlertRules(),
		} {
			res := validate.Rules(cr, KnownMetrics)
			errs = append(errs, res.Errors...)

			data, err := yaml.Marshal(cr)
			if err != nil {
				return nil, fmt.Errorf("encoding %s: %w", name, err)
			}
			files = append(files, artifact{
				path: filepath.Join("prometheus", name),
				data: append([]byte(generatedHeader), data...),
			})
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return files, nil
}
