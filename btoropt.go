// Package btoropt parses btor2 designs into instruction graphs, runs
// named optimization and verification passes over them, and merges two
// designs into a miter circuit for logical equivalence checking.
package btoropt

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/btorlabs/btoropt/internal/ir"
	"github.com/btorlabs/btoropt/internal/miter"
	"github.com/btorlabs/btoropt/internal/parser"
	"github.com/btorlabs/btoropt/internal/passes"
)

// Parse reads a flat btor2 program with the eager sequential strategy.
func Parse(lines []string) ([]*ir.Instruction, error) {
	return parser.Parse(lines)
}

// ParseDeferred reads a flat btor2 program with deferred two-phase
// resolution, tolerating forward references.
func ParseDeferred(lines []string) ([]*ir.Instruction, error) {
	return parser.ParseDeferred(lines)
}

// ParseProgram reads a modular btor2 file into a Program.
func ParseProgram(lines []string) (*ir.Program, error) {
	return parser.ParseProgram(lines)
}

// Registry returns the default pass registry.
func Registry() *passes.Registry {
	return passes.Default()
}

// Config is a named pass pipeline loaded from a yaml file.
type Config struct {
	Name   string   `yaml:"name"`
	Passes []string `yaml:"passes"`
}

// ParseConfigurationFile loads a pipeline configuration.
func ParseConfigurationFile(configurationPath string) (Config, error) {
	var config Config

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}
	return config, nil
}

// ProcessLines parses lines with the eager strategy, runs the requested
// passes in order and returns the serialized result. Every pass id is
// validated against the registry before anything executes, so a bad id
// never leaves a program partially transformed.
func ProcessLines(ctx context.Context, logger *zap.Logger, lines []string, passIDs []string) (string, error) {
	return process(ctx, logger, lines, passIDs, parser.Parse)
}

// ProcessLinesDeferred is ProcessLines with the deferred parse strategy.
func ProcessLinesDeferred(ctx context.Context, logger *zap.Logger, lines []string, passIDs []string) (string, error) {
	return process(ctx, logger, lines, passIDs, parser.ParseDeferred)
}

func process(
	ctx context.Context,
	logger *zap.Logger,
	lines []string,
	passIDs []string,
	parse func([]string) ([]*ir.Instruction, error),
) (string, error) {
	pipeline, err := passes.Default().Resolve(passIDs)
	if err != nil {
		return "", err
	}

	p, err := parse(lines)
	if err != nil {
		return "", err
	}

	bar := pipelineBar(len(pipeline))
	for _, pass := range pipeline {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		if logger != nil {
			logger.Debug("running pass", zap.String("pass", pass.ID()))
		}
		if p, err = pass.Run(p); err != nil {
			return "", errors.Wrapf(err, "pass %s", pass.ID())
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	return ir.Serialize(p), nil
}

// ProcessProgramLines is ProcessLines for modular designs: the pipeline
// runs each pass's program-level entry point and the result is
// serialized in block syntax.
func ProcessProgramLines(ctx context.Context, logger *zap.Logger, lines []string, passIDs []string) (string, error) {
	pipeline, err := passes.Default().Resolve(passIDs)
	if err != nil {
		return "", err
	}

	prog, err := parser.ParseProgram(lines)
	if err != nil {
		return "", err
	}

	bar := pipelineBar(len(pipeline))
	for _, pass := range pipeline {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		if logger != nil {
			logger.Debug("running pass", zap.String("pass", pass.ID()))
		}
		if prog, err = pass.RunOnProgram(prog); err != nil {
			return "", errors.Wrapf(err, "pass %s", pass.ID())
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	return prog.Serialize(), nil
}

// ProcessFile reads a btor2 file and processes it with ProcessLines.
func ProcessFile(ctx context.Context, logger *zap.Logger, path string, passIDs []string) (string, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return "", err
	}
	return ProcessLines(ctx, logger, lines, passIDs)
}

// Miter parses two flat designs and merges them into a miter circuit.
func Miter(lines1, lines2 []string) (string, error) {
	p1, err := parser.Parse(lines1)
	if err != nil {
		return "", errors.Wrap(err, "first design")
	}
	p2, err := parser.Parse(lines2)
	if err != nil {
		return "", errors.Wrap(err, "second design")
	}
	merged, err := miter.Merge(p1, p2)
	if err != nil {
		return "", err
	}
	return ir.Serialize(merged), nil
}

// ReadLines loads a file as a line sequence.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return strings.Split(string(data), "\n"), nil
}

// pipelineBar shows pass progress on stderr for multi-pass pipelines.
func pipelineBar(n int) *progressbar.ProgressBar {
	if n < 2 {
		return nil
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetDescription("running passes"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
	)
}
