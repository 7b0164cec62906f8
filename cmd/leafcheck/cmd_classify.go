package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/leafcheck/pkg/leafcheck"
)

var classifyFlags struct {
	parallelism int
	asJSON      bool
}

var classifyCmd = &cobra.Command{
	Use:   "classify IMAGE...",
	Short: "Diagnose leaf images from disk",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	f := classifyCmd.Flags()
	f.IntVarP(&classifyFlags.parallelism, "parallel", "p", 4, "images classified concurrently")
	f.BoolVar(&classifyFlags.asJSON, "json", false, "print one JSON diagnosis per line")
}

func runClassify(cmd *cobra.Command, args []string) error {
	c, err := leafcheck.New(
		leafcheck.WithModelPath(cfg.Model.Path),
		leafcheck.WithTextModel(cfg.Model.TextPath, cfg.Model.TextVocabPath),
		leafcheck.WithRuntimeLibrary(cfg.Model.RuntimeLib),
		leafcheck.WithLabels(cfg.Model.Labels...),
		leafcheck.WithTextLabels(cfg.Model.TextLabels...),
		leafcheck.WithInputSize(cfg.Model.InputSize),
		leafcheck.WithKnowledgeFile(cfg.KnowledgePath),
		leafcheck.WithParallelism(classifyFlags.parallelism),
		leafcheck.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer c.Close()

	results, err := c.DiagnoseFiles(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
			continue
		}
		if classifyFlags.asJSON {
			if err := enc.Encode(r.Diagnosis); err != nil {
				return err
			}
			continue
		}
		d := r.Diagnosis
		fmt.Fprintf(out, "%s\t%s\t%.2f%%\t%s (%s)\n",
			r.Path, d.Disease.Class, d.Disease.Confidence, d.Disease.ArabicName, d.Disease.SeverityLabel)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(results))
	}
	return nil
}
