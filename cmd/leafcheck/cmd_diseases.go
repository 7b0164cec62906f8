package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/leafcheck/internal/engine"
	"github.com/crimson-sun/leafcheck/internal/engine/classifier"
	"github.com/crimson-sun/leafcheck/internal/engine/knowledge"
)

var diseasesFlags struct {
	asJSON bool
}

var diseasesCmd = &cobra.Command{
	Use:   "diseases [LABEL]",
	Short: "List known diseases or show one record",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDiseases,
}

func init() {
	diseasesCmd.Flags().BoolVar(&diseasesFlags.asJSON, "json", false, "print JSON")
}

func runDiseases(cmd *cobra.Command, args []string) error {
	kb, err := knowledge.Load(cfg.KnowledgePath)
	if err != nil {
		return err
	}
	// The catalog only needs labels, not a loaded model.
	eng := engine.New(classifier.NewUnavailable(cfg.Model.Labels, errors.New("not loaded by this command")), nil, kb)

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		rec, err := eng.Disease(args[0])
		if err != nil {
			return err
		}
		if diseasesFlags.asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}
		fmt.Fprintf(out, "%s  %s (%s)\n", rec.ID, rec.Name, rec.Label)
		fmt.Fprintf(out, "type: %s  severity: %s  risk: %s\n", rec.Category.Label(), rec.Severity.Label(), rec.RiskLevel)
		fmt.Fprintln(out, "symptoms:")
		for _, s := range rec.Symptoms {
			fmt.Fprintf(out, "  - %s\n", s)
		}
		fmt.Fprintf(out, "transmission: %s\n", rec.Transmission)
		return nil
	}

	catalog := eng.Catalog()
	if diseasesFlags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"count": len(catalog), "diseases": catalog})
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASS\tTYPE\tSEVERITY\tNAME")
	for _, d := range catalog {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Class, d.Category, d.Severity, d.ArabicName)
	}
	return tw.Flush()
}
