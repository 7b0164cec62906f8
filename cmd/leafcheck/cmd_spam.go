package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var spamCmd = &cobra.Command{
	Use:   "spam [MESSAGE...]",
	Short: "Classify text messages as spam or ham",
	Long:  "Classifies each argument, or each stdin line when no arguments are given.",
	RunE:  runSpam,
}

func runSpam(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	messages := args
	if len(messages) == 0 {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				messages = append(messages, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, msg := range messages {
		v, err := eng.ClassifyText(cmd.Context(), msg)
		if err != nil {
			return err
		}
		if v.Confidence != nil {
			fmt.Fprintf(out, "%s\t%.2f%%\t%s\n", v.Label, *v.Confidence, msg)
		} else {
			fmt.Fprintf(out, "%s\t-\t%s\n", v.Label, msg)
		}
	}
	return nil
}
