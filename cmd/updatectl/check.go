package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/northlane-software/updatewing/internal/updater"
)

func newCheckCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the feed for a newer release and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer a.Close()

			start := time.Now()
			s, err := a.machine.Latest(cmd.Context(), a.state)
			duration := time.Since(start)
			if err != nil {
				a.metrics.RecordCheck("error", duration, false)
				return err
			}
			a.metrics.RecordCheck("ok", duration, s.Available())

			if jsonOutput {
				return printCheckJSON(s)
			}
			printCheckHuman(s)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	return cmd
}

func printCheckHuman(s updater.State) {
	if !s.Available() {
		fmt.Println("up to date")
		return
	}
	fmt.Printf("update available: %s\n", s.New().Version.String())
	for _, line := range s.New().ChangeLog {
		fmt.Printf("  - %s\n", line)
	}
}

func printCheckJSON(s updater.State) error {
	out := struct {
		Available bool     `json:"available"`
		Version   string   `json:"version,omitempty"`
		ChangeLog []string `json:"change_log,omitempty"`
	}{Available: s.Available()}

	if s.Available() {
		out.Version = s.New().Version.String()
		out.ChangeLog = s.New().ChangeLog
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
