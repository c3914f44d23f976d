package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check, download, and checksum-validate the newest release's installer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.machine.Latest(cmd.Context(), a.state)
			if err != nil {
				return err
			}
			if !s.Available() {
				fmt.Println("up to date, nothing to validate")
				return nil
			}

			s = a.machine.CachedLatest(s)
			s, err = a.machine.Downloaded(cmd.Context(), s)
			if err != nil {
				return err
			}

			s, err = a.machine.Validated(s)
			if err != nil {
				a.metrics.RecordValidation("error")
				return err
			}

			if !s.Ready() {
				a.metrics.RecordValidation("mismatch")
				return fmt.Errorf("checksum mismatch for %s", s.LocalPath())
			}

			a.metrics.RecordValidation("match")
			fmt.Printf("validated %s at %s\n", s.New().Version.String(), s.LocalPath())
			return nil
		},
	}
}
