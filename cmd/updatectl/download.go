package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Check the feed, then download the installer if a newer release is available",
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
				fmt.Println("up to date, nothing to download")
				return nil
			}

			s = a.machine.CachedLatest(s)

			start := time.Now()
			s, err = a.machine.Downloaded(cmd.Context(), s)
			duration := time.Since(start)
			if err != nil {
				a.metrics.RecordDownload("error", duration)
				return err
			}
			a.metrics.RecordDownload("ok", duration)

			fmt.Printf("downloaded %s to %s\n", s.New().Version.String(), s.LocalPath())
			return nil
		},
	}
}
