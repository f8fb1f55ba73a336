package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmeister2/remote-package/internal/fetcher"
	"github.com/cmeister2/remote-package/internal/logger"
	"github.com/cmeister2/remote-package/internal/netutil"
)

func newFetchCommand(a *app) *cobra.Command {
	var (
		dest    string
		workers int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <url>...",
		Short: "Download packages and identify them",
		Long: `Download each URL into the destination directory with a pool of workers,
then identify the downloaded files and print their metadata.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := enabledFormats(nil, a.cfg.Formats)
			if err != nil {
				return err
			}
			if dest == "" {
				dest = a.cfg.Fetch.Dest
			}
			if workers == 0 {
				workers = a.cfg.Fetch.Workers
			}

			paths, fetchErr := fetcher.Fetch(cmd.Context(), args, dest, fetcher.Options{
				Workers:  workers,
				Client:   netutil.NewClient(time.Duration(a.cfg.HTTP.TimeoutSeconds) * time.Second),
				Attempts: a.cfg.HTTP.Retries,
			})
			if fetchErr != nil {
				logger.Logger().Warnf("fetch finished with failures: %v", fetchErr)
			}

			reports := make([]report, 0, len(paths))
			for _, path := range paths {
				pkg, err := identifyFile(path, enabled)
				if err != nil {
					reports = append(reports, report{Source: path, Error: err.Error()})
					continue
				}
				reports = append(reports, buildReport(path, pkg))
			}
			if err := printReports(cmd.OutOrStdout(), reports, asJSON); err != nil {
				return err
			}
			if fetchErr != nil {
				return fmt.Errorf("fetching packages: %w", fetchErr)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dest, "dest", "", "destination directory (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent downloads (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}
