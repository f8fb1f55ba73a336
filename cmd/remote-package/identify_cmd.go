package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	remotepkg "github.com/cmeister2/remote-package"
	"github.com/cmeister2/remote-package/internal/netutil"
)

func newIdentifyCommand(a *app) *cobra.Command {
	var (
		asJSON  bool
		formats []string
	)

	cmd := &cobra.Command{
		Use:   "identify <url|file>...",
		Short: "Identify packages and print their metadata",
		Long: `Identify each argument as a deb or rpm package and print its metadata.
Arguments starting with http:// or https:// are fetched; anything else is
read as a local file.

Examples:
  remote-package identify http://deb.debian.org/debian/pool/main/d/debian-faq/debian-faq_10.1_all.deb
  remote-package identify --format rpm ./kibana-8.2.1-x86_64.rpm
  remote-package identify --json pool/*.deb`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := enabledFormats(formats, a.cfg.Formats)
			if err != nil {
				return err
			}

			reports := make([]report, 0, len(args))
			failures := 0
			for _, arg := range args {
				rep := identifyOne(cmd.Context(), a, arg, enabled)
				if rep.Error != "" {
					failures++
				}
				reports = append(reports, rep)
			}

			if err := printReports(cmd.OutOrStdout(), reports, asJSON); err != nil {
				return err
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d packages could not be identified", failures, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().StringSliceVar(&formats, "format", nil, "enabled formats (deb, rpm); default all")
	return cmd
}

// enabledFormats resolves the format restriction: the flag wins over the
// config file, and no restriction means every supported format.
func enabledFormats(flagValues, cfgValues []string) ([]remotepkg.Type, error) {
	values := flagValues
	if len(values) == 0 {
		values = cfgValues
	}
	types := make([]remotepkg.Type, 0, len(values))
	for _, v := range values {
		t, err := remotepkg.ParseType(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// report is one identification outcome, for both text and JSON output.
type report struct {
	Source    string `json:"source"`
	Type      string `json:"type,omitempty"`
	Name      string `json:"name,omitempty"`
	Version   string `json:"version,omitempty"`
	Arch      string `json:"arch,omitempty"`
	Iteration string `json:"iteration,omitempty"`
	Error     string `json:"error,omitempty"`
}

func identifyOne(ctx context.Context, a *app, source string, enabled []remotepkg.Type) report {
	var (
		pkg remotepkg.RemotePackage
		err error
	)
	if isURL(source) {
		client := netutil.NewClient(time.Duration(a.cfg.HTTP.TimeoutSeconds) * time.Second)
		pkg, err = remotepkg.FromURLWithClient(ctx, client, source, enabled...)
	} else {
		pkg, err = identifyFile(source, enabled)
	}
	if err != nil {
		return report{Source: source, Error: err.Error()}
	}
	return buildReport(source, pkg)
}

func identifyFile(path string, enabled []remotepkg.Type) (remotepkg.RemotePackage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return remotepkg.Identify(f, enabled...)
}

func buildReport(source string, pkg remotepkg.RemotePackage) report {
	rep := report{Source: source, Type: string(pkg.Type())}

	var err error
	if rep.Name, err = pkg.Name(); err != nil {
		rep.Error = err.Error()
		return rep
	}
	if rep.Version, err = pkg.Version(); err != nil {
		rep.Error = err.Error()
		return rep
	}
	if rep.Arch, err = pkg.Arch(); err != nil {
		rep.Error = err.Error()
		return rep
	}
	rep.Iteration, _ = pkg.Iteration()
	return rep
}

func printReports(w io.Writer, reports []report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for _, rep := range reports {
		if rep.Error != "" {
			fmt.Fprintf(w, "%s: error: %s\n", rep.Source, rep.Error)
			continue
		}
		line := fmt.Sprintf("%s: type=%s name=%s version=%s arch=%s", rep.Source, rep.Type, rep.Name, rep.Version, rep.Arch)
		if rep.Iteration != "" {
			line += " iteration=" + rep.Iteration
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
