package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoplan/pkg/descriptor"
	"github.com/matzehuels/cargoplan/pkg/plan"
	"github.com/matzehuels/cargoplan/pkg/registry"
	"github.com/matzehuels/cargoplan/pkg/registry/crates"
)

// auditCacheTTL is how long registry responses are reused before refetching.
const auditCacheTTL = 24 * time.Hour

// newAuditCmd creates the audit command for checking dependencies against
// the crates.io registry.
func newAuditCmd() *cobra.Command {
	opts := resolveOpts{}
	var refresh bool

	cmd := &cobra.Command{
		Use:   "audit <descriptor>",
		Short: "Check resolved dependencies against crates.io",
		Long: `Check the resolved dependency set against the crates.io registry.

Resolves the descriptor, then looks up every registry dependency (path and
workspace dependencies are skipped) and reports missing crates and newer
published versions. Responses are cached for a day; use --refresh to bypass
the cache.

Examples:
  cargoplan audit Cargo.toml
  cargoplan audit Cargo.toml --all-features --dev --build --refresh`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := descriptor.ParseFile(args[0])
			if err != nil {
				return err
			}
			p, err := resolveDescriptor(cmd.Context(), d, &opts)
			if err != nil {
				return err
			}
			return auditPlan(cmd.Context(), p, refresh)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the registry cache")

	return cmd
}

// auditPlan looks up every registry dependency of p on crates.io and prints
// a per-dependency report.
func auditPlan(ctx context.Context, p *plan.Plan, refresh bool) error {
	client, err := crates.NewClient(auditCacheTTL)
	if err != nil {
		return err
	}

	var checked, missing, outdated int
	for _, dep := range p.Dependencies {
		if strings.HasPrefix(dep.Source, "path:") || dep.Source == "workspace" {
			printDetail("%s: local source, skipped", dep.Name)
			continue
		}

		spin := newSpinner(ctx, fmt.Sprintf("Checking %s…", dep.Name))
		spin.Start()
		info, err := client.FetchCrate(ctx, dep.Name, refresh)
		spin.Stop()
		if spin.Cancelled() {
			return ctx.Err()
		}

		checked++
		switch {
		case errors.Is(err, registry.ErrNotFound):
			missing++
			printError("%s %s: not found on crates.io", dep.Name, dep.Source)
		case err != nil:
			printWarning("%s: lookup failed: %v", dep.Name, err)
		case !satisfies(dep.Source, info.Version):
			outdated++
			printWarning("%s %s: latest is %s", dep.Name, dep.Source, info.Version)
		default:
			printSuccess("%s %s (latest %s)", dep.Name, dep.Source, info.Version)
		}
	}

	printNewline()
	if missing > 0 {
		printError("%d of %d dependencies missing from the registry", missing, checked)
		return fmt.Errorf("%d missing dependencies", missing)
	}
	if outdated > 0 {
		printInfo("%d of %d dependencies have newer versions", outdated, checked)
		return nil
	}
	printSuccess("All %d registry dependencies found", checked)
	return nil
}

// satisfies reports whether the latest published version still matches the
// declared requirement's leading version component. This is a coarse check:
// it compares the major (and minor for 0.x) numbers, which is what caret
// requirements pin.
func satisfies(requirement, latest string) bool {
	req := strings.TrimLeft(requirement, "^~=<>")
	req = strings.TrimSpace(strings.SplitN(req, ",", 2)[0])
	reqParts := strings.Split(req, ".")
	latestParts := strings.Split(latest, ".")
	if len(reqParts) == 0 || len(latestParts) == 0 {
		return true
	}
	if reqParts[0] != latestParts[0] {
		return false
	}
	if reqParts[0] == "0" && len(reqParts) > 1 && len(latestParts) > 1 {
		return reqParts[1] == latestParts[1]
	}
	return true
}
