package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoplan/pkg/descriptor"
	"github.com/matzehuels/cargoplan/pkg/plan"
	"github.com/matzehuels/cargoplan/pkg/resolver"
)

// resolveOpts holds the command-line flags shared by commands that perform
// feature-closure resolution (resolve, graph, audit).
type resolveOpts struct {
	features          []string // explicitly requested features
	noDefaultFeatures bool     // skip the implicit default closure
	allFeatures       bool     // activate every defined feature
	includeDev        bool     // include dev-dependencies
	includeBuild      bool     // include build-dependencies
	workspacePath     string   // workspace root descriptor for inheritance
}

// addFlags registers the shared resolution flags on cmd.
func (o *resolveOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&o.features, "features", "F", nil, "features to activate (comma-separated or repeated)")
	cmd.Flags().BoolVar(&o.noDefaultFeatures, "no-default-features", false, "do not activate the default feature")
	cmd.Flags().BoolVar(&o.allFeatures, "all-features", false, "activate all defined features")
	cmd.Flags().BoolVar(&o.includeDev, "dev", false, "include dev-dependencies in the plan")
	cmd.Flags().BoolVar(&o.includeBuild, "build", false, "include build-dependencies in the plan")
	cmd.Flags().StringVar(&o.workspacePath, "workspace", "", "workspace root descriptor providing shared dependencies")
}

// resolverOptions converts the flags into resolver options, loading the
// workspace root descriptor if one was given.
func (o *resolveOpts) resolverOptions() (resolver.Options, error) {
	opts := resolver.Options{
		NoDefaultFeatures: o.noDefaultFeatures,
		AllFeatures:       o.allFeatures,
		IncludeDev:        o.includeDev,
		IncludeBuild:      o.includeBuild,
	}
	if o.workspacePath != "" {
		ws, err := descriptor.ParseFile(o.workspacePath)
		if err != nil {
			return opts, fmt.Errorf("workspace descriptor: %w", err)
		}
		if ws.Workspace != nil {
			opts.Workspace = ws.Workspace.Dependencies
		}
	}
	return opts, nil
}

// newResolveCmd creates the resolve command.
func newResolveCmd() *cobra.Command {
	opts := resolveOpts{}
	var (
		output      string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <descriptor>",
		Short: "Resolve a feature selection into a build plan",
		Long: `Resolve a feature selection into a deterministic build plan.

Without flags the default feature's closure is resolved. Explicit features
are added on top of the default closure unless --no-default-features is set.
The plan is written as JSON to stdout or to the file given with --output.

Examples:
  cargoplan resolve Cargo.toml
  cargoplan resolve Cargo.toml -F jsonrpc
  cargoplan resolve Cargo.toml --no-default-features -F vendored
  cargoplan resolve Cargo.toml --all-features --dev --build -o plan.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			d, err := descriptor.ParseFile(args[0])
			if err != nil {
				return err
			}

			if interactive {
				selected, err := pickFeatures(d)
				if err != nil {
					return err
				}
				if selected == nil {
					printInfo("Cancelled")
					return nil
				}
				opts.features = selected
				opts.noDefaultFeatures = true
			}

			p, err := resolveDescriptor(cmd.Context(), d, &opts)
			if err != nil {
				return err
			}
			logger.Debugf("Plan %s for %s %s", p.ID, p.Package.Name, p.Package.Version)

			if err := writePlan(p, output); err != nil {
				return err
			}
			if output != "" {
				printSuccess("Resolved %d features, %d dependencies", len(p.Features), len(p.Dependencies))
				printFile(output)
			}
			return nil
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick features interactively")

	return cmd
}

// resolveDescriptor runs resolution with progress logging.
func resolveDescriptor(ctx context.Context, d *descriptor.Descriptor, opts *resolveOpts) (*plan.Plan, error) {
	logger := loggerFromContext(ctx)
	ropts, err := opts.resolverOptions()
	if err != nil {
		return nil, err
	}

	prog := newProgress(logger)
	p, err := resolver.Resolve(d, opts.features, ropts)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Resolved %d features, %d dependencies", len(p.Features), len(p.Dependencies)))
	return p, nil
}

// writePlan serializes p as JSON to path, or stdout if path is empty.
func writePlan(p *plan.Plan, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return plan.Write(p, out)
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// summarizeFeatures formats a feature list for display, abbreviating long lists.
func summarizeFeatures(features []string) string {
	if len(features) <= 6 {
		return strings.Join(features, ", ")
	}
	return strings.Join(features[:6], ", ") + fmt.Sprintf(" … (+%d)", len(features)-6)
}
