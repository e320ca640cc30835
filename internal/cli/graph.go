package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoplan/pkg/descriptor"
	"github.com/matzehuels/cargoplan/pkg/render"
	"github.com/matzehuels/cargoplan/pkg/resolver"
)

// newGraphCmd creates the graph command for rendering feature graphs.
func newGraphCmd() *cobra.Command {
	opts := resolveOpts{}
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph <descriptor>",
		Short: "Render the feature-activation graph",
		Long: `Render the feature-activation graph of a descriptor.

The graph shows how features activate each other and which dependencies
they switch on. Nodes activated by the current feature selection are
highlighted. Output formats: dot (default), svg, png.

Examples:
  cargoplan graph Cargo.toml
  cargoplan graph Cargo.toml --format svg -o features.svg
  cargoplan graph Cargo.toml -F jsonrpc --format png -o features.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			d, err := descriptor.ParseFile(args[0])
			if err != nil {
				return err
			}
			p, err := resolveDescriptor(cmd.Context(), d, &opts)
			if err != nil {
				return err
			}

			g := resolver.Graph(d, p)
			logger.Debugf("Feature graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

			dot := render.ToDOT(g, render.Options{Detailed: detailed})

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = render.SVG(dot)
			case "png":
				data, err = render.PNG(dot)
			default:
				return fmt.Errorf("unknown format %q (available: dot, svg, png)", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return err
			}
			printSuccess("Rendered feature graph (%s)", summarizeFeatures(p.Features))
			printFile(output)
			return nil
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&format, "format", "dot", "output format (dot, svg, png)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node metadata in labels")

	return cmd
}
