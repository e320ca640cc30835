package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoplan/pkg/descriptor"
	apperrors "github.com/matzehuels/cargoplan/pkg/errors"
)

// newCheckCmd creates the check command for validating descriptors.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <descriptor>",
		Short: "Validate a package descriptor",
		Long: `Validate a package descriptor file.

Checks TOML syntax, package identity, artifact kinds, feature references,
and optional dependency reachability. Exits non-zero on the first violation
with the descriptor field it points at.

Examples:
  cargoplan check Cargo.toml
  cargoplan check examples/descriptor.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			logger.Debugf("Checking %s", args[0])

			d, err := descriptor.ParseFile(args[0])
			if err != nil {
				printError("%s", apperrors.UserMessage(err))
				if code := apperrors.GetCode(err); code != "" {
					printDetail("code: %s", code)
				}
				return err
			}

			printSuccess("%s is valid", args[0])
			printKeyValue("package", fmt.Sprintf("%s %s", d.Package.Name, d.Package.Version))
			printKeyValue("lib", d.LibName())
			printKeyValue("artifacts", strings.Join(d.CrateTypes(), ", "))
			if feats := d.FeatureNames(); len(feats) > 0 {
				printKeyValue("features", strings.Join(feats, ", "))
			}
			printKeyValue("deps", fmt.Sprintf("%d normal, %d dev, %d build",
				len(d.Dependencies), len(d.DevDependencies), len(d.BuildDependencies)))

			printNewline()
			printNextStep("Resolve a build plan", fmt.Sprintf("cargoplan resolve %s", args[0]))
			return nil
		},
	}
}
