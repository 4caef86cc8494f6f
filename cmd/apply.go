package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/compozy/gitver/internal/usecase"
)

// newApplyCmd creates the apply command
func newApplyCmd(deps func() (*container, error)) *cobra.Command {
	var (
		applyFormat          string
		applyStartingVersion string
	)
	cmd := &cobra.Command{
		Use:   "apply <metadata-file>",
		Short: "Resolve the version and write it into a metadata file",
		Long: `Resolve the version and write it into the version field of a JSON or
YAML package metadata file. The file is replaced atomically and guarded by a
sidecar lock so concurrent build hooks do not interleave.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := deps()
			if err != nil {
				return err
			}
			settings := c.settings
			if applyFormat != "" {
				settings.VersionFormat = applyFormat
			}
			if applyStartingVersion != "" {
				settings.StartingVersion = applyStartingVersion
			}
			uc := &usecase.ApplyVersionUseCase{GitRepo: c.gitRepo, Fs: c.fs}
			version, err := uc.Execute(cmd.Context(), args[0], settings)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], version.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&applyFormat, "format", "", "Version format template with {tag} and {sha} placeholders")
	cmd.Flags().StringVar(&applyStartingVersion, "starting-version", "", "Version to use when the repository has no tags")
	return cmd
}
