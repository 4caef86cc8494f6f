package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/compozy/gitver/internal/domain"
	"github.com/compozy/gitver/internal/usecase"
)

// newResolveCmd creates the resolve command
func newResolveCmd(deps func() (*container, error)) *cobra.Command {
	var (
		resolveFormat          string
		resolveStartingVersion string
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the version derived from the repository state",
		Long: `Print the version derived from the repository state.

With no reachable tags the starting version is used. When HEAD sits exactly
on the newest tag, the tag itself is the version. Otherwise the format
template is rendered with {tag} and the first 8 characters of the HEAD sha
as {sha}. A dirty working tree appends a dirty marker in every case.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := deps()
			if err != nil {
				return err
			}
			settings := c.settings
			if resolveFormat != "" {
				settings.VersionFormat = resolveFormat
			}
			if resolveStartingVersion != "" {
				settings.StartingVersion = resolveStartingVersion
			}
			uc := &usecase.ResolveVersionUseCase{GitRepo: c.gitRepo}
			version, err := uc.Execute(
				cmd.Context(),
				domain.Template(settings.VersionFormat),
				settings.StartingVersion,
			)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&resolveFormat, "format", "", "Version format template with {tag} and {sha} placeholders")
	cmd.Flags().StringVar(&resolveStartingVersion, "starting-version", "", "Version to use when the repository has no tags")
	return cmd
}
