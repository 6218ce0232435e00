// Package cli provides the sapstack command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sapstack",
		Short: "Sapstack runs git-shaped stacked-diff commands against a Sapling checkout",
		Long: `Sapstack translates the git commands issued by stacked-diff tooling into
Sapling (EdenSCM) invocations, letting the tooling operate against a Sapling
checkout whose history lives in a backing bare Git repository.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newGitCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPRCmd())

	return rootCmd
}
