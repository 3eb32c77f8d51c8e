package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load fixture data into the configured store",
	Long: `Load the embedded fixture users or requests into the configured store
without starting the server. Users are merged into the roster; requests
replace the current list.`,
}

var seedUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Merge fixture users into the roster",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		seeds, err := a.users.SeedFixtureData(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, roster now has %d\n", len(seeds), len(a.users.Users()))
		return nil
	},
}

var seedRequestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Replace the request list with fixture requests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		seeds, err := a.requests.SeedFixtureData(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d requests\n", len(seeds))
		return nil
	},
}

func init() {
	seedCmd.AddCommand(seedUsersCmd, seedRequestsCmd)
}
