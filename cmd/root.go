package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bk",
		Short:         "Bilibili live keeper (bk): scheduled account upkeep",
		Long:          "bk keeps bilibili live accounts warm: presence heartbeats, daily sign-in, treasure-box claims, and event-room heartbeat chains, driven by a single scheduler process.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newAuthCmd(app),
		newRoomCmd(app),
		newStatusCmd(app),
		newCheckCmd(app),
		newWatchCmd(app),
	)

	return rootCmd
}
