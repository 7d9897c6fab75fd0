package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soocke/captol-go/app"
	"github.com/soocke/captol-go/domain/session"
)

var snapCmd = &cobra.Command{
	Use:   "snap",
	Short: "Capture the region once and save it unconditionally",
	RunE:  runSnap,
}

func init() {
	rootCmd.AddCommand(snapCmd)
}

func runSnap(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer env.closeLog()

	rect, _ := cmd.Flags().GetString("rect")
	r, err := app.ResolveRegion(env.cfg, rect)
	if err != nil {
		return err
	}
	c, err := app.BuildContainer(env.cfg, env.logger, session.NopNotifier{}, nil)
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.Session.Register(r); err != nil {
		return err
	}
	if _, err := c.Session.Snap(); err != nil {
		return err
	}
	st := c.Session.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d images, %d today)\n", st.LastSaved, st.Total, st.Today)
	return nil
}
