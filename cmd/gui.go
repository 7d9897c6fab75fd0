package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soocke/captol-go/app"
	"github.com/soocke/captol-go/config"
	"github.com/soocke/captol-go/ui"
	"github.com/soocke/captol-go/ui/view"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the capture window",
	Long: `Open a window to pick the capture region, start and stop periodic
capture, take manual snaps and edit the configuration. The last saved image
is previewed and the captured area flashes briefly after every save.`,
	RunE: runGUI,
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

func runGUI(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer env.closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	env.startDebug(ctx)

	overlay := view.NewOverlay(env.cfg.Overlay)
	c, err := app.BuildContainer(env.cfg, env.logger, overlay, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	cfgPath := viper.ConfigFileUsed()
	if cfgPath == "" {
		cfgPath = config.ConfigFile()
	}
	rect, _ := cmd.Flags().GetString("rect")
	return ui.New(ctx, c, overlay, cfgPath, rect, env.logger).Run()
}
