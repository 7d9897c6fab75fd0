package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soocke/captol-go/config"
)

var rootCmd = &cobra.Command{
	Use:   "captol",
	Short: "Periodic screen region capture without duplicates",
	Long: `Captol captures a fixed screen region at a fixed interval and saves one
numbered image per distinct visual state, skipping frames that did not change.

With enable_active_image_saver set, a transient frame saved between two
identical ones (a cursor flash, a half-rendered slide) is removed again and
the numbering stays contiguous.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/captol/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug loggers")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Capture flags shared by run, snap, gui and status.
	pf := rootCmd.PersistentFlags()
	pf.String("rect", "", "capture rectangle as x,y,width,height (overrides --region)")
	pf.String("region", "", "name of a configured region")
	pf.String("dir", "", "folder receiving the numbered images")
	pf.String("ext", "", "image format: png, bmp or tiff")
	pf.Float64("interval", 0, "seconds between automatic captures")
	pf.Bool("active", false, "enable the flicker-correcting active image saver")
	_ = viper.BindPFlag("capture.region", pf.Lookup("region"))
	_ = viper.BindPFlag("capture.default_folder", pf.Lookup("dir"))
	_ = viper.BindPFlag("capture.extension", pf.Lookup("ext"))
	_ = viper.BindPFlag("capture.autoclip_interval", pf.Lookup("interval"))
	_ = viper.BindPFlag("capture.enable_active_image_saver", pf.Lookup("active"))
}

func initConfig() {
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/captol")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CAPTOL")
	// CAPTOL_CAPTURE_AUTOCLIP_INTERVAL for capture.autoclip_interval
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.ReadInConfig()
}
