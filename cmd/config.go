package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/soocke/captol-go/config"
	"github.com/soocke/captol-go/domain/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify Captol configuration",
	Long: `View or modify Captol configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Valid keys:
  capture.autoclip_interval          - Seconds between automatic captures
  capture.enable_active_image_saver  - Undo transient saves (true/false)
  capture.extension                  - Image format: png, bmp, tiff
  capture.default_folder             - Folder receiving the images
  capture.region                     - Name of the active region
  overlay.enabled                    - Show the capture indicator (true/false)
  overlay.flash_ms                   - Indicator flash length in milliseconds
  logging.level                      - debug, info, warn, error
  logging.file                       - Log file (empty for stderr)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	validKeys := map[string]string{
		"capture.autoclip_interval":         "float",
		"capture.enable_active_image_saver": "bool",
		"capture.extension":                 "string",
		"capture.default_folder":            "string",
		"capture.region":                    "string",
		"overlay.enabled":                   "bool",
		"overlay.flash_ms":                  "int",
		"logging.level":                     "string",
		"logging.file":                      "string",
	}
	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'captol config set --help' to see valid keys", key)
	}

	var typedValue any
	switch keyType {
	case "string":
		if key == "capture.extension" {
			if _, err := storage.CodecFor(value); err != nil {
				return fmt.Errorf("invalid value for %s: %s\nValid options: %s", key, value, strings.Join(storage.Extensions(), ", "))
			}
		}
		typedValue = value
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = b
	case "int":
		i, err := strconv.Atoi(value)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid value for %s: expected a positive integer", key)
		}
		typedValue = i
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid value for %s: expected a positive number", key)
		}
		typedValue = f
	}

	viper.Set(key, typedValue)
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path, err := saveConfig(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\nConfig saved to %s\n", key, typedValue, path)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'captol config set' to modify values", configFile)
	}
	if err := config.Default().Save(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	fmt.Fprintln(cmd.OutOrStdout(), "Add capture regions with 'captol regions add NAME x,y,width,height'.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintln(out, "  2. $HOME/.config/captol/config.yaml")
	fmt.Fprintln(out, "  3. ./config.yaml (current directory)")
	fmt.Fprintln(out, "\nEnvironment variables: CAPTOL_* (e.g., CAPTOL_CAPTURE_AUTOCLIP_INTERVAL)")
	return nil
}
