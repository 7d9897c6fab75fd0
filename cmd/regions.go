package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soocke/captol-go/config"
	"github.com/soocke/captol-go/domain/region"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List, add or remove named capture regions",
	RunE:  runRegionsList,
}

var regionsAddCmd = &cobra.Command{
	Use:   "add <name> <x,y,width,height>",
	Short: "Add or replace a named region",
	Args:  cobra.ExactArgs(2),
	RunE:  runRegionsAdd,
}

var regionsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a named region",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegionsRemove,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
	regionsCmd.AddCommand(regionsAddCmd)
	regionsCmd.AddCommand(regionsRemoveCmd)
	regionsAddCmd.Flags().Bool("use", false, "make this the active region")
}

func runRegionsList(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	names := cfg.RegionNames()
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No regions configured. Add one with: captol regions add NAME x,y,width,height")
		return nil
	}
	fields := make([]field, 0, len(names))
	for _, n := range names {
		key := n
		if n == cfg.Capture.Region {
			key = n + " *"
		}
		fields = append(fields, field{key: key, value: cfg.Regions[n].String()})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderFields("Regions", fields))
	return nil
}

func runRegionsAdd(cmd *cobra.Command, args []string) error {
	r, err := region.Parse(args[1])
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Regions[args[0]] = r
	if use, _ := cmd.Flags().GetBool("use"); use {
		cfg.Capture.Region = args[0]
	}
	path, err := saveConfig(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Region %s = %s saved to %s\n", args[0], r, path)
	return nil
}

func runRegionsRemove(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if _, ok := cfg.Regions[args[0]]; !ok {
		return fmt.Errorf("unknown region %q", args[0])
	}
	delete(cfg.Regions, args[0])
	if cfg.Capture.Region == args[0] {
		cfg.Capture.Region = ""
	}
	path, err := saveConfig(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Region %s removed from %s\n", args[0], path)
	return nil
}

// saveConfig writes cfg to the active config file, or the default path.
func saveConfig(cfg *config.Config) (string, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		path = config.ConfigFile()
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return "", config.ValidationErrors(errs)
	}
	if err := cfg.Save(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
