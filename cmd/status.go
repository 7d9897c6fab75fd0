package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soocke/captol-go/app"
	"github.com/soocke/captol-go/config"
	"github.com/soocke/captol-go/domain/capture"
	"github.com/soocke/captol-go/domain/policy"
	"github.com/soocke/captol-go/domain/region"
	"github.com/soocke/captol-go/domain/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the save folder, image counts and capture settings",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	counter := storage.NewCounter(cfg.Capture.Extension)
	if err := counter.ChangeDir(cfg.Capture.DefaultFolder); err != nil {
		return err
	}

	regionText := "(none)"
	regionWarn := false
	rect, _ := cmd.Flags().GetString("rect")
	if r, err := app.ResolveRegion(cfg, rect); err == nil {
		regionText = r.String()
		if rect == "" {
			regionText = cfg.Capture.Region + " " + regionText
		}
		if screen, err := capture.ScreenBounds(); err == nil && !r.Bounds().In(screen) {
			regionText += " (exceeds screen " + region.FromBounds(screen).String() + ")"
			regionWarn = true
		}
	}
	configText := viper.ConfigFileUsed()
	if configText == "" {
		configText = "(defaults)"
	}

	fields := []field{
		{key: "config", value: configText},
		{key: "folder", value: counter.Dir()},
		{key: "format", value: counter.Ext()},
		{key: "images", value: strconv.Itoa(counter.Total())},
		{key: "today", value: strconv.Itoa(counter.Today())},
		{key: "next", value: filepath.Base(counter.NextSavePath())},
		{key: "region", value: regionText, warn: regionWarn},
		{key: "interval", value: cfg.Capture.AutoclipDuration().String()},
		{key: "policy", value: policy.ForConfig(cfg.Capture.EnableActiveImageSaver).Name()},
	}
	if _, err := os.Stat(filepath.Join(counter.Dir(), storage.JournalName)); err == nil {
		fields = append(fields, field{key: "journal", value: "interrupted correction pending", warn: true})
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderFields("Captol", fields))
	return nil
}
