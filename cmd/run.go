package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soocke/captol-go/app"
	"github.com/soocke/captol-go/config"
	"github.com/soocke/captol-go/debug"
	"github.com/soocke/captol-go/domain/session"
)

const debugLogInterval = 5 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Capture the region periodically until interrupted",
	Long: `Capture the configured region every autoclip_interval seconds and save
one numbered image per distinct screen state. Stops on Ctrl+C.

Edits to the config file take effect immediately: the session is stopped,
the new folder, format, interval and policy are applied and capture resumes.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// commandEnv is the shared setup of the capture commands.
type commandEnv struct {
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
}

func loadEnv() (*commandEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := openLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return &commandEnv{cfg: cfg, logger: logger, closeLog: closeLog}, nil
}

func (e *commandEnv) startDebug(ctx context.Context) {
	if !e.cfg.Debug {
		return
	}
	debug.StartGoroutineLogger(ctx, debugLogInterval, e.logger)
	debug.StartMemLogger(ctx, debugLogInterval, e.logger)
}

func runRun(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer env.closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	env.startDebug(ctx)

	c, err := app.BuildContainer(env.cfg, env.logger, session.NopNotifier{}, nil)
	if err != nil {
		return err
	}
	rect, _ := cmd.Flags().GetString("rect")
	runner := app.NewRunner(c, rect, session.NopNotifier{})

	if viper.ConfigFileUsed() != "" {
		viper.OnConfigChange(func(e fsnotify.Event) {
			next, err := config.Load()
			if err != nil {
				env.logger.Error("config.reload", "file", e.Name, "error", err)
				return
			}
			runner.Reload(next)
		})
		viper.WatchConfig()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Capturing into %s every %s (Ctrl+C to stop)\n",
		c.Counter.Dir(), env.cfg.Capture.AutoclipDuration())
	if err := runner.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderSessionStats(c.Session.Stats()))
	return nil
}

func renderSessionStats(st session.Stats) string {
	return renderFields("Capture session", []field{
		{key: "folder", value: st.Dir},
		{key: "policy", value: st.Policy},
		{key: "images", value: strconv.Itoa(st.Total)},
		{key: "today", value: strconv.Itoa(st.Today)},
		{key: "ticks", value: strconv.FormatUint(st.Ticks, 10)},
		{key: "saved", value: strconv.FormatUint(st.Saved, 10)},
		{key: "unchanged", value: strconv.FormatUint(st.Released, 10)},
		{key: "corrected", value: strconv.FormatUint(st.Corrected, 10)},
		{key: "skipped", value: strconv.FormatUint(st.Skipped, 10)},
		{key: "failed", value: strconv.FormatUint(st.Failed, 10), warn: st.Failed > 0},
		{key: "avg capture", value: st.Capture.AvgCapture.String()},
	})
}
