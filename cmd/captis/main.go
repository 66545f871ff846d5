package main

import (
	"fmt"
	"os"

	"github.com/klarity-app/captis/internal/config"
	"github.com/klarity-app/captis/internal/logging"
	"github.com/klarity-app/captis/internal/rdisplay"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// flagKeys maps command line flags to configuration keys. Only flags
// present on the running command are bound.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"display":    "x11.display",
	"out":        "output.dir",
	"format":     "output.format",
	"quality":    "output.quality",
	"max-width":  "output.max_width",
	"prefix":     "output.prefix",
	"addr":       "server.addr",
}

var (
	v      = viper.New()
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:          "captis",
	Short:        "Screen capture tool",
	Long:         `captis enumerates the displays of the running desktop session and captures them as PNG or JPEG.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return err
				}
			}
		}
		if noShm, _ := cmd.Flags().GetBool("no-shm"); noShm {
			v.Set("x11.shm", false)
		}

		configPath, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(v, configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return fmt.Errorf("failed to init logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("captis %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(displaysCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(serveCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Config file path")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console, json)")
	flags.String("display", "", "X11 display to capture, defaults to $DISPLAY")
	flags.Bool("no-shm", false, "Disable the X11 shared memory fast path")
}

// newCapturer opens the platform backend with the loaded configuration.
func newCapturer() (rdisplay.Capturer, error) {
	opts := []rdisplay.Option{
		rdisplay.WithLogger(logger),
		rdisplay.WithDisplayName(cfg.X11.Display),
	}
	if !cfg.X11.SHM {
		opts = append(opts, rdisplay.WithoutSharedMemory())
	}
	capturer, err := rdisplay.NewCapturer(opts...)
	if err != nil {
		return nil, fmt.Errorf("can't init capture: %w", err)
	}
	return capturer, nil
}

func primaryIndex(c rdisplay.Capturer) int {
	if p, ok := c.(rdisplay.PrimaryCapturer); ok {
		return p.PrimaryIndex()
	}
	return 0
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
