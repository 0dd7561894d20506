package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/VantageDataChat/GoDeck/assemble"
	"github.com/VantageDataChat/GoDeck/config"
	"github.com/VantageDataChat/GoDeck/engine"
	"github.com/VantageDataChat/GoDeck/media"
	"github.com/VantageDataChat/GoDeck/pptx"
)

// Build information (set by goreleaser)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var logFlags = logger.Flags{
	Level:       "info",
	LogToStderr: true,
}

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bindLogFlags(flags *pflag.FlagSet) {
	flags.CountVarP(&logFlags.LevelCount, "loglevel", "v", "Increase logging level")
	flags.StringVar(&logFlags.Level, "log-level", "info", "Set the default log level")
	flags.BoolVar(&logFlags.JsonLogs, "json-logs", false, "Print logs in json format to stderr")
	flags.BoolVar(&logFlags.ReportCaller, "report-caller", false, "Report log caller info")
}

func newRootCommand() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "deckgen",
		Short: "Render slide decks from YAML descriptions",
		Long: `deckgen plans and renders PowerPoint decks. A deck file lists sections
(planned into slides automatically) or explicit slides; layout, font sizes
and text colours are chosen deterministically.`,
		Example: `  deckgen plan pitch.yaml
  deckgen build pitch.yaml -o pitch.pptx --report
  deckgen build pitch.yaml --preview previews/
  deckgen inspect pitch.pptx`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Configure(logFlags)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML file overriding the engine defaults")
	bindLogFlags(rootCmd.PersistentFlags())

	loadConfig := func() (*config.Config, error) {
		return config.Load(configFile)
	}

	rootCmd.AddCommand(newBuildCommand(loadConfig))
	rootCmd.AddCommand(newPlanCommand(loadConfig))
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

type configLoader func() (*config.Config, error)

func newBuildCommand(loadConfig configLoader) *cobra.Command {
	var (
		output       string
		mediaRoot    string
		previewDir   string
		printReport  bool
		reproducible bool
	)

	cmd := &cobra.Command{
		Use:   "build <deck.yaml>",
		Short: "Render a deck to .pptx",
		Long: `Render a deck description to a .pptx file. Media references are read
from --media (default: the deck file's directory). Slides whose media cannot
be loaded get a placeholder; the build still succeeds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			deck, err := loadDeck(args[0])
			if err != nil {
				return err
			}
			if mediaRoot == "" {
				mediaRoot = filepath.Dir(args[0])
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".pptx"
			}

			stamp := assemble.Epoch
			if !reproducible {
				stamp = time.Now().UTC().Truncate(time.Second)
			}
			e := engine.New(cfg,
				engine.WithFetcher(media.FileFetcher{Root: mediaRoot, MaxBytes: cfg.MaxImageBytes}),
				engine.WithAssembler(assemble.New(assemble.WithTime(stamp))),
			)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := e.Save(ctx, deck.document(e), output)
			if err != nil {
				return err
			}
			if degraded := res.Degraded(); len(degraded) > 0 {
				logger.Warnf("%d slides degraded: %v", len(degraded), degraded)
			}
			if previewDir != "" {
				paths, err := res.Presentation.SavePreviews(previewDir, pptx.DefaultPreviewOptions())
				if err != nil {
					return fmt.Errorf("failed to write previews: %w", err)
				}
				logger.Infof("wrote %d previews to %s", len(paths), previewDir)
			}
			if printReport {
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(report(res.Document))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d slides)\n", output, len(res.Document.Slides))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output .pptx path (default: deck name with .pptx)")
	cmd.Flags().StringVar(&mediaRoot, "media", "", "Directory media references are resolved against")
	cmd.Flags().StringVar(&previewDir, "preview", "", "Also write a PNG preview of every slide into this directory")
	cmd.Flags().BoolVar(&printReport, "report", false, "Print the per-slide layout decisions as YAML")
	cmd.Flags().BoolVar(&reproducible, "reproducible", false, "Stamp the document with a fixed time so identical input gives identical output")
	return cmd
}

func newPlanCommand(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <deck.yaml>",
		Short: "Print the slide plan for a deck without rendering it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			deck, err := loadDeck(args[0])
			if err != nil {
				return err
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(deck.document(engine.New(cfg)))
		},
	}
}

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <deck.pptx>",
		Short: "Summarize the slides of a .pptx package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := pptx.OpenPackage(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", info.Title)
			fmt.Fprintf(out, "canvas: %.2f x %.2f in, %d slides\n",
				float64(info.SlideWidth)/float64(pptx.Inch(1)), float64(info.SlideHeight)/float64(pptx.Inch(1)), len(info.Slides))
			for i, s := range info.Slides {
				fmt.Fprintf(out, "%3d  %-40s pictures=%d charts=%d tables=%d\n", i+1, s.Title, s.Pictures, s.Charts, s.Tables)
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), getVersionInfo())
		},
	}
}

func getVersionInfo() string {
	return fmt.Sprintf("deckgen %s (commit: %s, built: %s, go: %s, pptx writer %s)",
		version, commit, date, runtime.Version(), pptx.Version)
}
