package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hlsub/internal/config"
	"hlsub/internal/version"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag      string
		folderFlag      string
		languagesFlag   []string
		formatFlag      string
		overwriteFlag   bool
		zipFlag         bool
		fixRTLFlag      bool
		keepDupesFlag   bool
		logLevelFlag    string
		logJSONFlag     bool
		noUpdateFlag    bool
		concurrencyFlag int
	)

	rootCmd := &cobra.Command{
		Use:           "hlsub [flags] URL...",
		Short:         "Download and convert subtitles from store movie pages",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFlag
			if path == "" {
				defaultPath, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			// Flags given on the command line win over the config file.
			flags := cmd.Flags()
			if flags.Changed("folder") {
				cfg.Downloads.Folder = folderFlag
			}
			if flags.Changed("language") {
				cfg.Downloads.Languages = languagesFlag
			}
			if flags.Changed("format") {
				cfg.Subtitles.Format = formatFlag
			}
			if flags.Changed("overwrite") {
				cfg.Downloads.OverwriteExisting = overwriteFlag
			}
			if flags.Changed("zip") {
				cfg.Downloads.Zip = zipFlag
			}
			if flags.Changed("fix-rtl") {
				cfg.Subtitles.FixRTL = fixRTLFlag
			}
			if flags.Changed("keep-duplicates") {
				cfg.Subtitles.RemoveDuplicates = !keepDupesFlag
			}
			if flags.Changed("log-level") {
				cfg.General.LogLevel = logLevelFlag
			}
			if flags.Changed("log-json") {
				cfg.General.LogJSON = logJSONFlag
			}
			if flags.Changed("no-update-check") {
				cfg.General.CheckForUpdates = !noUpdateFlag
			}
			if flags.Changed("concurrency") {
				cfg.HTTP.Concurrency = concurrencyFlag
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runDownload(cmd.Context(), cfg, args)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	flags.StringVarP(&folderFlag, "folder", "f", "", "Destination folder for subtitle files")
	flags.StringSliceVarP(&languagesFlag, "language", "l", nil, "Language codes to download (repeatable; default all)")
	flags.StringVar(&formatFlag, "format", "", "Output format (srt or vtt)")
	flags.BoolVar(&overwriteFlag, "overwrite", true, "Overwrite existing files")
	flags.BoolVar(&zipFlag, "zip", false, "Bundle multiple subtitle files into a zip archive")
	flags.BoolVar(&fixRTLFlag, "fix-rtl", false, "Fix directionality of right-to-left subtitles")
	flags.BoolVar(&keepDupesFlag, "keep-duplicates", false, "Keep duplicated cues instead of removing them")
	flags.StringVarP(&logLevelFlag, "log-level", "L", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&logJSONFlag, "log-json", false, "Emit log records as JSON lines")
	flags.BoolVar(&noUpdateFlag, "no-update-check", false, "Skip the release update check")
	flags.IntVar(&concurrencyFlag, "concurrency", 0, "Maximum parallel segment downloads")

	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hlsub %s\n", version.Version)
		},
	}
}
