package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dataveil/dataveil/internal/config"
	"github.com/dataveil/dataveil/internal/engine"
	"github.com/dataveil/dataveil/internal/logger"
	"github.com/dataveil/dataveil/internal/pipeline"
	"github.com/dataveil/dataveil/internal/redact"
	"github.com/dataveil/dataveil/internal/report"
	"github.com/dataveil/dataveil/internal/state"
)

var (
	cfgFile    string
	inputPath  string
	outputPath string
	reportPath string
	saltFlag   string
	entities   string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "dataveil",
	Short: "Anonymize PII in CSV, Excel and PDF files",
	Long: `dataveil detects personally identifiable information in tabular files
and PDF text and replaces it with deterministic hash tokens or literal
placeholders, producing an anonymized copy of the data.`,

	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := setup(cmd)
		defer log.Sync()

		log.Info("Starting dataveil",
			zap.String("version", version),
			zap.String("commit", commit),
			zap.String("input", inputPath))

		salt, err := resolveSalt(cfg, log)
		if err != nil {
			log.Fatal("Failed to resolve anonymization salt", zap.Error(err))
		}

		pipe, err := buildPipeline(cfg, salt, log)
		if err != nil {
			log.Fatal("Failed to build pipeline", zap.Error(err))
		}

		result, err := pipe.Run(inputPath, outputPath)
		if err != nil {
			log.Fatal("Anonymization failed", zap.Error(err))
		}

		if outputPath == "" {
			log.Info("No output path supplied, nothing written",
				zap.Int("findings", len(result.Findings)))
		}

		if reportPath != "" {
			rows := report.Rows(result.RunID, inputPath, result.Findings)
			if err := report.Write(reportPath, rows); err != nil {
				log.Fatal("Failed to write findings report", zap.Error(err))
			}
			log.Info("Findings report written", zap.String("path", reportPath))
		}
	},
}

// Execute runs the root command
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "",
		"path to the input file (.csv, .xls, .xlsx, .pdf)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"path for the anonymized output; omit to run without writing")
	rootCmd.Flags().StringVar(&reportPath, "report", "",
		"path for a findings report (.csv or .parquet)")
	rootCmd.MarkFlagRequired("input")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&saltFlag, "salt", "",
		"anonymization salt; overrides the configured and persisted salt")
	rootCmd.PersistentFlags().StringVar(&entities, "entities", "",
		"comma-separated entity types to detect; overrides the configured list")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format (console, json)")
}

// setup loads configuration, applies flag overrides and builds the logger.
// It never returns on failure: before a logger exists there is nowhere to
// report but stderr.
func setup(cmd *cobra.Command) (*config.Config, *logger.Logger) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if entities != "" {
		cfg.Engine.Entities = splitEntities(entities)
	}

	loggerConfig := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File.Enabled {
		loggerConfig.File = &logger.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		}
	}

	log, err := logger.New(loggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	return cfg, log
}

// resolveSalt picks the salt for hash operators: the --salt flag wins, then
// the configured value, then the per-installation salt persisted in the
// state store.
func resolveSalt(cfg *config.Config, log *logger.Logger) (string, error) {
	if saltFlag != "" {
		return saltFlag, nil
	}
	if cfg.Anonymize.Salt != "" {
		return cfg.Anonymize.Salt, nil
	}

	path := cfg.State.Path
	if path == "" {
		var err error
		path, err = state.DefaultPath()
		if err != nil {
			return "", err
		}
	}

	store, err := state.Open(path, log)
	if err != nil {
		return "", err
	}
	defer store.Close()

	return store.Salt()
}

// buildPipeline assembles the detection and redaction stack
func buildPipeline(cfg *config.Config, salt string, log *logger.Logger) (*pipeline.Pipeline, error) {
	registry, err := engine.NewRegistry(cfg.Engine.Recognizers)
	if err != nil {
		return nil, err
	}

	analyzer := engine.NewAnalyzer(registry, cfg.Engine, log)
	anonymizer := engine.NewAnonymizer(cfg.Anonymize, salt, log)
	redactor := redact.New(analyzer, anonymizer, cfg.Engine.Entities, log)

	return pipeline.New(cfg, redactor, log), nil
}

func splitEntities(list string) []string {
	var out []string
	for _, entity := range strings.Split(list, ",") {
		if entity = strings.TrimSpace(entity); entity != "" {
			out = append(out, entity)
		}
	}
	return out
}
