package main

import (
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yumyai/gcfnet/logger"
	"github.com/yumyai/gcfnet/pkg/model"
	"github.com/yumyai/gcfnet/pkg/pipeline"
	"github.com/yumyai/gcfnet/pkg/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	gcfnet_data string
	gcfnet_out  string
)

func main() {

	// Establish logger
	VERSION := "0.1.0"
	LOG_LEVEL := zapcore.InfoLevel

	if err := logger.InitLogger(LOG_LEVEL); err != nil {
		panic(err)
	}

	// Try load env
	dotenvErr := godotenv.Load()

	if dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	defer logger.Sync() // Make sure that the buffered is flushed.

	gcfnet_data = os.Getenv("GCFNET_DATA")

	if gcfnet_data == "" {
		logger.Warn("No local environment (GCFNET_DATA), using default value (./data)")
		gcfnet_data = "./data"
	}

	gcfnet_out = os.Getenv("GCFNET_OUT")

	if gcfnet_out == "" {
		gcfnet_out = "./output"
	}

	dataset_json := path.Join(gcfnet_data, "bgc_dataset.json")
	results_db := path.Join(gcfnet_out, "gcfnet_results.db")

	logger.Info("Start:", zap.String("Version", VERSION))
	logger.Info("Loading dataset from", zap.String("DATASET", dataset_json))

	ds, err := pipeline.LoadDataset(dataset_json)
	if err != nil {
		logger.Fatal("Could not load dataset:", zap.String("error message", err.Error()))
	}

	cfg := configFromEnv()

	if err := os.MkdirAll(gcfnet_out, 0o755); err != nil {
		logger.Fatal("Could not create output folder:", zap.String("error message", err.Error()))
	}

	st, err := store.Open(results_db)
	if err != nil {
		logger.Fatal("Could not open results db:", zap.String("error message", err.Error()))
	}
	defer st.Close()

	p, err := pipeline.New(ds, cfg, gcfnet_out, st)
	if err != nil {
		logger.Fatal("Run setup failed:", zap.String("error message", err.Error()))
	}

	logger.Info("Run starting", zap.String("run_id", p.RunID),
		zap.Int("bgcs", len(ds.BGCs)), zap.String("mode", cfg.Mode))

	if runErr := p.Run(); runErr != nil {
		logger.Error("Run failed:", zap.String("error message", runErr.Error()))
		os.Exit(1)
	}

	logger.Info("Run complete", zap.String("run_id", p.RunID))
}

// configFromEnv assembles the run configuration from the environment,
// falling back to the usual defaults.
func configFromEnv() *model.RunConfig {
	cfg := &model.RunConfig{
		Cutoffs:           []float64{0.30, 0.70},
		ClanClustering:    true,
		ClanCutoff:        0.70,
		IncludeSingletons: false,
		Mode:              model.ModeGlocal,
		Hybrids:           true,
		QueryBGC:          -1,
	}

	if v := os.Getenv("GCFNET_CUTOFFS"); v != "" {
		var cutoffs []float64
		for _, part := range strings.Split(v, ",") {
			c, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				logger.Warn("Ignoring malformed cutoff", zap.String("value", part))
				continue
			}
			cutoffs = append(cutoffs, c)
		}
		if len(cutoffs) > 0 {
			cfg.Cutoffs = cutoffs
		}
	}
	if v := os.Getenv("GCFNET_CLAN_CUTOFF"); v != "" {
		if c, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ClanCutoff = c
		}
	}
	if v := os.Getenv("GCFNET_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("GCFNET_CORES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cores = n
		}
	}
	if v := os.Getenv("GCFNET_QUERY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.QueryBGC = n
		}
	}
	if os.Getenv("GCFNET_SINGLETONS") == "1" {
		cfg.IncludeSingletons = true
	}

	return cfg
}
