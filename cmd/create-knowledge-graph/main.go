package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sysbiokgs/internal/config"
	"sysbiokgs/internal/util"
	"sysbiokgs/pkg/adapter"
	"sysbiokgs/pkg/adapter/csvres"
	"sysbiokgs/pkg/adapter/sbgn"
	"sysbiokgs/pkg/logger"
	"sysbiokgs/pkg/logger/console"
	"sysbiokgs/pkg/store"
	"sysbiokgs/pkg/store/batch"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	configPath := util.GetEnvString("CONFIG_PATH", "config/create_knowledge_graph.yaml")
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("Could not load configuration", "err", err)
	}

	graphAdapter := buildAdapter(cfg)

	if !graphAdapter.Validate() {
		logger.Fatal("Data source validation failed", "data_source", cfg.Adapter.DataSource)
	}

	metadata := graphAdapter.Metadata()
	logger.Info("Starting knowledge graph creation",
		"adapter", metadata["adapter_class"],
		"data_source", metadata["data_source"],
		"data_type", metadata["data_type"],
	)

	writer, err := batch.NewBatchWriter(batch.NewBatchWriterParams{
		OutputDir: cfg.Writer.OutputDir,
	})
	if err != nil {
		logger.Fatal("Could not create batch writer", "err", err)
	}

	if err := writeGraph(ctx, graphAdapter, writer); err != nil {
		logger.Fatal("Knowledge graph creation failed", "err", err)
	}

	logger.Info("Knowledge graph creation completed")
}

func buildAdapter(cfg *config.Config) adapter.GraphAdapter {
	switch cfg.Adapter.Kind {
	case config.AdapterKindCSV:
		csvAdapter, err := csvres.NewCSVAdapter(csvres.NewCSVAdapterParams{
			DataSource: cfg.Adapter.DataSource,
			Relations:  cfg.Adapter.Relations,
		})
		if err != nil {
			logger.Fatal("Could not create CSV adapter", "err", err)
		}
		return csvAdapter
	default:
		sbgnAdapter, err := sbgn.NewSBGNAdapter(sbgn.NewSBGNAdapterParams{
			DataSource: cfg.Adapter.DataSource,
			Parser:     sbgn.ParserCapability(cfg.Adapter.Parser),
		})
		if err != nil {
			logger.Fatal("Could not create SBGN adapter", "err", err)
		}
		return sbgnAdapter
	}
}

func writeGraph(ctx context.Context, graphAdapter adapter.GraphAdapter, writer store.GraphWriter) error {
	nodes, err := graphAdapter.Nodes()
	if err != nil {
		return err
	}
	if err := writer.WriteNodes(ctx, nodes); err != nil {
		return err
	}

	edges, err := graphAdapter.Edges()
	if err != nil {
		return err
	}
	if err := writer.WriteEdges(ctx, edges); err != nil {
		return err
	}

	return writer.Summary(ctx)
}
