package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"qatbot/internal/chunker"
	"qatbot/internal/config"
	"qatbot/internal/db"
	"qatbot/internal/embedding"
	"qatbot/internal/llmservice"
	"qatbot/internal/rag"
	"qatbot/internal/server"
	"qatbot/internal/vectorstore"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	ctx := context.Background()

	dbConn, err := db.Connect(cfg.Ledger.Path, cfg.Ledger.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening ledger database")
	}
	defer dbConn.Close()
	if err := db.InitDB(ctx, dbConn); err != nil {
		log.Fatal().Err(err).Msg("Error initializing ledger database")
	}
	ledger := db.NewLedger(dbConn)

	embedder, err := embedding.New(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	store, err := vectorstore.New(cfg.RAG.IndexPath, cfg.RAG.CollectionName, embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}

	gen, err := llmservice.New(&cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing llm client")
	}

	splitter := chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	pipeline := rag.NewPipeline(store, gen, ledger, cfg.RAG.TopK)
	evaluator := rag.NewEvaluator(gen)

	srv := server.New(store, splitter, pipeline, evaluator, ledger, cfg.Server.Addr)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during shutdown")
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server error")
	}
}
