package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/mamaope/legalconsult/internal/api"
	"github.com/mamaope/legalconsult/internal/ingest"
	"github.com/mamaope/legalconsult/internal/llm"
	"github.com/mamaope/legalconsult/internal/models"
	"github.com/mamaope/legalconsult/internal/store"
)

type cliFlags struct {
	DB         string        `name:"db" default:"data/legalconsult.db" help:"Path to SQLite database."`
	Port       string        `name:"port" default:"8080" env:"PORT" help:"HTTP server port."`
	Model      string        `name:"model" default:"gpt-4o" env:"CONSULT_MODEL" help:"Chat completion model."`
	Retention  time.Duration `name:"retention" default:"720h" env:"SESSION_RETENTION" help:"Retention window for inactive sessions."`
	CorpusHost string        `name:"corpus-host" env:"CORPUS_FTP_HOST" help:"Corpus FTP mirror host:port. Empty disables corpus refresh."`
	CorpusPath string        `name:"corpus-path" default:"/" env:"CORPUS_FTP_PATH" help:"Directory on the corpus mirror."`
	NoSchedule bool          `name:"no-schedule" help:"Disable background maintenance jobs (server only, for local dev)."`
	IngestOnce bool          `name:"ingest-once" help:"Refresh the corpus once and exit."`
	PruneOnce  bool          `name:"prune-once" help:"Run session retention pruning once and exit."`
}

func main() {
	var cli cliFlags
	kong.Parse(&cli,
		kong.Name("legalconsult"),
		kong.Description("Consultation chat service: session store, model gateway and response renderer."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db, time.UTC)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	if err := st.UpsertUser(models.User{ID: "local", Email: "local@localhost", FullName: "Local User", Active: true}); err != nil {
		log.Fatalf("seed user: %v", err)
	}

	var corpus *ingest.CorpusClient
	if cli.CorpusHost != "" {
		corpus = ingest.NewCorpusClient(cli.CorpusHost, cli.CorpusPath)
	}

	cache := llm.NewCache(llm.DefaultCacheTTL)
	scheduler := ingest.NewScheduler(st, corpus, cache, cli.Retention)

	if cli.IngestOnce {
		log.Println("running single corpus refresh")
		if err := scheduler.IngestOnce(); err != nil {
			log.Fatalf("ingest: %v", err)
		}
		log.Println("done")
		return
	}

	if cli.PruneOnce {
		log.Println("running single retention pass")
		if err := scheduler.PruneOnce(); err != nil {
			log.Fatalf("prune: %v", err)
		}
		log.Println("done")
		return
	}

	var completer llm.Completer
	if client, err := llm.NewClient(cli.Model); err != nil {
		log.Printf("model gateway disabled: %v", err)
	} else {
		completer = client
		log.Printf("model gateway enabled (%s)", cli.Model)
	}

	server := api.NewServer(st, completer, cache, cli.Port)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !cli.NoSchedule {
		go scheduler.Run(ctx)
	} else {
		log.Println("maintenance jobs disabled (--no-schedule)")
	}

	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
