package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/rewear/internal/client/cli"
	"github.com/dmitrijs2005/rewear/internal/client/client"
	"github.com/dmitrijs2005/rewear/internal/client/config"
	"github.com/dmitrijs2005/rewear/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/rewear/internal/client/services"
	"github.com/dmitrijs2005/rewear/internal/filex"
	"github.com/dmitrijs2005/rewear/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.New(logging.FormatText, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		log.Fatalf("error preparing data dir: %v", err)
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, "session.db"))
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer db.Close()

	rpc, err := client.NewGRPCClient(cfg.ServerEndpointAddr, cfg.RequestTimeout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer rpc.Close()

	auth := services.NewAuthService(rpc, metadata.NewSQLiteRepository(db), logger)

	app := cli.NewApp(cfg, auth, rpc, logger, os.Stdin, os.Stdout)
	app.Run(ctx)

}
