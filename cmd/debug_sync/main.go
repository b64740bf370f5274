package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"go-studio-crm/internal/config"
	"go-studio-crm/internal/database"
	"go-studio-crm/internal/features/comments"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Inspect and repair comment sync state for a client from the shell:
//
//	go run ./cmd/debug_sync -client <id> -action compare|force-sync|dump
//	go run ./cmd/debug_sync -action sweep
func main() {
	clientID := flag.String("client", "", "client document id")
	action := flag.String("action", "compare", "compare, force-sync, dump or sweep")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer client.Disconnect(ctx)

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	dbWrap := &database.MongodbDB{DB: client.Database(cfg.DBName)}
	store := comments.NewMongoStore(dbWrap)
	diag := comments.NewDiagnostics(store, comments.NewSynchronizer(store, logger), logger)

	if *action != "sweep" && *clientID == "" {
		flag.Usage()
		os.Exit(2)
	}

	var result any
	switch *action {
	case "compare":
		result = diag.Compare(ctx, *clientID)
	case "force-sync":
		result = diag.ForceSync(ctx, *clientID)
	case "dump":
		result = diag.DumpState(ctx, *clientID)
	case "sweep":
		sweep, err := diag.Sweep(ctx)
		if err != nil {
			log.Fatalf("Sweep failed: %v", err)
		}
		result = sweep
	default:
		log.Fatalf("Unknown action: %s", *action)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(out))
}
