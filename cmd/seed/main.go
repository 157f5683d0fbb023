package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/addissongs/song-service/internal/config"
	"github.com/addissongs/song-service/internal/database"
	"github.com/addissongs/song-service/internal/seed"
	"github.com/addissongs/song-service/internal/song/repository"
	"github.com/addissongs/song-service/pkg/logger"
)

func main() {
	keep := flag.Bool("keep", false, "keep existing documents instead of wiping the collection first")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("cannot load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		logger.Fatalf("cannot connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	col := client.Database(cfg.MongoDB.Database).Collection("songs")

	if !*keep {
		res, err := col.DeleteMany(ctx, bson.M{})
		if err != nil {
			logger.Fatalf("cannot clear songs collection: %v", err)
		}
		logger.Infof("cleared %d existing songs", res.DeletedCount)
	}

	repo := repository.NewMongoRepo(col, cfg.MongoDB.QueryTimeout)

	n, err := seed.Run(ctx, repo)
	if err != nil {
		logger.Fatalf("seeding failed after %d songs: %v", n, err)
	}
	logger.Infof("seeded %d songs into %s.songs", n, cfg.MongoDB.Database)
}
