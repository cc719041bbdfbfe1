// Command corpusctl validates the corpus files and publishes them to the
// key-value store read by the redis corpus driver.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/agentcommerce/internal/config"
	dbRedis "github.com/kailas-cloud/agentcommerce/internal/db/redis"
	logpkg "github.com/kailas-cloud/agentcommerce/internal/logger"
	"github.com/kailas-cloud/agentcommerce/internal/repository/catalog"
	"github.com/kailas-cloud/agentcommerce/internal/repository/corpus"
)

func main() {
	validateOnly := flag.Bool("validate", false, "only validate the corpus files, do not publish")
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(&cfg, *validateOnly, logger); err != nil {
		logger.Error("corpusctl failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, validateOnly bool, logger *zap.Logger) error {
	entities, err := corpus.LoadFile(cfg.Corpus.Path)
	if err != nil {
		return err
	}
	menus, err := catalog.LoadMenusFile(cfg.Corpus.MenusPath)
	if err != nil {
		return err
	}
	logger.Info("Corpus files valid",
		zap.String("path", cfg.Corpus.Path),
		zap.Int("entities", entities.Len()),
		zap.Int("menus", len(menus)),
	)
	if validateOnly {
		return nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	corpusJSON, err := corpus.Encode(entities)
	if err != nil {
		return err
	}
	menusJSON, err := catalog.EncodeMenus(menus)
	if err != nil {
		return err
	}
	// Both keys share a hash tag, so the transaction also works on a cluster.
	if err := store.SetAll(ctx, map[string][]byte{
		cfg.Corpus.Key:      corpusJSON,
		cfg.Corpus.MenusKey: menusJSON,
	}); err != nil {
		return fmt.Errorf("publish corpus: %w", err)
	}
	logger.Info("Corpus published", zap.String("key", cfg.Corpus.Key), zap.String("menus_key", cfg.Corpus.MenusKey))
	return nil
}
