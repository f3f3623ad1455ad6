package main

import (
	"context"
	"fmt"
	"os"

	"price-feature-lab/internal/config"
	"price-feature-lab/internal/dataset"
	"price-feature-lab/internal/domain"
	"price-feature-lab/internal/storage"
	chstore "price-feature-lab/internal/storage/clickhouse"
	pgstore "price-feature-lab/internal/storage/postgres"
)

// stores holds the database-backed storage implementations.
type stores struct {
	observations storage.ObservationStore
	runs         storage.FeatureRunStore
	features     storage.FeatureStore
}

// openStores connects to PostgreSQL (observations, runs) and ClickHouse
// (feature values). needFeatures=false skips the ClickHouse connection.
func openStores(ctx context.Context, cfg config.StorageConfig, needFeatures bool) (*stores, func(), error) {
	if cfg.PostgresDSN == "" {
		return nil, nil, fmt.Errorf("postgres dsn is required (--postgres-dsn or storage.postgres_dsn)")
	}
	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	s := &stores{
		observations: pgstore.NewObservationStore(pool),
		runs:         pgstore.NewFeatureRunStore(pool),
	}
	if !needFeatures {
		return s, pool.Close, nil
	}

	if cfg.ClickhouseDSN == "" {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse dsn is required (--clickhouse-dsn or storage.clickhouse_dsn)")
	}
	chConn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	s.features = chstore.NewFeatureStore(chConn)

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return s, cleanup, nil
}

// readInput reads the configured CSV or XLSX input table.
func readInput(in config.InputConfig) (*domain.Table, error) {
	if in.Path == "" {
		return nil, fmt.Errorf("input path is required (--input or input.path)")
	}
	format, err := in.Format()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(in.Path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	if format == config.FormatXLSX {
		return dataset.ReadXLSX(f, in.ReadOptions())
	}
	return dataset.ReadCSV(f, in.ReadOptions())
}
