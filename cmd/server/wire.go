// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/vueltra/vueltra-property2-sub000/internal/api"
	"github.com/vueltra/vueltra-property2-sub000/internal/app"
	"github.com/vueltra/vueltra-property2-sub000/internal/auth"
	"github.com/vueltra/vueltra-property2-sub000/internal/config"
	"github.com/vueltra/vueltra-property2-sub000/internal/jobs"
	"github.com/vueltra/vueltra-property2-sub000/internal/platform/logger"
	"github.com/vueltra/vueltra-property2-sub000/internal/store"
	"github.com/vueltra/vueltra-property2-sub000/internal/upload"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(ctx context.Context, cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform
		logger.New,
		provideRepository,

		// State
		store.NewFromConfig,

		// Auth
		auth.NewJWTService,
		wire.Bind(new(auth.TokenService), new(*auth.JWTService)),
		provideBlocklist,
		wire.Bind(new(auth.TokenBlocklistService), new(*auth.InMemoryBlocklistService)),

		// HTTP
		upload.NewFromConfig,
		api.NewHandler,
		jobs.NewSnapshotJob,
		app.NewServer,
	)
	return nil, nil, nil
}
