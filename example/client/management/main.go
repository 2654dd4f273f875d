package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/zitadel/logging"

	"github.com/authing/authing-go-sdk/v3/example/client/config"
	"github.com/authing/authing-go-sdk/v3/pkg/client/management"
)

func main() {
	namespace := flag.String("namespace", management.DefaultNamespace, "role namespace")
	create := flag.String("create", "", "code of a role to create before listing")
	flag.Parse()

	cfg := config.FromEnvVars(&config.Config{Host: management.DefaultHost})
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logging.ToContext(ctx, logger)

	client, err := management.NewClient(management.Config{
		UserPoolID: cfg.UserPoolID,
		Secret:     cfg.UserPoolSecret,
		Host:       cfg.Host,
	},
		management.WithLogger(logger),
		// the management token is valid for a while, renew it shortly before it expires
		management.WithRefreshPolicy(management.RefreshBeforeExpiry(time.Minute)),
	)
	if err != nil {
		logger.Error("error creating management client", "error", err)
		os.Exit(1)
	}

	if *create != "" {
		role, err := client.CreateRole(ctx, management.Role{Code: *create, Namespace: *namespace})
		if err != nil {
			logger.Error("create role", "error", err)
			os.Exit(1)
		}
		logger.Info("role created", "id", role.ID, "code", role.Code)
	}

	roles, err := client.ListRoles(ctx, management.ListRolesRequest{Namespace: *namespace, Page: 1, Limit: 50})
	if err != nil {
		logger.Error("list roles", "error", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(roles); err != nil {
		logger.Error("encode roles", "error", err)
		os.Exit(1)
	}
}
