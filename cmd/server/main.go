package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"

	"github.com/pedalworks/maintenance-backend/api"
	"github.com/pedalworks/maintenance-backend/bike"
	"github.com/pedalworks/maintenance-backend/internal/o11y"
	"github.com/pedalworks/maintenance-backend/internal/store"
	"github.com/pedalworks/maintenance-backend/part"
	"github.com/pedalworks/maintenance-backend/ride"
	"github.com/pedalworks/maintenance-backend/user"
)

var cli = struct {
	DatabaseDSN string `name:"database-dsn" env:"DATABASE_DSN" default:":memory:"`
	Port        int    `name:"port" env:"PORT" default:"8080"`

	AdminName     string `name:"admin-name" env:"ADMIN_NAME" default:"Admin"`
	AdminEmail    string `name:"admin-email" env:"ADMIN_EMAIL" default:"admin@example.com"`
	AdminPassword string `name:"admin-password" env:"ADMIN_PASSWORD" default:"admin"`

	OTLPEndpoint string `name:"otlp-endpoint" env:"OTLP_ENDPOINT"`

	MetricsUsername string `name:"metrics-username" env:"METRICS_USERNAME"`
	MetricsPassword string `name:"metrics-password" env:"METRICS_PASSWORD"`
}{}

func main() {
	if err := run(); err != nil {
		log.Fatalf("unexpected error: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	kong.Parse(&cli)

	db, err := store.Open(ctx, cli.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	obs, cleanup, err := o11y.Setup(ctx, cli.OTLPEndpoint)
	defer cleanup()
	if err != nil {
		return err
	}

	ur := user.NewRepository(db)
	br := bike.NewRepository(db)
	pr := part.NewRepository(db)
	rr := ride.NewRepository(db)

	admin, err := ur.EnsureAdmin(ctx, cli.AdminName, cli.AdminEmail, cli.AdminPassword)
	if err != nil {
		return err
	}
	obs.Logger.Info("admin account ready", "email", admin.Email, "id", admin.ID)

	a := api.New(ur, br, pr, rr, obs, cli.MetricsUsername, cli.MetricsPassword)

	serv := http.Server{
		Addr:    fmt.Sprintf(":%d", cli.Port),
		Handler: a.Router(),
	}

	go func() {
		if err := serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return serv.Shutdown(ctx)
}
