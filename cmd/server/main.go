package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"

	"github.com/suitsync/pos-gateway/bridge"
	"github.com/suitsync/pos-gateway/internal/config"
	"github.com/suitsync/pos-gateway/internal/sqlite"
	"github.com/suitsync/pos-gateway/lightspeed"
	"github.com/suitsync/pos-gateway/server"
	"github.com/suitsync/pos-gateway/server/authflowrepo"
	"github.com/suitsync/pos-gateway/sessions"
)

// cleanupInterval is how often the stale-session purge runs. The purge is
// only ever triggered from here; the session service never schedules it.
const cleanupInterval = 12 * time.Hour

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	db, err := sqlite.Open(filepath.Join(c.GetDataFolder(), "gateway.db"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tokenRepo := sqlite.NewTokenRepo(db)
	userRepo := sqlite.NewUserRepo(db)
	sessionRepo := sqlite.NewSessionRepo(db)

	sessionService := sessions.NewService(sessionRepo, userRepo, c)

	oauthConfig := lightspeed.OAuthConfig(c)
	lsClient := lightspeed.NewClient(c, nil, lightspeed.NewStoreTokenSource(oauthConfig, tokenRepo))

	services := server.Services{
		Sessions:   sessionService,
		Users:      userRepo,
		Tokens:     tokenRepo,
		Lightspeed: lsClient,
		OAuth:      oauthConfig,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if c.GetDeploymentMode() == config.ModeClient {
		services.Bridge = bridge.New(c, nil)
		go probeLoop(ctx, services.Bridge, c.GetBridgeCheckInterval())
	}

	go cleanupLoop(ctx, sessionService)

	srv, err := server.New(c, services, authflowrepo.NewInMemoryRepo())
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func cleanupLoop(ctx context.Context, service *sessions.Service) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := service.CleanupExpired(ctx); err != nil {
				log.Printf("Session cleanup failed: %v\n", err)
			}
		}
	}
}

func probeLoop(ctx context.Context, b *bridge.Bridge, interval time.Duration) {
	b.TestConnection(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.TestConnection(ctx)
		}
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
