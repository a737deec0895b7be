package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/karanhb-pixel/grocery-inventory-app/config"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/adminapi"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/app"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/webserver"
)

var (
	configFile = flag.String("c", "grocery.yml", "config file path")
	port       = flag.Int("p", 0, "override web listen port")
	showVer    = flag.Bool("v", false, "print version and exit")
)

const version = "1.0.0"

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println("groceryd", version)
		return
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Web.Port = *port
	}

	application := app.NewApplication(cfg)
	if err := application.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "init:", err)
		os.Exit(1)
	}
	defer application.Release()

	ws := webserver.New(cfg.Web)
	adminapi.Register(ws.Echo(), application)

	go func() {
		if err := ws.Start(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("web server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ws.Shutdown(ctx); err != nil {
		zap.L().Error("shutdown", zap.Error(err))
	}
}
