package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/calventeramirez/baseDatos/api"
	"github.com/calventeramirez/baseDatos/apiexternal"
	"github.com/calventeramirez/baseDatos/config"
	"github.com/calventeramirez/baseDatos/logger"
	"github.com/calventeramirez/baseDatos/scheduler"
	"github.com/calventeramirez/baseDatos/session"
	"github.com/pkg/errors"
	"github.com/recoilme/pudge"
)

func main() {
	cfg, err := config.LoadCfg(config.Configfile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfgGeneral := cfg.General

	logger.InitLogger(logger.LoggerConfig{
		LogLevel:     cfgGeneral.LogLevel,
		LogFile:      cfgGeneral.LogFile,
		LogFileSize:  cfgGeneral.LogFileSize,
		LogFileCount: cfgGeneral.LogFileCount,
		LogCompress:  cfgGeneral.LogCompress,
	})
	logger.Log.Infoln("Starting mediateca")
	logger.Log.Infoln("Backend", cfgGeneral.APIBase)

	sessions, err := session.OpenPudge(cfgGeneral.SessionDB)
	if err != nil {
		logger.Log.Fatalln("Session store:", err)
	}

	client := apiexternal.NewLimitedClient(time.Duration(cfgGeneral.APITimeout)*time.Second, cfgGeneral.Backendlimiterseconds, cfgGeneral.Backendlimitercalls)
	backend, err := apiexternal.NewBackend(cfgGeneral.APIBase, client)
	if err != nil {
		logger.Log.Fatalln("Backend:", err)
	}

	logger.Log.Infoln("Starting Scheduler")
	jobs := scheduler.New()
	if err := scheduler.AddSessionBackup(jobs, cfg.Scheduler.SessionBackup); err != nil && !errors.Is(err, scheduler.ErrDisabled) {
		logger.Log.Errorln("Session backup job:", err)
	}
	store := session.NewStore(sessions)
	if err := scheduler.AddSessionSweep(jobs, cfg.Scheduler.SessionSweep, store); err == nil {
		if err := jobs.RunNow(scheduler.SessionSweepJob); err != nil {
			logger.Log.Errorln("Session sweep:", err)
		}
	} else if !errors.Is(err, scheduler.ErrDisabled) {
		logger.Log.Errorln("Session sweep job:", err)
	}
	jobs.Start()

	handlers := api.New(backend, store, api.Options{
		PageSize:      cfgGeneral.PageSize,
		SecureCookies: cfgGeneral.SecureCookies,
		CorsOrigins:   cfgGeneral.CorsOrigins,
		Taxonomy:      cfg.Taxonomy,
		Debug:         strings.EqualFold(cfgGeneral.LogLevel, "debug"),
		Jobs:          jobs,
	})
	router := api.NewRouter(handlers)

	logger.Log.Infoln("Starting Webserver on port", cfgGeneral.WebPort)
	server := &http.Server{
		Addr:              ":" + cfgGeneral.WebPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			_ = sessions.Close()
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Log.Infoln("receive interrupt signal")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Errorln("Server Shutdown:", err)
	}
	jobs.Stop()

	if err := pudge.CloseAll(); err != nil {
		log.Fatal("Database Shutdown:", err)
	}
	logger.Log.Infoln("Server exiting")
}
