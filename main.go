package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-meet-signal/config"
	"go-meet-signal/controllers"
	"go-meet-signal/metrics"
	"go-meet-signal/repo"
	"go-meet-signal/routes"
	"go-meet-signal/service"
	"go-meet-signal/signaling"
)

func main() {
	cfg := config.LoadConfig()
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize repository, service, and controller
	meetingService := service.NewMeetingService(repo.NewMeetingRepository(db))
	meetingController := controllers.NewMeetingController(meetingService)

	statusService := service.NewStatusService(repo.NewStatusRepository(db))
	statusController := controllers.NewStatusController(statusService)

	var directory signaling.MeetingDirectory = signaling.AcceptAnyMeeting{}
	if cfg.ValidateMeetings {
		directory = meetingService
	}
	m := metrics.New()
	router := signaling.NewRouter(signaling.NewRegistry(), signaling.Options{
		Directory:     directory,
		Metrics:       m,
		LoggerFactory: cfg.NewLoggerFactory(),
		WriteWait:     cfg.WSWriteWait,
	})
	signalingService := service.NewSignalingService(router, cfg.IceConfig)
	videoController := controllers.NewWebRtcController(signalingService, config.GetWebSocket(), cfg.WSMaxMessageBytes)

	r := routes.NewRoute(meetingController, statusController, videoController, m)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Signaling server listening on %s (validate meetings: %v)", cfg.Addr, cfg.ValidateMeetings)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Hijacked websocket connections are not tracked by http.Server.
	signalingService.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Shutdown:", err)
	}
}
