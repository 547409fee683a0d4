package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/room-chess-bot/internal/adapter/chesspresenter"
	"github.com/park285/room-chess-bot/internal/chessbuilder"
	"github.com/park285/room-chess-bot/internal/command"
	appcfg "github.com/park285/room-chess-bot/internal/config"
	"github.com/park285/room-chess-bot/internal/irisfast"
	"github.com/park285/room-chess-bot/internal/obslog"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	headers := func() map[string]string {
		h := map[string]string{}
		if cfg.XUserID != "" {
			h["X-User-Id"] = cfg.XUserID
		}
		if cfg.XUserEmail != "" {
			h["X-User-Email"] = cfg.XUserEmail
		}
		if cfg.XSessionID != "" {
			h["X-Session-Id"] = cfg.XSessionID
		}
		return h
	}

	client := irisfast.NewClient(cfg.IrisBaseURL,
		irisfast.WithHeaderProvider(headers),
		irisfast.WithRetry(cfg.IrisHTTPAttempts),
		irisfast.WithMaxConnsPerHost(cfg.IrisMaxConns),
	)
	probeIris(client, logger)

	ws := irisfast.NewWebSocket(cfg.IrisWSURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		logger.Info("ws_state", zap.String("state", string(state)))
	})

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := chessbuilder.New(rootCtx, cfg, logger)
	if err != nil {
		logger.Fatal("chess_init_error", zap.Error(err))
	}
	defer func() { _ = deps.Close() }()

	egress := irisfast.NewEgress(cfg.EgressMode, cfg.EgressDryRun, client, ws, logger)
	var fetcher chesspresenter.ImageFetcher
	if cfg.FetchBoardImage {
		fetcher = client
	}
	presenter := chesspresenter.NewPresenter(egress, fetcher, cfg.BoardImageURL, logger)
	formatter := chesspresenter.NewFormatter(chesspresenter.StaticPrefix(cfg.BotPrefix), deps.Catalog, deps.Names)
	router := command.NewRouter(command.Config{
		Prefix:       cfg.BotPrefix,
		AllowedRooms: cfg.AllowedRooms,
	}, deps.Manager, deps.Names, formatter, presenter, logger)

	queue := command.NewRoomQueue(rootCtx, router.Handle, 30*time.Second, logger)
	ws.OnMessage(func(msg *irisfast.Message) {
		if msg == nil || msg.Msg == "" {
			return
		}
		// WS 수신 루프를 막지 않도록 방별 큐로 넘긴다
		queue.Enqueue(command.Incoming{
			Room:   msg.Room,
			UserID: msg.UserID(),
			Sender: msg.SenderName(),
			Text:   msg.Msg,
		})
	})

	cctx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		cancel()
		logger.Fatal("ws_connect_error", zap.Error(err))
	}
	cancel()
	logger.Info("chess_bot_started", zap.String("prefix", cfg.BotPrefix), zap.Strings("rooms", cfg.AllowedRooms))

	<-rootCtx.Done()

	sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer scancel()
	_ = ws.Close(sctx)
	queue.Wait()
	logger.Info("chess_bot_stopped")
}

// probeIris logs the bridge configuration; the bot still starts when the
// bridge is not reachable yet.
func probeIris(client *irisfast.Client, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cfg, err := client.GetConfig(ctx)
	if err != nil {
		logger.Warn("iris_config_error", zap.Error(err))
		return
	}
	logger.Info("iris_config",
		zap.Int("port", cfg.Port),
		zap.Int("polling", cfg.PollingSpeed),
		zap.Int("rate", cfg.MessageRate),
		zap.String("endpoint", cfg.WebserverEndpoint),
	)
}
