package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpc_adapter "github.com/JoeShih716/go-pix-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-pix-ledger/internal/app/core/adapter/in/httpapi"
	memory_adapter "github.com/JoeShih716/go-pix-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-pix-ledger/internal/app/core/config"
	"github.com/JoeShih716/go-pix-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-pix-ledger/pkg/journal"
	"github.com/JoeShih716/go-pix-ledger/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the yaml config file")
	flag.Parse()

	// 1. 載入設定
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New(logger.Config{}).Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. 初始化 journal (可選)
	opts, closeJournal, err := ledgerOptions(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init ledger")
	}
	defer closeJournal()

	// 3. 選擇記憶體引擎
	var (
		usedLedger usecase.Ledger
		engineDone <-chan struct{}
	)
	engineCtx, stopEngine := context.WithCancel(context.Background())
	defer stopEngine()
	switch cfg.Ledger.Engine {
	case config.EngineLMAX:
		lmax := memory_adapter.NewLMAXLedger(opts)
		lmax.Start(engineCtx)
		usedLedger = lmax
		engineDone = lmax.Done()
	default:
		usedLedger = memory_adapter.NewMutexLedger(opts)
	}
	log.Info().Str("engine", cfg.Ledger.Engine).Str("timezone", cfg.Ledger.Timezone).Msg("ledger ready")

	// 4. 初始化 UseCase
	coreUseCase := usecase.NewCoreUseCase(usedLedger, log.With("component", "usecase"))

	// 5. 初始化 Driving Adapters
	if cfg.App.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: httpapi.NewRouter(httpapi.RouterDeps{Service: coreUseCase, Logger: log.With("component", "http")}),
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpc_adapter.UnaryLoggingInterceptor(log.With("component", "grpc"))))
	grpc_adapter.RegisterLedgerServiceServer(grpcServer, grpc_adapter.NewGrpcServer(coreUseCase))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPC.Addr).Msg("failed to listen")
	}

	// 6. 啟動 servers，收到訊號後 graceful shutdown
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("starting http server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", cfg.GRPC.Addr).Msg("starting grpc server")
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}

	// servers 都停了才關引擎，讓已送出的交易處理完
	stopEngine()
	if engineDone != nil {
		<-engineDone
	}
	log.Info().Msg("server exited")
}

// ledgerOptions 組裝記憶體引擎參數；回傳的 close 函式負責關閉 journal
func ledgerOptions(cfg config.Config, log *logger.Logger) (memory_adapter.Options, func(), error) {
	limits, err := cfg.Ledger.DomainLimits()
	if err != nil {
		return memory_adapter.Options{}, nil, err
	}
	loc, err := cfg.Ledger.Location()
	if err != nil {
		return memory_adapter.Options{}, nil, err
	}
	opts := memory_adapter.Options{Limits: limits, Location: loc}

	if cfg.Ledger.JournalPath == "" {
		return opts, func() {}, nil
	}
	j, err := journal.Open(cfg.Ledger.JournalPath)
	if err != nil {
		return memory_adapter.Options{}, nil, err
	}
	opts.Journal = j
	log.Info().Str("path", cfg.Ledger.JournalPath).Msg("journal enabled")
	return opts, func() {
		if err := j.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close journal")
		}
	}, nil
}
