package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taxmate-go/config"
	"taxmate-go/internal/fetcher"
	"taxmate-go/internal/handler"
	"taxmate-go/internal/service"
)

func main() {
	// 加载 .env 文件（如果存在）
	envErr := godotenv.Load()

	// 缺少必需配置直接退出
	cfg, err := config.Load()
	if err != nil {
		boot := newLogger("")
		boot.Fatal("Invalid configuration", zap.Error(err))
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No .env file found, using environment variables")
	}

	server := newServer(cfg, logger)

	logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("model", cfg.CohereModel))
	if err := server.ListenAndServe(); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// newServer 组装 client -> service -> handler 并设置路由
func newServer(cfg *config.Config, logger *zap.Logger) *http.Server {
	cohereClient := fetcher.NewCohereClient(cfg)
	taxService := service.NewTaxService(cohereClient, logger)
	taxHandler := handler.NewTaxHandler(taxService, handler.NewTokenSigner(cfg.SessionSecret), logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", taxHandler.Health)
	mux.HandleFunc("/", taxHandler.Index)

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           loggingMiddleware(logger, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func newLogger(level string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewExample()
	}
	return logger
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// 请求日志中间件
func loggingMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Info("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}
