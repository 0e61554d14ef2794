package subscribe

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// NewMux 挂载订阅接口和健康检查
func NewMux(h http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(Route, h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Serve 启动订阅服务，ctx 取消后优雅关闭
func Serve(ctx context.Context, cfg Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := NewLimiter(cfg.RateLimit, cfg.RateWindow, 0)
	defer limiter.Stop()

	handler := NewHandler(cfg, NewFormsClient(cfg), limiter, logger)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewMux(handler),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Timeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("subscribe relay listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("subscribe relay shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
