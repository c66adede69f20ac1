package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// Pinger は依存サービスの疎通確認インターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// NewHealthHandler はヘルスチェックハンドラーを返す。
// dbがnilの場合はデータベースの確認を行わない。
// データベースに接続できない場合も200のままstatusをdegradedにする。
// GET /health
func NewHealthHandler(db Pinger, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()

			resp.Database = "ok"
			if err := db.PingContext(ctx); err != nil {
				logger.Warn("database health check failed", slog.String("error", err.Error()))
				resp.Status = "degraded"
				resp.Database = "unreachable"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
