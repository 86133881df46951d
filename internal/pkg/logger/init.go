package logger

import (
	"Cipherchat/internal/api/config"
	"io"
	log "log/slog"
	"net"
	"os"
	"time"
)

// LogWriter gin 访问日志输出目标，未初始化时为标准输出
var LogWriter io.Writer = os.Stdout

var (
	remoteIndex = "logstash-cipherchat"
	remoteToken string
)

// InitLogger 初始化全局 slog：标准输出 JSON，Logstash 可达时额外上报带 trace_id 的日志
func InitLogger(cfg config.LogstashConfig) {
	hStdout := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: log.LevelInfo})

	var finalHandler log.Handler = hStdout

	if cfg.Index != "" {
		remoteIndex = cfg.Index
	}
	remoteToken = cfg.Token

	var conn net.Conn
	var err error
	if cfg.Address != "" {
		conn, err = net.DialTimeout("tcp", cfg.Address, 3*time.Second)
	}
	if conn != nil && err == nil {
		hRemote := log.NewJSONHandler(conn, &log.HandlerOptions{Level: log.LevelInfo}).
			WithAttrs([]log.Attr{
				log.String("target_index", remoteIndex),
				log.String("log_token", remoteToken),
			})

		filterRemote := &RemoteFilterHandler{next: hRemote}

		finalHandler = &TeeHandler{
			handlers: []log.Handler{hStdout, filterRemote},
		}

		LogWriter = conn
	} else {
		LogWriter = os.Stdout
		log.Warn("Failed to connect to Logstash, logging to stdout only", "addr", cfg.Address, "err", err)
	}

	logger := log.New(&ContextHandler{finalHandler})
	log.SetDefault(logger)
}
