package logger

import (
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/event"
)

// 写命令携带的是密文，只记录命令名，不落盘请求体
var mongoWriteCommands = map[string]bool{
	"insert": true,
	"update": true,
	"delete": true,
}

func NewMongoMonitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			fields := []any{
				log.String("command", evt.CommandName),
				log.String("database", evt.DatabaseName),
				log.Int64("request_id", evt.RequestID),
			}
			if !mongoWriteCommands[evt.CommandName] {
				cmdStr := evt.Command.String()
				if len(cmdStr) > 1000 {
					cmdStr = cmdStr[:1000] + "...[truncated]"
				}
				fields = append(fields, log.String("cmd_detail", cmdStr))
			}
			log.DebugContext(ctx, "MongoDB Started", fields...)
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			if evt.Duration > 200*time.Millisecond {
				log.WarnContext(ctx, "MongoDB Slow",
					log.String("command", evt.CommandName),
					log.Duration("latency", evt.Duration),
					log.Int64("request_id", evt.RequestID),
				)
			}
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			log.ErrorContext(ctx, "MongoDB Error",
				log.String("command", evt.CommandName),
				log.Duration("latency", evt.Duration),
				log.Int64("request_id", evt.RequestID),
				log.Any("err", evt.Failure),
			)
		},
	}
}
