package handler

import (
	"context"
	"net/http"
	"time"

	"asistencia/internal/apierror"
	"asistencia/internal/dto"
	"asistencia/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports DB and Redis connectivity; never exposes credentials or
// internals. Only a dead database makes the service degraded, since Redis
// is optional.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		resp := dto.HealthResponse{
			Status:    "ok",
			Timestamp: dto.ISOTime(time.Now()),
			DB:        "connected",
			Redis:     "disabled",
		}

		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			resp.DB = "error"
			resp.Status = "degraded"
		}

		if rdb != nil {
			resp.Redis = "connected"
			if rdb.Ping(ctx).Err() != nil {
				resp.Redis = "error"
			} else if n, err := worker.DLQLength(ctx, rdb, worker.QueueSheetsSync); err == nil {
				resp.DLQ = &n
				if n > 0 {
					resp.UltimaFallaSync = ultimaFalla(ctx, rdb)
				}
			}
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, apierror.Envelope{Success: status == http.StatusOK, Data: resp})
	}
}

func ultimaFalla(ctx context.Context, rdb *redis.Client) *dto.FallaSyncResumen {
	fallas, err := worker.RecentDLQ(ctx, rdb, worker.QueueSheetsSync, 1)
	if err != nil || len(fallas) == 0 {
		return nil
	}
	return &dto.FallaSyncResumen{Tabla: fallas[0].Tabla, FallaEn: dto.ISOTime(fallas[0].FallaEn)}
}
