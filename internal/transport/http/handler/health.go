package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"conduit-api/internal/bootstrap"
)

type dependencyCheck struct {
	name  string
	probe func(ctx context.Context) error
}

type HealthHandler struct {
	appName   string
	env       string
	startedAt time.Time
	checks    []dependencyCheck
}

type dependencyStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{
		appName:   app.Config.App.Name,
		env:       app.Config.App.Env,
		startedAt: app.StartedAt,
		checks: []dependencyCheck{
			{name: "mysql", probe: func(ctx context.Context) error {
				sqlDB, err := app.MySQL.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			}},
			{name: "redis", probe: func(ctx context.Context) error {
				return app.Redis.Ping(ctx).Err()
			}},
			{name: "rabbitmq", probe: func(context.Context) error {
				if app.MQConn == nil || app.MQConn.IsClosed() {
					return errors.New("connection closed")
				}
				return nil
			}},
		},
	}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	statusCode := http.StatusOK
	deps := gin.H{}
	for _, check := range h.checks {
		status := dependencyStatus{OK: true}
		if err := check.probe(ctx); err != nil {
			status = dependencyStatus{OK: false, Message: err.Error()}
			statusCode = http.StatusServiceUnavailable
		}
		deps[check.name] = status
	}

	c.JSON(statusCode, gin.H{
		"app":          h.appName,
		"env":          h.env,
		"uptime_sec":   int(time.Since(h.startedAt).Seconds()),
		"dependencies": deps,
	})
}

func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "API is running on /api"})
}
