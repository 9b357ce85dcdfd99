package handler

import (
	"net/http"

	"momo-bridge/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// HealthCheck handles GET /health. It reports the build version and pings
// every dependency; any failure turns the answer into a 503.
func HealthCheck(version string, checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus, len(checkers))
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "DOWN", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "UP"}
			}
		}

		status := "OK"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "DEGRADED"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"version":      version,
			"dependencies": deps,
		})
	}
}
