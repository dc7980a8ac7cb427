package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/newsviews/internal/metrics"
)

func GetHealth(c *gin.Context) {
	if !metrics.Global.Healthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"backend": "failing",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"backend": "reachable",
	})
}

func GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.Global.GetStats())
}
