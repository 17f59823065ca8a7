package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gaurav-prasanna/webscrape/core"
)

const defaultResultsLimit = 20

// Home reports that the service is up.
func Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Web Scraper API is running!"})
}

// HealthCheck returns the service status with the current UTC time.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Scrape scrapes the page named by the url query parameter.
func Scrape(scraper Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := scraper.Scrape(c.Request.Context(), c.Query("url"))
		if err != nil {
			var validation *core.ValidationError
			if errors.As(err, &validation) {
				c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// Results lists the most recent entries of the result log, newest last.
func Results(history History) gin.HandlerFunc {
	return func(c *gin.Context) {
		if history == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "result log is not enabled"})
			return
		}

		limit := defaultResultsLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = n
		}

		records, err := history.Tail(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if records == nil {
			records = []core.Record{}
		}

		c.JSON(http.StatusOK, gin.H{"results": records})
	}
}
