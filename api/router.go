// Package api exposes the scraper over HTTP using gin.
package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/webscrape/core"
)

// Scraper is the part of *scrape.Scraper the handlers need.
type Scraper interface {
	Scrape(ctx context.Context, rawURL string) (*core.ScrapeResult, error)
}

// History reads back recent scrape outcomes; *store.FileStore satisfies it.
type History interface {
	Tail(ctx context.Context, n int) ([]core.Record, error)
}

// NewRouter wires the routes. history may be nil when no result log is
// configured.
func NewRouter(scraper Scraper, history History, logger zerolog.Logger) *gin.Engine {
	router := gin.New()

	router.Use(RequestLogger(logger))
	router.Use(ErrorHandler(logger))

	router.GET("/", Home)
	router.GET("/health", HealthCheck)
	router.GET("/scrape", Scrape(scraper))
	router.GET("/results", Results(history))

	return router
}
