package commands

import (
	"context"

	"github.com/flickfinder/flickfinder/cache"
	"github.com/flickfinder/flickfinder/config"
	"github.com/flickfinder/flickfinder/data"
	"github.com/flickfinder/flickfinder/data/repository"
	"github.com/flickfinder/flickfinder/handler"
	"github.com/flickfinder/flickfinder/logging/logger"
	"github.com/flickfinder/flickfinder/movie"
	"github.com/flickfinder/flickfinder/service"
	"github.com/flickfinder/flickfinder/tmdb"
	"github.com/flickfinder/flickfinder/version"

	// Database drivers register themselves on import.
	_ "github.com/flickfinder/flickfinder/data/mysql"
	_ "github.com/flickfinder/flickfinder/data/postgres"
	_ "github.com/flickfinder/flickfinder/data/sqlite"
)

// application wires configuration, connections and services for the
// commands. Cleanup must be called before exit.
type application struct {
	conf    *config.Config
	data    *data.Data
	movies  *repository.Movie
	handler *handler.Handler
	ingest  *service.Ingest

	cleanup func()
}

// newApplication loads configuration and builds the full service graph.
func newApplication(ctx context.Context, configPath string) (*application, error) {
	conf, err := config.Init(configPath)
	if err != nil {
		return nil, err
	}

	loggerCleanup, err := logger.New(conf.Logger)
	if err != nil {
		return nil, err
	}
	logger.SetVersion(version.GetVersionInfo().Version)

	d, err := data.New(ctx, conf.Data)
	if err != nil {
		loggerCleanup()
		return nil, err
	}

	movies := repository.NewMovie(d.DB, conf.Data.Database.Driver)
	if conf.Data.Database.Migrate {
		if err := movies.EnsureSchema(ctx); err != nil {
			d.Close()
			loggerCleanup()
			return nil, err
		}
	}

	if conf.Data.Search.AutoCreateIndex {
		if err := d.Search.EnsureIndex(ctx); err != nil {
			// Searches degrade to 503 until the engine comes back.
			logger.Warnf(ctx, "search index not ready: %v", err)
		}
	}

	movieCache := cache.NewCache[movie.Record](d.Redis, "movies", conf.Data.Redis.CacheTTL)
	source := tmdb.NewClient(conf.TMDB)

	searchSvc := service.NewSearch(d.Search, movies)
	movieSvc := service.NewMovie(movies, movieCache)
	ingestSvc := service.NewIngest(source, movies, d.Search, conf.Ingest.Terms, conf.Ingest.PagesPerTerm)

	app := &application{
		conf:    conf,
		data:    d,
		movies:  movies,
		handler: handler.New(searchSvc, movieSvc, ingestSvc, d),
		ingest:  ingestSvc,
	}
	app.cleanup = func() {
		for _, err := range d.Close() {
			logger.Errorf(context.Background(), "shutdown: %v", err)
		}
		loggerCleanup()
	}

	return app, nil
}
