package bootstrap

import (
	"context"

	es "github.com/elastic/go-elasticsearch/v8"

	infracontext "github.com/Hayal27/sininning-pro-sub000/infrastructure/context"
	infraes "github.com/Hayal27/sininning-pro-sub000/infrastructure/elasticsearch"
	infralogger "github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
	"github.com/Hayal27/sininning-pro-sub000/infrastructure/retry"
	"github.com/Hayal27/sininning-pro-sub000/internal/config"
	"github.com/Hayal27/sininning-pro-sub000/internal/search"
)

// SetupSearchIndex connects to Elasticsearch and ensures the content index
// exists. Returns nils if search is disabled or the cluster is unreachable;
// search then falls back to the database.
func SetupSearchIndex(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*es.Client, *search.Index) {
	if !cfg.Elasticsearch.Enabled {
		return nil, nil
	}

	retryCfg := retry.DefaultConfig()

	client, err := infraes.NewClient(ctx, infraes.Config{
		URL:         cfg.Elasticsearch.URL,
		Username:    cfg.Elasticsearch.Username,
		Password:    cfg.Elasticsearch.Password,
		RetryConfig: &retryCfg,
	}, log)
	if err != nil {
		log.Warn("Elasticsearch not available, search falls back to the database",
			infralogger.Error(err),
		)
		return nil, nil
	}

	index := search.NewIndex(client, cfg.Elasticsearch.IndexName(), log)
	if ensureErr := index.Ensure(ctx); ensureErr != nil {
		log.Warn("Failed to ensure search index, search falls back to the database",
			infralogger.String("index", index.Name()),
			infralogger.Error(ensureErr),
		)
		return client, nil
	}

	log.Info("Search index ready", infralogger.String("index", index.Name()))
	return client, index
}

// elasticsearchHealthCheck pings the cluster for /health.
func elasticsearchHealthCheck(client *es.Client) func() error {
	return func() error {
		return infraes.Ping(context.Background(), client, infracontext.DefaultPingTimeout)
	}
}
