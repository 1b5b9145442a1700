package pipeline

import (
	"context"

	"review-digest/category"
	"review-digest/classifier"
	"review-digest/config"
	"review-digest/dataset"
	"review-digest/db"
	"review-digest/enricher"
	"review-digest/eventbus"
	"review-digest/models"
	"review-digest/repositories"
	"review-digest/storage"
	"review-digest/summarizer"
)

// Build wires a Pipeline from configuration. Artifact and generator setup
// errors are fatal; optional backends that cannot be reached are logged and
// left out. The returned function releases everything Build opened.
func Build(ctx context.Context, cfg config.AppConfig) (*Pipeline, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if len(cfg.Pipeline.Sources) == 0 {
		return nil, cleanup, models.ConfigError("pipeline.sources is empty", nil)
	}

	clf, closeClf, err := buildClassifier(cfg.Classifier)
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, closeClf)

	mapping := category.Mapping{}
	if cfg.Category.MappingPath != "" {
		if mapping, err = category.LoadMapping(cfg.Category.MappingPath); err != nil {
			cleanup()
			return nil, func() {}, err
		}
	} else {
		config.Logger.Warn("category.mapping_path not set, every review is clustered as Unknown")
	}

	gen, err := summarizer.NewGenerator(ctx, cfg.LLM)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	p := &Pipeline{
		Sources:    dataset.SourcesFromConfig(cfg.Pipeline.Sources),
		Columns:    dataset.ColumnsFromConfig(cfg.Pipeline.Columns),
		Classifier: clf,
		Mapping:    mapping,
		Enrich:     enricher.OptionsFromConfig(cfg.Pipeline),
		Sentiment:  cfg.Pipeline.SentimentLabel,
		TopN:       cfg.Pipeline.TopN,
		Output:     storage.NewCSVWriter(cfg.Pipeline.OutputPath),
		EventTopic: eventbus.DigestTopic(cfg.Kafka).Base(),
	}

	var logSink summarizer.LogSink
	if cfg.Mongo.Enabled {
		if err := db.Init(ctx, cfg.Mongo); err != nil {
			config.ErrorWithFields("mongo unavailable, run records and ai logs disabled", config.Fields{"error": err.Error()})
		} else {
			logSink = repositories.NewAILogRepository(db.Database())
			p.Runs = repositories.NewDigestRunRepository(db.Database())
			closers = append(closers, func() { _ = db.Close(context.Background()) })
		}
	}

	p.Summarizer = summarizer.NewService(gen, summarizer.OptionsFromConfig(cfg), summarizer.NewQuotaLimiter(cfg.SummaryQuota), logSink)

	if cfg.SQLite.Enabled {
		if w, err := storage.NewSQLiteWriter(cfg.SQLite.Path); err != nil {
			config.ErrorWithFields("sqlite sink disabled", config.Fields{"error": err.Error()})
		} else {
			p.Sinks = append(p.Sinks, w)
			closers = append(closers, func() { _ = w.Close() })
		}
	}
	if cfg.Postgres.Enabled {
		if w, err := storage.NewPostgresWriter(ctx, cfg.Postgres.DSN); err != nil {
			config.ErrorWithFields("postgres sink disabled", config.Fields{"error": err.Error()})
		} else {
			p.Sinks = append(p.Sinks, w)
			closers = append(closers, func() { _ = w.Close() })
		}
	}

	if cfg.Kafka.Enabled {
		brokers := eventbus.Brokers(cfg.Kafka)
		if err := eventbus.EnsureTopics(ctx, brokers, 1, eventbus.DigestTopic(cfg.Kafka)); err != nil {
			config.WarnWithFields("kafka topic check failed", config.Fields{"error": err.Error()})
		}
		if bus, err := eventbus.NewKafkaEventBus(brokers); err != nil {
			config.ErrorWithFields("kafka events disabled", config.Fields{"error": err.Error()})
		} else {
			p.Events = bus
			closers = append(closers, bus.Close)
		}
	}

	return p, cleanup, nil
}

func buildClassifier(cfg config.ClassifierConfig) (classifier.Classifier, func(), error) {
	if cfg.BaseURL == "" {
		return nil, nil, models.ConfigError("classifier.base_url is not set", nil)
	}
	labels, err := classifier.LoadLabelEncoder(cfg.LabelsPath)
	if err != nil {
		return nil, nil, err
	}

	remote := classifier.NewRemoteClient(cfg.BaseURL, cfg.Timeout)
	var clf classifier.Classifier = classifier.NewAdapter(remote, remote, labels, cfg.BatchSize)

	if !cfg.Cache.Enabled {
		return clf, func() {}, nil
	}
	cache, err := classifier.NewRedisCache(cfg.Cache)
	if err != nil {
		config.WarnWithFields("sentiment cache disabled", config.Fields{"error": err.Error()})
		return clf, func() {}, nil
	}
	return classifier.NewCachedClassifier(clf, cache, cfg.Cache.Prefix, cfg.Cache.TTL), func() { _ = cache.Close() }, nil
}
