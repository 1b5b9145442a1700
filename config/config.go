package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

const (
	DefaultTopN                 = 3
	DefaultMaxReviewsPerProduct = 20
	DefaultSentimentLabel       = "positive"
	DefaultOutputPath           = "output/test.csv"
	DefaultTemperature          = 0.5
	DefaultPlaceholderImageURL  = "https://upload.wikimedia.org/wikipedia/commons/a/ac/No_image_available.svg"
)

type AppConfig struct {
	Logging      LoggingConfig      `yaml:"logging"`
	Pipeline     PipelineConfig     `yaml:"pipeline"`
	Classifier   ClassifierConfig   `yaml:"classifier"`
	Category     CategoryConfig     `yaml:"category"`
	LLM          LLMConfig          `yaml:"llm"`
	SummaryQuota SummaryQuotaConfig `yaml:"summary_quota"`
	Mongo        MongoConfig        `yaml:"mongo"`
	Kafka        KafkaConfig        `yaml:"kafka"`
	SQLite       SQLiteConfig       `yaml:"sqlite"`
	Postgres     PostgresConfig     `yaml:"postgres"`
	API          APIConfig          `yaml:"api"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PipelineConfig 는 입력 데이터셋과 집계/출력 규칙을 정의한다.
type PipelineConfig struct {
	Sources              []SourceConfig `yaml:"sources"`
	Columns              ColumnsConfig  `yaml:"columns"`
	SentimentLabel       string         `yaml:"sentiment_label"`
	TopN                 int            `yaml:"top_n"`
	MaxReviewsPerProduct int            `yaml:"max_reviews_per_product"`
	PlaceholderImageURL  string         `yaml:"placeholder_image_url"`
	OutputPath           string         `yaml:"output_path"`
}

// SourceConfig is a single review dataset.
type SourceConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// ColumnsConfig 는 CSV 헤더 이름을 매핑한다. 비어 있으면 Datafiniti 기본 헤더를 사용한다.
type ColumnsConfig struct {
	Name      string `yaml:"name"`
	Category  string `yaml:"category"`
	Text      string `yaml:"text"`
	Rating    string `yaml:"rating"`
	ImageURLs string `yaml:"image_urls"`
}

type ClassifierConfig struct {
	BaseURL    string        `yaml:"base_url"`
	LabelsPath string        `yaml:"labels_path"`
	BatchSize  int           `yaml:"batch_size"`
	Timeout    time.Duration `yaml:"timeout"`
	Cache      CacheConfig   `yaml:"cache"`
}

// CacheConfig 는 감성 예측 결과 캐시(redis) 설정이다.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

type CategoryConfig struct {
	MappingPath string `yaml:"mapping_path"`
}

// LLMConfig 는 요약 생성용 LLM 호출 설정이다.
// Provider 는 "openai" 또는 "google" 만 허용한다.
type LLMConfig struct {
	Provider        string   `yaml:"provider"`
	ModelName       string   `yaml:"model_name"`
	MaxOutputTokens int      `yaml:"max_output_tokens"`
	Temperature     *float64 `yaml:"temperature"`
	// Concurrency 는 동시에 수행할 요약 호출 수이다. 1 이하면 순차 처리한다.
	Concurrency int `yaml:"concurrency"`
}

// SummaryQuotaConfig 는 요약용 LLM 호출에 대한 속도/일일 한도를 정의한다.
type SummaryQuotaConfig struct {
	// RequestsPerMinute 는 요약용 LLM 호출에 대한 분당 최대 요청 수이다.
	// 0 이하면 제한 없음으로 간주한다.
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// RequestsPerDay 는 요약용 LLM 호출에 대한 일일 최대 요청 수이다.
	// 0 이하면 제한 없음으로 간주한다.
	RequestsPerDay int `yaml:"requests_per_day"`
}

type MongoConfig struct {
	Enabled bool   `yaml:"enabled"`
	URI     string `yaml:"uri"`
	DBName  string `yaml:"db_name"`
}

type KafkaConfig struct {
	Enabled bool   `yaml:"enabled"`
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic"`
}

type SQLiteConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type PostgresConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

type APIConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	c, err := Load(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}
	config = c
}

// Load 는 주어진 경로의 yaml 설정을 읽고 기본값을 채운다.
// 같은 디렉터리에 .env 가 있으면 함께 로드한다.
func Load(path string) (*AppConfig, error) {
	godotenv.Load(filepath.Join(filepath.Dir(path), ENV_FILE))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var c AppConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.applyDefaults()
	return &c, nil
}

// SetConfig replaces the global configuration (used by CLI overrides and tests).
func SetConfig(c *AppConfig) {
	config = c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func (c *AppConfig) applyDefaults() {
	p := &c.Pipeline
	if p.SentimentLabel == "" {
		p.SentimentLabel = DefaultSentimentLabel
	}
	if p.TopN <= 0 {
		p.TopN = DefaultTopN
	}
	if p.MaxReviewsPerProduct <= 0 {
		p.MaxReviewsPerProduct = DefaultMaxReviewsPerProduct
	}
	if p.PlaceholderImageURL == "" {
		p.PlaceholderImageURL = DefaultPlaceholderImageURL
	}
	if p.OutputPath == "" {
		p.OutputPath = DefaultOutputPath
	}
	if p.Columns.Name == "" {
		p.Columns.Name = "name"
	}
	if p.Columns.Category == "" {
		p.Columns.Category = "categories"
	}
	if p.Columns.Text == "" {
		p.Columns.Text = "reviews.text"
	}
	if p.Columns.Rating == "" {
		p.Columns.Rating = "reviews.rating"
	}
	if p.Columns.ImageURLs == "" {
		p.Columns.ImageURLs = "imageURLs"
	}

	if c.Classifier.BatchSize <= 0 {
		c.Classifier.BatchSize = 256
	}
	if c.Classifier.Timeout <= 0 {
		c.Classifier.Timeout = time.Minute
	}
	if c.Classifier.Cache.Prefix == "" {
		c.Classifier.Cache.Prefix = "review-digest:sentiment:"
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.ModelName == "" {
		if c.LLM.Provider == "google" {
			c.LLM.ModelName = "gemini-2.5-flash"
		} else {
			c.LLM.ModelName = "gpt-3.5-turbo"
		}
	}
	if c.LLM.MaxOutputTokens <= 0 {
		c.LLM.MaxOutputTokens = 300
	}
	if c.LLM.Temperature == nil {
		t := DefaultTemperature
		c.LLM.Temperature = &t
	}
	if c.LLM.Concurrency <= 0 {
		c.LLM.Concurrency = 1
	}

	if c.Mongo.DBName == "" {
		c.Mongo.DBName = "review_digest"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "review-digest.digest.events"
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = "output/top_products.sqlite"
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8080"
	}
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
