package config

import (
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Fields 는 구조화 로그를 위한 공통 필드 타입이다.
type Fields map[string]any

// Logger 는 애플리케이션 전역 로거다.
// InitLogger 가 호출되지 않더라도 기본 info 레벨로 동작하도록 초기화한다.
var Logger = NewLogger("info")

// InitLogger 는 설정의 로그 레벨로 전역 로거를 다시 만든다.
// LOG_LEVEL 환경변수가 있으면 설정 값보다 우선한다.
func InitLogger(cfg LoggingConfig) {
	level := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if level == "" {
		level = strings.ToLower(cfg.Level)
	}
	if level == "" {
		level = "info"
	}
	Logger = NewLogger(level)
}

// NewLogger 는 주어진 레벨로 gookit/slog 기반 JSON 로거를 생성한다.
func NewLogger(level string) *slog.Logger {
	logLevel := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	formatter := slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
		}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
		f.TimeFormat = "2006-01-02T15:04:05"
	})
	h.SetFormatter(formatter)

	return slog.NewWithHandlers(h)
}

// withServiceName 은 service_name 필드를 SERVICE_NAME 환경변수 기준으로 보강한다.
func withServiceName(fields Fields) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if _, ok := fields["service_name"]; !ok {
		if sn := os.Getenv("SERVICE_NAME"); sn != "" {
			fields["service_name"] = sn
		}
	}
	return fields
}

func InfoWithFields(msg string, fields Fields) {
	Logger.WithFields(slog.M(withServiceName(fields))).Info(msg)
}

func DebugWithFields(msg string, fields Fields) {
	Logger.WithFields(slog.M(withServiceName(fields))).Debug(msg)
}

func WarnWithFields(msg string, fields Fields) {
	Logger.WithFields(slog.M(withServiceName(fields))).Warn(msg)
}

func ErrorWithFields(msg string, fields Fields) {
	Logger.WithFields(slog.M(withServiceName(fields))).Error(msg)
}
