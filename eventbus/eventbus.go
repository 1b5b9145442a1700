package eventbus

import (
	"context"
	"encoding/json"
)

// Topic은 토픽의 기본 이름을 관리합니다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// Event는 Kafka 메시지의 페이로드로 사용되는 구조체입니다.
type Event struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EventHandler는 이벤트 처리 함수의 시그니처입니다.
type EventHandler func(ctx context.Context, event Event) error

// EventBus 인터페이스는 이벤트 발행 및 구독의 추상화를 정의합니다.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	// Subscribe는 토픽을 구독하여 handler 를 실행합니다. ctx 가 취소될 때까지 블로킹합니다.
	Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error
	Close()
}
