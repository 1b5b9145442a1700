package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"review-digest/config"
)

// KafkaEventBus는 confluent-kafka-go 라이브러리를 사용한 EventBus 구현체입니다.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string
}

// NewKafkaEventBus는 Kafka Producer를 초기화합니다.
func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka Producer 생성 실패: %w", err)
	}

	// Producer 이벤트를 처리하는 고루틴 (전달 보고서 등)
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					config.Logger.Errorf("메시지 전달 실패 %v: %v", ev.TopicPartition, ev.TopicPartition.Error)
				}
			case kafka.Error:
				config.Logger.Errorf("Kafka 오류: %v", ev)
			}
		}
	}()

	return &KafkaEventBus{
		Producer: p,
		Brokers:  brokers,
	}, nil
}

// Close는 Producer를 안전하게 종료합니다.
func (k *KafkaEventBus) Close() {
	if k.Producer != nil {
		// 5초 동안 남은 메시지를 모두 플러시합니다.
		if remaining := k.Producer.Flush(5000); remaining > 0 {
			config.Logger.Warnf("플러시 후에도 %d개의 메시지가 남아 있습니다.", remaining)
		}
		k.Producer.Close()
		config.Logger.Info("Kafka Producer 종료.")
	}
}

// Publish는 지정된 토픽에 이벤트를 발행하고 전달 결과를 기다립니다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("이벤트 마샬링 실패: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)

	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(event.ID),
		Headers:        []kafka.Header{{Key: "event_type", Value: []byte(event.Type)}},
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("메시지 발행 실패: %w", err)
	}

	select {
	case ev := <-deliveryChan:
		m := ev.(*kafka.Message)
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("메시지 전달 실패: %w", m.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

// Subscribe는 토픽을 구독하고 handler 를 실행합니다.
// handler 실패는 로그만 남기고 오프셋을 커밋합니다.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  k.Brokers,
		"group.id":           groupID,
		"auto.offset.reset":  "latest",
		"enable.auto.commit": false,
	})
	if err != nil {
		return fmt.Errorf("kafka Consumer 생성 실패: %w", err)
	}
	defer c.Close()

	if err := c.SubscribeTopics([]string{topic.Base()}, nil); err != nil {
		return fmt.Errorf("토픽 구독 실패 %s: %w", topic.Base(), err)
	}

	config.Logger.Infof("컨슈머 (%s) 시작됨. 구독 토픽: %s", groupID, topic.Base())

	for {
		select {
		case <-ctx.Done():
			config.Logger.Info("컨슈머 종료 중.")
			return ctx.Err()
		default:
			msg, err := c.ReadMessage(100 * time.Millisecond)
			if err != nil {
				if kerr, ok := err.(kafka.Error); ok {
					if kerr.Code() == kafka.ErrTimedOut {
						continue
					}
					if kerr.IsFatal() {
						return fmt.Errorf("컨슈머 치명적 오류: %w", err)
					}
				}
				config.Logger.Errorf("ReadMessage 오류: %v", err)
				continue
			}

			var evt Event
			if err := json.Unmarshal(msg.Value, &evt); err != nil {
				config.Logger.Errorf("토픽 %s의 이벤트 페이로드 오류: %v. 메시지를 건너뛰고 커밋합니다.", *msg.TopicPartition.Topic, err)
				c.CommitMessage(msg)
				continue
			}

			config.Logger.Debugf("이벤트 %s(%s) 처리 시작", evt.ID, evt.Type)
			if err := handler(ctx, evt); err != nil {
				config.Logger.Errorf("이벤트 %s 처리 실패: %v", evt.ID, err)
			}

			if _, err := c.CommitMessage(msg); err != nil {
				config.Logger.Errorf("오프셋 커밋 오류: %v", err)
			}
		}
	}
}
