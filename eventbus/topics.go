package eventbus

import "review-digest/config"

// DigestTopic returns the topic carrying digest run events.
func DigestTopic(cfg config.KafkaConfig) Topic {
	return NewTopic(cfg.Topic)
}
