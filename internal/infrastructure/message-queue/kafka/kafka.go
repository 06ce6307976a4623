package kafka

import (
	"context"

	"github.com/LeonEnneken/Leitstellen-Backend/config"
	"github.com/segmentio/kafka-go"
)

// CreateKafkaProducer dials the partition leader of the configured topic.
// It returns nil without error when no broker is configured.
func CreateKafkaProducer(config *config.Config) (*kafka.Conn, error) {
	if config.KafkaConfig.BrokerAddress == "" {
		return nil, nil
	}

	conn, err := kafka.DialLeader(context.Background(), "tcp", config.KafkaConfig.BrokerAddress, config.KafkaConfig.BrokerTopic, config.KafkaConfig.BrokerPartition)
	if err != nil {
		return nil, err
	}

	return conn, nil
}
