package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

type KafkaEventPublisherImpl struct {
	kafkaProducer *kafka.Conn
	cb            *gobreaker.CircuitBreaker[int]
	backoff       time.Duration
}

// CreateKafkaEventPublisher returns a publisher that drops events when no
// producer is configured.
func CreateKafkaEventPublisher(kafkaProducer *kafka.Conn, cb *gobreaker.CircuitBreaker[int]) EventPublisher {
	return &KafkaEventPublisherImpl{kafkaProducer: kafkaProducer, cb: cb, backoff: 100 * time.Millisecond}
}

func (p *KafkaEventPublisherImpl) Publish(ctx context.Context, eventType string, data interface{}) (err error) {
	if p.kafkaProducer == nil {
		return nil
	}

	jsonMsg, err := json.Marshal(dto.KafkaMessage{
		EventType: eventType,
		Data:      data,
	})
	if err != nil {
		return err
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		_, err = p.cb.Execute(func() (int, error) {
			return p.writeKafkaMessage(jsonMsg, eventType)
		})
		if err == nil || errors.Is(err, gobreaker.ErrOpenState) {
			break
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "Publish").Str("event_type", eventType).Msg("")
		time.Sleep(p.backoff * time.Duration(i+1))
	}

	return err
}

func (p *KafkaEventPublisherImpl) writeKafkaMessage(msg []byte, key string) (int, error) {
	p.kafkaProducer.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return p.kafkaProducer.WriteMessages(
		kafka.Message{
			Key:   []byte(key),
			Value: msg,
		},
	)
}
