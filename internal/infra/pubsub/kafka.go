package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lovoo/goka"
)

const (
	maxRetries int = 10
)

type publisherKey struct {
	brokers       string
	topic         string
	prototypeType string
}

type publisherInstance struct {
	publisher *SimpleKafkaPublisher
	once      sync.Once
	err       error
}

// Emitters hold broker connections, so publishers are singletons per
// broker/topic/prototype combination.
var (
	publishersMap   = make(map[publisherKey]*publisherInstance)
	publishersMutex sync.RWMutex
)

func NewKafkaPublisher(brokers []string, topic string, prototype any) (*SimpleKafkaPublisher, error) {
	key := publisherKey{
		brokers:       strings.Join(brokers, ","),
		topic:         topic,
		prototypeType: fmt.Sprintf("%T", prototype),
	}

	publishersMutex.Lock()
	instance, exists := publishersMap[key]
	if !exists {
		instance = &publisherInstance{}
		publishersMap[key] = instance
	}
	publishersMutex.Unlock()

	instance.once.Do(func() {
		slog.Debug("creating kafka publisher",
			slog.String("topic", topic),
			slog.String("prototypeType", key.prototypeType))

		codec := newJSONCodec(prototype)
		for try := 0; try < maxRetries; try++ {
			slog.Debug("connecting to kafka brokers", slog.String("brokers", key.brokers))
			e, err := goka.NewEmitter(brokers, goka.Stream(topic), codec)

			if err != nil {
				time.Sleep(5 * time.Second)
			} else {
				instance.publisher = &SimpleKafkaPublisher{e}
				return
			}
		}

		instance.err = fmt.Errorf("🤦‍♂️ imposible to connect to kafka brokers after %d retries", maxRetries)
	})

	if instance.err != nil {
		return nil, instance.err
	}

	return instance.publisher, nil
}

type SimpleKafkaPublisher struct {
	emitter *goka.Emitter
}

func (p *SimpleKafkaPublisher) Publish(_ context.Context, key Key, message Message) error {
	slog.Debug("publishing message", slog.String("key", string(key)))
	err := p.emitter.EmitSync(string(key), message)
	if err != nil {
		slog.Error("emitting message", slog.String("error", err.Error()))
		return err
	}

	return nil
}

type consumerKey struct {
	brokers string
	group   string
}

type consumerInstance struct {
	consumer *SimpleKafkaConsumer
	once     sync.Once
}

var (
	consumersMap   = make(map[consumerKey]*consumerInstance)
	consumersMutex sync.RWMutex
)

func NewKafkaConsumer(brokers []string, group string) *SimpleKafkaConsumer {
	key := consumerKey{
		brokers: strings.Join(brokers, ","),
		group:   group,
	}

	consumersMutex.Lock()
	instance, exists := consumersMap[key]
	if !exists {
		instance = &consumerInstance{}
		consumersMap[key] = instance
	}
	consumersMutex.Unlock()

	instance.once.Do(func() {
		slog.Debug("creating kafka consumer",
			slog.String("group", group),
			slog.String("brokers", key.brokers))

		instance.consumer = &SimpleKafkaConsumer{
			brokers: brokers,
			group:   goka.Group(group),
		}
	})

	return instance.consumer
}

var _ Consumer = (*SimpleKafkaConsumer)(nil)

type SimpleKafkaConsumer struct {
	brokers []string
	group   goka.Group
}

func (c *SimpleKafkaConsumer) Consume(topic Topic, handler MessageHandler, prototype Prototype) error {
	cb := func(ctx goka.Context, msg any) {
		slog.Debug("message received", slog.Any("msg", msg))
		key := Key(ctx.Key())
		if err := handler(ctx.Context(), key, msg); err != nil {
			slog.Error("handling message",
				slog.String("topic", string(topic)),
				slog.String("error", err.Error()))
		}
	}
	stream := goka.Stream(topic)
	gg := goka.DefineGroup(
		c.group,
		goka.Input(stream, newJSONCodec(prototype), cb),
	)
	p, err := goka.NewProcessor(c.brokers, gg)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	return p.Run(context.Background())
}
