package events

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	EmployeeSaved                EventType = "employee_saved"
	EmployeeDeleted              EventType = "employee_deleted"
	SkillSaved                   EventType = "skill_saved"
	SkillDeleted                 EventType = "skill_deleted"
	CertificateSaved             EventType = "certificate_saved"
	CertificateDeleted           EventType = "certificate_deleted"
	SkillAssignmentSaved         EventType = "skill_assignment_saved"
	SkillAssignmentDeleted       EventType = "skill_assignment_deleted"
	CertificateAssignmentSaved   EventType = "certificate_assignment_saved"
	CertificateAssignmentDeleted EventType = "certificate_assignment_deleted"
	SkillsImported               EventType = "skills_imported"
)

type Event struct {
	Type     EventType `json:"type"`
	EntityID int64     `json:"entity_id"`
	Payload  any       `json:"payload,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher receives change notifications. Publish never blocks.
type Publisher interface {
	Publish(eventType EventType, entityID int64, payload any)
}

type Nop struct{}

func (Nop) Publish(EventType, int64, any) {}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes events to Kafka from a buffered queue drained by one
// background goroutine.
type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
	done      sync.WaitGroup
	brokers   []string
	topic     string
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	p := &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			Topic:                  topic,
			AllowAutoTopicCreation: true,
		},
		events:    make(chan Event, 1000),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
		brokers:   brokers,
		topic:     topic,
	}
	p.start()
	return p
}

func (p *Producer) start() {
	p.done.Add(1)
	go func() {
		defer p.done.Done()
		p.eventLoop()
	}()
}

// EnsureTopic creates the topic when the broker allows it.
func (p *Producer) EnsureTopic() {
	conn, err := kafka.Dial("tcp", p.brokers[0])
	if err != nil {
		p.logger.Warn("failed to dial kafka", zap.Error(err))
		return
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{Topic: p.topic, NumPartitions: 3, ReplicationFactor: 1})
	if err != nil {
		p.logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}
}

func (p *Producer) Publish(eventType EventType, entityID int64, payload any) {
	select {
	case p.events <- Event{Type: eventType, EntityID: entityID, Payload: payload, At: time.Now().UTC()}:
	default:
		p.logger.Warn("kafka producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.Int64("entity_id", entityID),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			for {
				select {
				case event := <-p.events:
					p.sendEvent(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("failed to serialize event",
			zap.Error(err),
			zap.Int64("entity_id", event.EntityID),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(string(event.Type) + ":" + strconv.FormatInt(event.EntityID, 10)),
		Value: value,
	})
	if err != nil {
		p.logger.Error("failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.Int64("entity_id", event.EntityID),
		)
	}
}

// Close drains queued events and closes the writer.
func (p *Producer) Close() {
	close(p.closeChan)
	p.done.Wait()
	if err := p.writer.Close(); err != nil {
		p.logger.Error("failed to close kafka writer", zap.Error(err))
	}
}
