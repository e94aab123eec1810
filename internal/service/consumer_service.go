package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-interviewer-be/internal/pkg/logger"
	"ai-interviewer-be/internal/pkg/mailer"
	"ai-interviewer-be/pkg/events"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains interview lifecycle events and delivers the final
// report to the hiring manager's inbox. Delivery failures are logged and
// absorbed; the candidate-facing session is long gone by then.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	emailService mailer.IEmailService
	recipient    string
	logger       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	recipient string,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		emailService: emailService,
		recipient:    recipient,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var event events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("Consumer", "failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if event.EventType() != events.TypeInterviewCompleted {
		msg.Ack()
		return
	}

	payload := event.Payload()
	candidateName, _ := payload["candidate_name"].(string)
	verdict, _ := payload["verdict"].(string)
	reportText, _ := payload["report"].(string)
	finalScore, _ := payload["final_score"].(float64)

	if cs.recipient == "" {
		cs.logger.Warn("Consumer", "no report recipient configured, dropping report", map[string]interface{}{
			"candidate": candidateName,
		})
		msg.Ack()
		return
	}

	if err := cs.emailService.SendInterviewReport(cs.recipient, candidateName, verdict, finalScore, reportText); err != nil {
		cs.logger.Error("Consumer", "failed to email interview report", map[string]interface{}{
			"candidate": candidateName,
			"error":     err.Error(),
		})
		// Ack anyway: report delivery is best-effort and a retry loop would
		// hammer the SMTP server with the same broken message.
	} else {
		cs.logger.Info("Consumer", "interview report delivered", map[string]interface{}{
			"candidate": candidateName,
			"verdict":   verdict,
		})
	}
	msg.Ack()
}
