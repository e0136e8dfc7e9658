package credentialevents

import (
	"context"
	"encoding/json"
	"time"

	"resetpass/internal/core/domain/account"
	e "resetpass/internal/core/domain/errors"
	"resetpass/internal/core/domain/logging"
	"resetpass/internal/rabbitmq"

	"github.com/rabbitmq/amqp091-go"
)

const (
	phasePre  = "pre_change"
	phasePost = "post_change"
)

// RabbitMQ publishes credential change events so downstream systems
// (session revocation, audit trail) can react to resets.
type RabbitMQ struct {
	log        logging.Logger
	channel    *rabbitmq.Channel
	exchange   string
	routingKey string
	now        func() time.Time
}

func NewRabbitMQ(
	log logging.Logger,
	channel *rabbitmq.Channel,
	exchange string,
	routingKey string,
	now func() time.Time,
) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &RabbitMQ{log: log, channel: channel, exchange: exchange, routingKey: routingKey, now: now}
}

func (p *RabbitMQ) PreCredentialChange(ctx context.Context, a account.Account) error {
	return p.publish(ctx, phasePre, a)
}

func (p *RabbitMQ) PostCredentialChange(ctx context.Context, a account.Account) error {
	return p.publish(ctx, phasePost, a)
}

func (p *RabbitMQ) publish(ctx context.Context, phase string, a account.Account) error {
	body, err := json.Marshal(credentialChangeEvent{
		Phase:     phase,
		AccountID: int64(a.ID),
		Email:     string(a.Email),
		At:        p.now().UTC(),
	})
	if err != nil {
		logging.Error(ctx, p.log, err)
		return err
	}
	err = p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		logging.Error(ctx, p.log, err)
		return err
	}
	p.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("exchange", p.exchange),
		logging.Entry("RK", p.routingKey),
		logging.Entry("phase", phase),
		logging.Entry("accountID", a.ID),
	)
	return nil
}

type credentialChangeEvent struct {
	Phase     string    `json:"phase"`
	AccountID int64     `json:"accountId"`
	Email     string    `json:"email"`
	At        time.Time `json:"at"`
}
