// Package mailer sends notification emails on a best-effort basis. Enqueue
// never blocks the calling request and delivery carries no guarantee: a full
// queue drops the message and a failed send is only logged.
package mailer

import (
	"github.com/rizalfh/paylane/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Enqueue(msg Message)
}

const queueSize = 64

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	queue  chan Message
	done   chan struct{}
}

func NewSMTPMailer(cfg *config.SMTPConfig) *SMTPMailer {
	m := &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		queue:  make(chan Message, queueSize),
		done:   make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *SMTPMailer) Enqueue(msg Message) {
	select {
	case m.queue <- msg:
	default:
		logrus.WithField("to", msg.To).Warn("mail queue full, dropping message")
	}
}

// Close drains the queue and stops the worker.
func (m *SMTPMailer) Close() {
	close(m.queue)
	<-m.done
}

func (m *SMTPMailer) run() {
	defer close(m.done)
	for msg := range m.queue {
		gm := gomail.NewMessage()
		gm.SetHeader("From", m.from)
		gm.SetHeader("To", msg.To)
		gm.SetHeader("Subject", msg.Subject)
		gm.SetBody("text/html", msg.Body)

		if err := m.dialer.DialAndSend(gm); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"to":      msg.To,
				"subject": msg.Subject,
			}).Warn("failed to send notification email")
		}
	}
}
