package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/watchparty-api/pkg/mailer"
	mailtpl "github.com/oksasatya/watchparty-api/pkg/mailer/templates"
)

type sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type outcome int

const (
	ack outcome = iota
	requeue
	drop
)

type worker struct {
	sender  sender
	appName string
	appURL  string
	logger  *logrus.Logger
}

// handle renders and sends one queued job. Undecodable or unrenderable jobs
// are dropped; send failures are requeued.
func (w *worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.Job
	if err := json.Unmarshal(body, &job); err != nil {
		w.logger.WithError(err).Warn("bad message")
		return drop
	}
	if job.To == "" {
		w.logger.WithField("type", job.Type).Warn("job without recipient")
		return drop
	}

	data := make(map[string]any, len(job.Data)+2)
	for k, v := range job.Data {
		data[k] = v
	}
	data["AppName"] = w.appName
	data["AppURL"] = w.appURL

	subject, text, html, err := mailtpl.Render(job.Type, data)
	if err != nil {
		w.logger.WithError(err).WithField("type", job.Type).Error("render failed")
		return drop
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := w.sender.Send(c, job.To, subject, text, html); err != nil {
		w.logger.WithError(err).WithFields(logrus.Fields{"type": job.Type, "to": job.To}).Warn("send failed")
		return requeue
	}
	w.logger.WithFields(logrus.Fields{"type": job.Type, "to": job.To}).Debug("email sent")
	return ack
}
