// Package jobs holds the outbox jobs dispatched after primary writes.
// Workers retry them with backoff; exhausted jobs land in failed_jobs.
package jobs

import (
	"errors"

	"github.com/workhive/workhive/app/services"
	"github.com/workhive/workhive/config"
	"github.com/workhive/workhive/pkg/mail"
	"github.com/workhive/workhive/pkg/queue"
)

// Job names used in queue payload envelopes.
const (
	AdminNotifyJobName = "notify.admins"
	MailJobName        = "mail.send"
)

// Workers rebuild jobs from JSON, so dependencies are package state set
// once at boot.
var notifySvc *services.NotificationService

// SetDeps wires the services jobs need. Call before StartWorkers.
func SetDeps(n *services.NotificationService) {
	notifySvc = n
}

// Register adds all job factories to the queue.
func Register() {
	queue.Register(AdminNotifyJobName, func() queue.Job { return &AdminNotifyJob{} })
	queue.Register(MailJobName, func() queue.Job { return &MailJob{} })
}

// AdminNotifyJob fans one notification row out to every admin user.
type AdminNotifyJob struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (AdminNotifyJob) Name() string { return AdminNotifyJobName }

func (j *AdminNotifyJob) Handle() error {
	if notifySvc == nil {
		return errors.New("jobs: notification service not wired")
	}
	return notifySvc.FanOutToAdmins(j.Title, j.Message, j.Type)
}

// MailJob sends one email over SMTP.
type MailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (MailJob) Name() string { return MailJobName }

func (j *MailJob) Handle() error {
	return mail.To(j.To).Subject(j.Subject).Body(j.Body).Send()
}

// NotifyAdminsByMail enqueues a MailJob to the configured admin address.
// A missing address is a no-op, not an error.
func NotifyAdminsByMail(subject, body string) {
	addr := config.AdminEmail()
	if addr == "" {
		return
	}
	queue.Dispatch(&MailJob{To: addr, Subject: subject, Body: body}) //nolint:errcheck
}
