package scheduler

import (
	"time"

	"github.com/retoapp/socia-service/internal/calc"
	"github.com/retoapp/socia-service/internal/models"
	"github.com/retoapp/socia-service/internal/repository"
	"github.com/retoapp/socia-service/internal/utils/email"
	"github.com/sirupsen/logrus"
)

// ReminderJob emails each socia her credit purchases that are due within the
// actionable window or already overdue
type ReminderJob struct {
	repo   *repository.Repository
	sender *email.Sender
	log    *logrus.Logger
}

// NewReminderJob creates the cobranza reminder job
func NewReminderJob(repo *repository.Repository, sender *email.Sender, log *logrus.Logger) *ReminderJob {
	return &ReminderJob{repo: repo, sender: sender, log: log}
}

// Name identifies the job in logs
func (j *ReminderJob) Name() string {
	return "cobranza-reminder"
}

// Run sends one reminder per user with outstanding credits in the window.
// A failed email is logged and skipped so one bad address does not block the
// rest of the batch.
func (j *ReminderJob) Run() error {
	byUser, err := j.repo.ListUsersWithDueCredits(calc.DueSoonWindowDays)
	if err != nil {
		return err
	}

	now := time.Now()
	for userID, entries := range byUser {
		user, err := j.repo.FindUserByID(userID)
		if err != nil {
			j.log.Errorf("Could not load user %d for reminder: %v", userID, err)
			continue
		}

		for i := range entries {
			entries[i].Overdue = entryOverdue(entries[i], now)
		}

		if err := j.sender.SendCobranzaReminder(user.Email, user.Name, entries); err != nil {
			j.log.Errorf("Could not send reminder to user %d: %v", userID, err)
		}
	}

	j.log.Infof("Cobranza reminders processed for %d users", len(byUser))
	return nil
}

func entryOverdue(e models.CobranzaEntry, now time.Time) bool {
	return e.Purchase.CreditDueDate != nil && e.Purchase.CreditDueDate.Before(now)
}
