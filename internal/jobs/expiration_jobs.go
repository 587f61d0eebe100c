package jobs

import (
	"context"
	"errors"
	"time"

	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/logger"
	"volunteerhub-backend/internal/repository"
	"volunteerhub-backend/internal/security"
)

// ExpireStaleAssignments ages out sent invitations whose response window
// elapsed without an answer
func (jr *JobRunner) ExpireStaleAssignments() {
	jr.runWithRecovery("ExpireStaleAssignments", func() {
		ctx := context.Background()

		count, err := jr.services.Assignment.SweepExpired(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to expire stale assignments", "error", err)
			return
		}
		logger.Info("Expired stale assignments", "count", count)
	})
}

// SendResponseReminders nudges volunteers whose invitation has less than a
// day left before it expires. Each assignment is nudged once: a reminder
// notification record is the marker, and rows already past the full window
// are left to the expiry job.
func (jr *JobRunner) SendResponseReminders() {
	jr.runWithRecovery("SendResponseReminders", func() {
		ctx := context.Background()

		window := time.Duration(jr.config.Engine.ResponseWindowHours) * time.Hour
		if window <= 24*time.Hour {
			logger.Info("Response window too short for reminders, skipping")
			return
		}
		// Sent earlier than (window - 24h) ago means under a day remains.
		now := time.Now()
		from := now.Add(-window)
		to := now.Add(-(window - 24*time.Hour))

		due, err := jr.store.ListNeedingReminder(ctx, from, to)
		if err != nil {
			logger.Error("Failed to list assignments needing reminders", "error", err)
			return
		}

		count := 0
		for _, a := range due {
			task, err := jr.store.TaskRepository.GetByID(ctx, a.TaskID)
			if err != nil {
				logger.Error("Failed to load task for reminder", "assignment_id", a.ID, "error", err)
				continue
			}
			event, err := jr.store.EventRepository.GetByID(ctx, a.EventID)
			if err != nil {
				logger.Error("Failed to load event for reminder", "assignment_id", a.ID, "error", err)
				continue
			}
			volunteer, err := jr.store.VolunteerRepository.GetByID(ctx, a.VolunteerID)
			if err != nil {
				logger.Error("Failed to load volunteer for reminder", "assignment_id", a.ID, "error", err)
				continue
			}

			token := security.EncodeResponseToken(a.ID, a.VolunteerID, time.Now())
			acceptURL := jr.responseURL(domain.ResponseActionAccept, a.ID, a.VolunteerID, token)
			rejectURL := jr.responseURL(domain.ResponseActionReject, a.ID, a.VolunteerID, token)

			err = jr.services.Email.SendResponseReminderEmail(ctx,
				volunteer.Email, volunteer.FullName(), task.Title, event.Title, acceptURL, rejectURL)
			if err != nil {
				logger.Error("Failed to send response reminder", "assignment_id", a.ID, "error", err)
				continue
			}

			marker := &domain.NotificationRecord{
				AssignmentID:  a.ID,
				RecipientID:   a.VolunteerID,
				Channel:       domain.NotificationChannelInApp,
				Kind:          domain.NotificationKindReminder,
				Title:         "Reminder: respond to task " + task.Title,
				Message:       "Your invitation to " + task.Title + " expires in less than a day.",
				ResponseToken: token,
			}
			if err := jr.store.NotificationRepository.Create(ctx, marker); err != nil {
				if errors.Is(err, repository.ErrAlreadyReminded) {
					logger.Debug("Reminder already recorded concurrently", "assignment_id", a.ID)
					continue
				}
				logger.Error("Failed to record reminder", "assignment_id", a.ID, "error", err)
				continue
			}
			count++
		}
		logger.Info("Sent response reminders", "count", count)
	})
}

func (jr *JobRunner) responseURL(action domain.ResponseAction, assignmentID, volunteerID, token string) string {
	return jr.config.Engine.BaseURL + "/volunteer/task-response?action=" + string(action) +
		"&id=" + assignmentID + "&volunteerId=" + volunteerID + "&token=" + token
}
