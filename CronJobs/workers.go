package CronJobs

import (
	"FonoInova/Models"
	"FonoInova/Whatsapp"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"
)

// SessionReminder sends WhatsApp reminders for sessions coming up in about
// three hours.
type SessionReminder struct {
	DB *gorm.DB
}

func NewSessionReminder(db *gorm.DB) *SessionReminder {
	return &SessionReminder{
		DB: db,
	}
}

func (sr *SessionReminder) StartReminderCron() *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.Local)

	scheduler.Every(1).Minutes().Do(func() {
		log.Println("Running session reminder check...")
		if err := sr.SendSessionReminders(); err != nil {
			log.Printf("Error sending session reminders: %v", err)
		}
	})

	scheduler.StartAsync()
	log.Println("Session reminder cron job started")

	return scheduler
}

func (sr *SessionReminder) SendSessionReminders() error {
	now := time.Now()

	// A window slightly wider than the one-minute tick so no session slips
	// between two runs.
	startWindow := now.Add(2*time.Hour + 53*time.Minute)
	endWindow := now.Add(3*time.Hour + 7*time.Minute)

	var sessions []Models.Session

	result := sr.DB.
		Where("status = ? AND date_time BETWEEN ? AND ?", Models.SessionStatusScheduled, startWindow, endWindow).
		Find(&sessions)

	if result.Error != nil {
		return fmt.Errorf("failed to query upcoming sessions: %w", result.Error)
	}

	for _, session := range sessions {
		var patient Models.Patient
		if err := sr.DB.First(&patient, session.PatientID).Error; err != nil {
			log.Printf("Failed to find patient for session ID %d: %v", session.ID, err)
			continue
		}

		if !patient.IsVerified || patient.Phone == "" {
			continue
		}

		var doctor Models.Doctor
		if err := sr.DB.First(&doctor, session.DoctorID).Error; err != nil {
			log.Printf("Failed to find doctor for session ID %d: %v", session.ID, err)
			continue
		}

		message := fmt.Sprintf(
			"Reminder: You have a session with %s today at %s (in 3 hours). "+
				"Please arrive 10 minutes early. If you need to reschedule, please contact us.",
			doctor.Name,
			session.DateTime.Format("3:04 PM"),
		)

		if err := Whatsapp.SendMessage(patient.Phone, message); err != nil {
			log.Printf("Failed to send reminder to patient %s: %v", patient.Name, err)
			continue
		}

		log.Printf("Reminder sent to %s for session at %s", patient.Name, session.DateTime.Format("2006-01-02 15:04"))
	}

	return nil
}
