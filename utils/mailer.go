package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

// One blocking SMTP attempt with a fixed timeout. Failures are returned to
// the caller as-is; there is no retry or queueing.
const smtpTimeout = 20 * time.Second

// SendSurveyInvitation mails the take-link to the recipient.
func SendSurveyInvitation(recipientEmail, surveyLink string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return errors.New("SMTP_HOST is not set")
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	sender := os.Getenv("SMTP_SENDER")
	password := os.Getenv("SMTP_PASSWORD")

	m := gomail.NewMessage()
	m.SetHeader("From", sender)
	m.SetHeader("To", recipientEmail)
	m.SetHeader("Subject", "Invitation to take a survey")
	m.SetBody("text/html", fmt.Sprintf("Please take the survey at: <a href=%q>%s</a>", surveyLink, surveyLink))

	d := gomail.NewDialer(host, port, sender, password)
	d.SSL = port == 465

	// gomail has no context support, so a send that outlives the deadline
	// is abandoned here. The goroutine is still bounded: the dial carries
	// its own network timeout and the buffered channel lets the goroutine
	// deliver its result and exit.
	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()
	select {
	case err := <-done:
		return err
	case <-time.After(smtpTimeout):
		return errors.New("smtp send timed out")
	}
}
