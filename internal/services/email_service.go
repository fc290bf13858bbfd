package services

import (
	"context"
	"log"
	"strings"

	"gopkg.in/gomail.v2"

	"taskmanager/internal/models"
)

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier mails new tasks and subtasks to a fixed recipient list.
type EmailNotifier struct {
	dialer mailDialer
	from   string
	to     []string
}

func NewEmailNotifier(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string, to []string) *EmailNotifier {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &EmailNotifier{dialer: dialer, from: fromEmail, to: to}
}

func (s *EmailNotifier) send(subject, htmlBody string) {
	if len(s.to) == 0 {
		return
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", "<p>"+strings.ReplaceAll(htmlBody, "\n", "<br>")+"</p>")

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Printf("[email][send][err] subject=%q: %v", subject, err)
		return
	}
	log.Printf("[email][send][ok] subject=%q rcpt=%d", subject, len(s.to))
}

func (s *EmailNotifier) TaskCreated(_ context.Context, t *models.Task) {
	s.send("New task: "+t.Title, formatTask("A new task was created.", t))
}

func (s *EmailNotifier) SubTaskCreated(_ context.Context, st *models.SubTask) {
	s.send("New subtask: "+st.Title, formatSubTask("A new subtask was created.", st))
}
