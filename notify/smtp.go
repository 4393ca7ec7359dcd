package notify

import (
	"fmt"
	"net/smtp"
)

// EmailAlerter sends alerts by plain SMTP. Sends run in a goroutine so a
// slow mail server cannot delay an order submission.
type EmailAlerter struct {
	Addr string // host:port
	From string
	To   string
	Log  Logger

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailAlerter(addr, from, to string, log Logger) *EmailAlerter {
	return &EmailAlerter{Addr: addr, From: from, To: to, Log: log, send: smtp.SendMail}
}

func (a *EmailAlerter) SendAlert(subject, body string) {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		a.From, a.To, subject, body))

	go func() {
		if err := a.send(a.Addr, nil, a.From, []string{a.To}, msg); err != nil && a.Log != nil {
			a.Log.Printf("email alert failed: %v", err)
		}
	}()
}
