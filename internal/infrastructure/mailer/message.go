// Package mailer prepares outgoing emails and sends them asynchronously
// through a Redis backed queue.
package mailer

import (
	"regexp"
	"strings"
)

// DemoSubjectPrefix flags emails sent by the demo platform
const DemoSubjectPrefix = "[DEMO] "

var extraLineBreaks = regexp.MustCompile(`\n{3,}`)

// Message is a plain text email
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Cc      []string `json:"cc,omitempty"`
	Bcc     []string `json:"bcc,omitempty"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Recipients returns every address the message goes to
func (m Message) Recipients() []string {
	all := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	all = append(all, m.To...)
	all = append(all, m.Cc...)
	return append(all, m.Bcc...)
}

// RemoveExtraLineBreaks collapses runs of three or more line breaks into
// exactly two, which template conditionals tend to leave behind
func RemoveExtraLineBreaks(text string) string {
	return extraLineBreaks.ReplaceAllString(text, "\n\n")
}

// PrepareMessage builds a message from rendered subject and body
func PrepareMessage(from string, to, bcc []string, subject, body string, demo bool) Message {
	subject = RemoveExtraLineBreaks(strings.TrimSpace(subject))
	if demo {
		subject = DemoSubjectPrefix + subject
	}
	return Message{
		From:    from,
		To:      to,
		Bcc:     bcc,
		Subject: subject,
		Body:    RemoveExtraLineBreaks(strings.TrimSpace(body)),
	}
}
