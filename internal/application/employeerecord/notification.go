package employeerecord

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/itou/backend/internal/domain/employeerecord"
	"github.com/itou/backend/internal/domain/identity"
	"github.com/itou/backend/internal/domain/shared"
	"github.com/itou/backend/internal/domain/siae"
	"github.com/itou/backend/internal/infrastructure/logger"
	"github.com/itou/backend/internal/infrastructure/mailer"
	"go.uber.org/zap"
)

// EmailQueue accepts emails for asynchronous delivery
type EmailQueue interface {
	Enqueue(ctx context.Context, messages ...mailer.Message) error
}

// NotificationConfig holds what outgoing emails need
type NotificationConfig struct {
	From    string
	BaseURL string
	Demo    bool
}

var rejectedSubject = template.Must(template.New("subject").Parse(
	`Fiche salarié rejetée pour le PASS IAE {{.ApprovalNumber}}`))

var rejectedBody = template.Must(template.New("body").Parse(`Bonjour,

La fiche salarié transmise pour le PASS IAE {{.ApprovalNumber}} de la structure {{.SiaeName}} a été rejetée par l'ASP.

Code retour : {{.Code}}
Motif : {{.Label}}
{{if .BaseURL}}

Vous pouvez corriger et renvoyer la fiche depuis votre espace : {{.BaseURL}}/employee_record/list?status=REJECTED
{{end}}


Cordialement,
L'équipe de la Plateforme de l'inclusion
`))

// RejectionNotifier emails the administrators of a structure when the ASP
// rejects one of its employee records
type RejectionNotifier struct {
	siaes       siae.SiaeRepository
	memberships siae.MembershipRepository
	users       identity.UserRepository
	queue       EmailQueue
	config      NotificationConfig
}

// NewRejectionNotifier creates a new RejectionNotifier
func NewRejectionNotifier(siaes siae.SiaeRepository, memberships siae.MembershipRepository, users identity.UserRepository, queue EmailQueue, cfg NotificationConfig) *RejectionNotifier {
	return &RejectionNotifier{
		siaes:       siaes,
		memberships: memberships,
		users:       users,
		queue:       queue,
		config:      cfg,
	}
}

// EventTypes returns the event types this handler is interested in
func (n *RejectionNotifier) EventTypes() []string {
	return []string{employeerecord.EventTypeEmployeeRecordRejected}
}

// Handle enqueues one email per active administrator
func (n *RejectionNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	rejected, ok := event.(*employeerecord.EmployeeRecordRejectedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}

	structure, err := n.siaes.FindByID(ctx, rejected.SiaeID)
	if err != nil {
		return err
	}
	adminIDs, err := n.memberships.AdminUserIDs(ctx, rejected.SiaeID)
	if err != nil {
		return err
	}
	if len(adminIDs) == 0 {
		logger.L(ctx).Info("No administrator to notify of a rejected employee record",
			zap.Int64("siae_id", rejected.SiaeID))
		return nil
	}
	admins, err := n.users.FindByIDs(ctx, adminIDs)
	if err != nil {
		return err
	}

	data := struct {
		ApprovalNumber string
		SiaeName       string
		Code           string
		Label          string
		BaseURL        string
	}{rejected.ApprovalNumber, structure.DisplayName(), rejected.ProcessingCode, rejected.ProcessingLabel, n.config.BaseURL}

	subject, err := render(rejectedSubject, data)
	if err != nil {
		return err
	}
	body, err := render(rejectedBody, data)
	if err != nil {
		return err
	}

	messages := make([]mailer.Message, 0, len(admins))
	for _, admin := range admins {
		if admin.Email == "" || !admin.IsActive {
			continue
		}
		messages = append(messages, mailer.PrepareMessage(n.config.From, []string{admin.Email}, nil, subject, body, n.config.Demo))
	}
	return n.queue.Enqueue(ctx, messages...)
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

var _ shared.EventHandler = (*RejectionNotifier)(nil)
