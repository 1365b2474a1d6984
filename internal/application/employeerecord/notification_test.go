package employeerecord

import (
	"context"
	"errors"
	"testing"

	"github.com/itou/backend/internal/domain/employeerecord"
	"github.com/itou/backend/internal/domain/identity"
	"github.com/itou/backend/internal/domain/siae"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func rejectedEvent(t *testing.T) *employeerecord.EmployeeRecordRejectedEvent {
	t.Helper()
	rec := recordWithStatus(1, employeerecord.StatusSent)
	require.NoError(t, rec.UpdateAsRejected("3436", "PASS IAE en doublon"))
	events := rec.GetDomainEvents()
	require.Len(t, events, 1)
	return events[0].(*employeerecord.EmployeeRecordRejectedEvent)
}

func newTestNotifier(demo bool) (*RejectionNotifier, *MockSiaeRepository, *MockMembershipRepository, *MockUserRepository, *recordingQueue) {
	siaes := new(MockSiaeRepository)
	memberships := new(MockMembershipRepository)
	users := new(MockUserRepository)
	queue := &recordingQueue{}
	n := NewRejectionNotifier(siaes, memberships, users, queue, NotificationConfig{
		From:    "noreply@inclusion.beta.gouv.fr",
		BaseURL: "https://emplois.inclusion.beta.gouv.fr",
		Demo:    demo,
	})
	return n, siaes, memberships, users, queue
}

func TestRejectionNotifier_Handle(t *testing.T) {
	ctx := context.Background()
	structure := &siae.Siae{Name: "Régie Nord", Brand: "Atelier Nord", Kind: siae.KindACI}
	structure.ID = 7

	t.Run("emails active administrators", func(t *testing.T) {
		n, siaes, memberships, users, queue := newTestNotifier(false)
		siaes.On("FindByID", ctx, int64(7)).Return(structure, nil)
		memberships.On("AdminUserIDs", ctx, int64(7)).Return([]int64{1, 2, 3}, nil)
		users.On("FindByIDs", ctx, []int64{1, 2, 3}).Return([]identity.User{
			{Email: "admin@example.com", IsActive: true},
			{Email: "", IsActive: true},
			{Email: "gone@example.com", IsActive: false},
		}, nil)

		require.NoError(t, n.Handle(ctx, rejectedEvent(t)))
		require.Len(t, queue.messages, 1)
		msg := queue.messages[0]
		assert.Equal(t, []string{"admin@example.com"}, msg.To)
		assert.Equal(t, "noreply@inclusion.beta.gouv.fr", msg.From)
		assert.Contains(t, msg.Subject, "999990000001")
		assert.Contains(t, msg.Body, "Atelier Nord")
		assert.Contains(t, msg.Body, "3436")
		assert.Contains(t, msg.Body, "PASS IAE en doublon")
		assert.Contains(t, msg.Body, "status=REJECTED")
		assert.NotContains(t, msg.Body, "\n\n\n")
	})

	t.Run("prefixes subjects in demo", func(t *testing.T) {
		n, siaes, memberships, users, queue := newTestNotifier(true)
		siaes.On("FindByID", ctx, int64(7)).Return(structure, nil)
		memberships.On("AdminUserIDs", ctx, int64(7)).Return([]int64{1}, nil)
		users.On("FindByIDs", ctx, []int64{1}).Return([]identity.User{{Email: "admin@example.com", IsActive: true}}, nil)

		require.NoError(t, n.Handle(ctx, rejectedEvent(t)))
		require.Len(t, queue.messages, 1)
		assert.Contains(t, queue.messages[0].Subject, "[DEMO] ")
	})

	t.Run("skips structures without administrator", func(t *testing.T) {
		n, siaes, memberships, users, queue := newTestNotifier(false)
		siaes.On("FindByID", ctx, int64(7)).Return(structure, nil)
		memberships.On("AdminUserIDs", ctx, int64(7)).Return([]int64{}, nil)

		require.NoError(t, n.Handle(ctx, rejectedEvent(t)))
		assert.Empty(t, queue.messages)
		users.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	})

	t.Run("returns lookup errors", func(t *testing.T) {
		n, siaes, _, _, _ := newTestNotifier(false)
		siaes.On("FindByID", ctx, int64(7)).Return(nil, errors.New("db down"))

		require.Error(t, n.Handle(ctx, rejectedEvent(t)))
	})

	t.Run("rejects other events", func(t *testing.T) {
		n, _, _, _, _ := newTestNotifier(false)
		rec := recordWithStatus(1, employeerecord.StatusNew)
		require.NoError(t, rec.UpdateAsReady())

		require.Error(t, n.Handle(ctx, rec.GetDomainEvents()[0]))
	})
}

func TestRejectionNotifier_EventTypes(t *testing.T) {
	n, _, _, _, _ := newTestNotifier(false)
	assert.Equal(t, []string{employeerecord.EventTypeEmployeeRecordRejected}, n.EventTypes())
}
