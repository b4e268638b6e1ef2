package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-site-api/internal/domain"
)

func submission(msg string) SubmitInput {
	return SubmitInput{
		Name:      "Huda",
		Email:     "Huda@Example.com",
		Subject:   "Website inquiry",
		Message:   msg,
		IPAddress: "203.0.113.9",
		UserAgent: "Mozilla/5.0",
	}
}

const hamMessage = "I would like to inquire about your web development services for my startup"

func TestSubmitNotifiesForHam(t *testing.T) {
	f := newFixture(t)
	m, err := f.contact.Submit(ctx, submission(hamMessage))
	require.NoError(t, err)
	assert.False(t, m.IsSpam)
	assert.Equal(t, domain.ContactStatusNew, m.Status)
	assert.Equal(t, domain.ContactCategoryGeneral, m.Category)
	assert.Equal(t, domain.ContactPriorityNormal, m.Priority)
	assert.Equal(t, "huda@example.com", m.Email)

	f.contact.Wait()
	admin, replies := f.spy.calls()
	assert.Equal(t, 1, admin)
	assert.Equal(t, 1, replies)
}

func TestSubmitSpamNeverNotifies(t *testing.T) {
	f := newFixture(t)
	for _, body := range []string{
		"Buy viagra now!!!",
		"Visit https://cheap.example.com for a deal on everything",
		"Heeeeeeeello, is anyone reading these messages at all?",
	} {
		m, err := f.contact.Submit(ctx, submission(body))
		require.NoError(t, err)
		assert.True(t, m.IsSpam, body)
	}
	f.contact.Wait()
	admin, replies := f.spy.calls()
	assert.Zero(t, admin)
	assert.Zero(t, replies)
}

func TestSubmitMailFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.spy.fail = errors.New("smtp down")
	m, err := f.contact.Submit(ctx, submission(hamMessage))
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)

	f.contact.Wait()
	admin, replies := f.spy.calls()
	assert.Equal(t, 1, admin)
	assert.Equal(t, 1, replies)
}

func TestSubmitStripsMarkup(t *testing.T) {
	f := newFixture(t)
	in := submission("Hello <script>alert(1)</script>there, R&D team, we need an app")
	in.Name = "<b>Huda</b> & Co"
	m, err := f.contact.Submit(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Huda & Co", m.Name)
	assert.NotContains(t, m.Message, "<script>")
	assert.Contains(t, m.Message, "R&D team")
}

func TestContactPagination(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 25; i++ {
		_, err := f.contact.Submit(ctx, submission(fmt.Sprintf("%s (number %d)", hamMessage, i)))
		require.NoError(t, err)
	}
	page, err := f.contact.List(ctx, domain.ContactFilter{PageQuery: domain.PageQuery{Page: 2, Limit: 10}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.EqualValues(t, 25, page.Total)
	assert.Equal(t, 3, page.Pages())
	assert.Equal(t, 2, page.Page)
}

func TestContactListExcludesSpamByDefault(t *testing.T) {
	f := newFixture(t)
	_, err := f.contact.Submit(ctx, submission(hamMessage))
	require.NoError(t, err)
	_, err = f.contact.Submit(ctx, submission("win the lottery today, friend"))
	require.NoError(t, err)

	page, err := f.contact.List(ctx, domain.ContactFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = f.contact.List(ctx, domain.ContactFilter{Spam: boolp(true)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.True(t, page.Items[0].IsSpam)
}

func TestContactReadOnce(t *testing.T) {
	f := newFixture(t)
	m, err := f.contact.Submit(ctx, submission(hamMessage))
	require.NoError(t, err)

	admin := "11111111-1111-1111-1111-111111111111"
	first, err := f.contact.Get(ctx, m.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusRead, first.Status)
	require.NotNil(t, first.ReadAt)
	assert.Equal(t, admin, first.AssignedTo)
	stamped := *first.ReadAt

	f.clock.Advance(time.Hour)
	second, err := f.contact.Get(ctx, m.ID, "22222222-2222-2222-2222-222222222222")
	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusRead, second.Status)
	require.NotNil(t, second.ReadAt)
	assert.True(t, stamped.Equal(*second.ReadAt))
	assert.Equal(t, admin, second.AssignedTo)

	_, err = f.contact.Get(ctx, "missing", admin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContactMarkSpamArchives(t *testing.T) {
	f := newFixture(t)
	m, err := f.contact.Submit(ctx, submission(hamMessage))
	require.NoError(t, err)

	got, err := f.contact.MarkSpam(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSpam)
	assert.Equal(t, domain.ContactStatusArchived, got.Status)

	_, err = f.contact.MarkSpam(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContactStatusStampsAndNotes(t *testing.T) {
	f := newFixture(t)
	admin, _, err := f.auth.Register(ctx, RegisterInput{Name: "Root", Email: "root@example.com", Password: "admin1234"})
	require.NoError(t, err)
	m, err := f.contact.Submit(ctx, submission(hamMessage))
	require.NoError(t, err)

	got, err := f.contact.UpdateStatus(ctx, m.ID, strp(domain.ContactStatusReplied), strp("high"))
	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusReplied, got.Status)
	assert.Equal(t, "high", got.Priority)
	require.NotNil(t, got.RepliedAt)

	got, err = f.contact.UpdateStatus(ctx, m.ID, nil, strp("urgent"))
	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusReplied, got.Status)
	assert.Equal(t, "urgent", got.Priority)

	_, err = f.contact.AddNote(ctx, m.ID, admin.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err = f.contact.AddNote(ctx, m.ID, admin.ID, "Called back, sent a quote")
	require.NoError(t, err)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, admin.ID, got.Notes[0].AddedBy)

	refs, err := f.contact.UserRefs(ctx, *got)
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", refs[admin.ID].Email)

	require.NoError(t, f.contact.Delete(ctx, m.ID))
	assert.ErrorIs(t, f.contact.Delete(ctx, m.ID), domain.ErrNotFound)
}

func TestContactStats(t *testing.T) {
	f := newFixture(t)
	_, err := f.contact.Submit(ctx, submission(hamMessage))
	require.NoError(t, err)
	_, err = f.contact.Submit(ctx, submission("casino bonus for all of you"))
	require.NoError(t, err)

	s, err := f.contact.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, s.Total)
	assert.EqualValues(t, 1, s.New)
	assert.EqualValues(t, 1, s.Spam)
	assert.Equal(t, int64(1), s.Categories["general"])
}
