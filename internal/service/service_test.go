package service

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"studio-site-api/internal/core/auth"
	"studio-site-api/internal/domain"
	"studio-site-api/internal/repo"
	"studio-site-api/internal/testutil"
	"studio-site-api/pkg/utils"
)

var ctx = context.Background()

func TestMain(m *testing.M) {
	utils.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock { return &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	clock    *clock
	users    *repo.UserRepo
	auth     *AuthService
	team     *TeamService
	projects *ProjectService
	contact  *ContactService
	spy      *spyNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	c := newClock()
	users := repo.NewUserRepo(db)
	teamRepo := repo.NewTeamRepo(db)
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "studio-test", TTL: time.Hour, Now: c.Now}

	f := &fixture{
		clock:    c,
		users:    users,
		auth:     NewAuthService(users, j),
		team:     NewTeamService(teamRepo, nil),
		projects: NewProjectService(repo.NewProjectRepo(db), teamRepo, nil),
		spy:      &spyNotifier{},
	}
	f.contact = NewContactService(repo.NewContactRepo(db), users, f.spy, nil)
	f.auth.now = c.Now
	f.team.now = c.Now
	f.projects.now = c.Now
	f.contact.now = c.Now
	t.Cleanup(f.contact.Wait)
	return f
}

type spyNotifier struct {
	mu      sync.Mutex
	admin   []string
	replies []string
	fail    error
}

func (s *spyNotifier) NotifyAdmin(_ context.Context, m *domain.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin = append(s.admin, m.ID)
	return s.fail
}

func (s *spyNotifier) AutoReply(_ context.Context, m *domain.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, m.Email)
	return s.fail
}

func (s *spyNotifier) calls() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.admin), len(s.replies)
}

func boolp(b bool) *bool    { return &b }
func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }
