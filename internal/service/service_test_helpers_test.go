package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"academy/internal/mail"
	"academy/internal/model"
	"academy/internal/repository"
)

const testBaseURL = "https://academy.test"

func newServiceDBForTest(t *testing.T) repository.Manager {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return repository.NewManager(db)
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentMail struct {
	To, Subject, Body string
}

// recordingSender keeps every message instead of delivering it.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (s *recordingSender) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, Body: body})
	return s.err
}

func (s *recordingSender) Sent() []sentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMail(nil), s.sent...)
}

func newTokenServiceForTest(repos repository.Manager, validity time.Duration, clock *fakeClock) TokenService {
	svc := NewTokenService(repos.Tokens(), validity, nil, nil).(*tokenService)
	svc.now = clock.Now
	return svc
}

func createServiceUserForTest(t *testing.T, repos repository.Manager, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.User{Name: "Test User", Email: email, PasswordHash: string(hash), Provider: model.ProviderLocal}
	if err := repos.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// raceForTest calls fn from n goroutines released at the same moment and
// returns the indexes of the calls that reported true. sqlite reports table
// lock contention as an error, so those calls are retried until they get an
// answer.
func raceForTest(t *testing.T, n int, fn func(i int) (bool, error)) []int {
	t.Helper()
	var (
		start   = make(chan struct{})
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []int
		errs    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			var (
				ok  bool
				err error
			)
			for attempt := 0; attempt < 100; attempt++ {
				if ok, err = fn(i); err == nil {
					break
				}
				time.Sleep(time.Millisecond)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
			}
			if ok {
				winners = append(winners, i)
			}
		}(i)
	}
	close(start)
	wg.Wait()
	if len(errs) > 0 {
		t.Fatalf("concurrent calls kept failing: %v", errs)
	}
	return winners
}

// tokenFromLink pulls the token query parameter out of a rendered email.
func tokenFromLink(t *testing.T, body string) string {
	t.Helper()
	const marker = "?token="
	i := strings.Index(body, marker)
	if i < 0 {
		t.Fatalf("no token link in %q", body)
	}
	rest := body[i+len(marker):]
	if j := strings.IndexAny(rest, `"<`); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

var _ mail.Sender = (*recordingSender)(nil)
