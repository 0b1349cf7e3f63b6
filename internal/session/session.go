// Package session is the data access layer: it owns the logged-in user's profile,
// expense ledger and savings record, and writes every change through to the store.
package session

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"expense_tracker/internal/domain"
	"expense_tracker/internal/store"
	"expense_tracker/internal/utils"

	"github.com/sirupsen/logrus"
)

// Session holds the state of the one active user of a running instance.
// It is safe for concurrent use; operations are serialised.
type Session struct {
	mu         sync.Mutex
	store      store.Store
	passwords  utils.PasswordHasher
	now        func() time.Time
	log        *logrus.Entry
	reregister bool

	username string // Empty when nobody is logged in
	profile  *domain.Profile
	expenses []domain.Expense
	savings  domain.Savings
}

// Option configures a Session
type Option func(*Session)

// WithClock replaces time.Now for id and date assignment
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithPasswordHasher selects how credentials are stored
func WithPasswordHasher(h utils.PasswordHasher) Option {
	return func(s *Session) { s.passwords = h }
}

// WithLogger sets the log entry operations are reported on
func WithLogger(l *logrus.Entry) Option {
	return func(s *Session) { s.log = l }
}

// WithReregistration lets Register silently overwrite an existing credential
func WithReregistration(allow bool) Option {
	return func(s *Session) { s.reregister = allow }
}

// New returns a logged-out session backed by st
func New(st store.Store, opts ...Option) *Session {
	s := &Session{
		store:     st,
		passwords: utils.PlainPasswords{},
		now:       time.Now,
		log:       logrus.WithField("component", "session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore resumes the session recorded by the last login, if any.
// It reports whether a session is active afterwards.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var marker domain.SessionMarker
	found, err := utils.GetRecord(ctx, s.store, CurrentUserKey, &marker)
	if err != nil {
		return false, fmt.Errorf("read session marker: %w", err)
	}
	if !found || marker.Username == "" {
		s.clear()
		return false, nil
	}
	r, err := s.read(ctx, marker.Username)
	if err != nil {
		return false, err
	}
	s.adopt(marker.Username, r)
	s.log.WithField("username", marker.Username).Info("Session restored")
	return true, nil
}

// Register stores a credential for username and logs in as that user.
// When the session cannot be started the credential is rolled back.
func (s *Session) Register(ctx context.Context, username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed, err := s.credential(ctx, username)
	if err != nil {
		return fmt.Errorf("check credential: %w", err)
	}
	if existed && !s.reregister {
		return ErrUsernameTaken
	}
	stored, err := s.passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	cred := domain.Credential{Username: username, Password: stored}
	if err := s.saveCredential(ctx, cred); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	if err := s.start(ctx, username); err != nil {
		s.rollbackCredential(ctx, username, prev, existed)
		return err
	}
	s.log.WithField("username", username).Info("User registered")
	return nil
}

// Login starts a session iff the stored password for username equals password
func (s *Session) Login(ctx context.Context, username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok, err := s.credential(ctx, username)
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	if !ok || !s.passwords.Matches(cred.Password, password) {
		s.log.WithField("username", username).Warn("Login rejected")
		return ErrInvalidCredentials
	}
	return s.start(ctx, username)
}

// Logout ends the active session; the user's records stay in the store
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logout(ctx)
}

// SaveProfile replaces the session user's profile
func (s *Session) SaveProfile(ctx context.Context, p domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveProfile(ctx, anyUser, p)
}

// AddExpense appends an expense with a fresh id and the current time, and persists the ledger
func (s *Session) AddExpense(ctx context.Context, in domain.NewExpense) (domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addExpense(ctx, anyUser, in)
}

// DeleteExpense removes the expense with the given id; an unknown id is not an error
func (s *Session) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteExpense(ctx, anyUser, id)
}

// UpdateSavings merges the given fields into the savings record and persists it.
// A given Amount replaces the total; callers add top-ups themselves.
func (s *Session) UpdateSavings(ctx context.Context, u domain.SavingsUpdate) (domain.Savings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateSavings(ctx, anyUser, u)
}

// owner names the user an operation may act on
type owner struct {
	username string
	any      bool // Any logged-in user
}

var anyUser = owner{any: true}

// require fails unless a user is logged in and, for a named owner, is that user
func (s *Session) require(o owner) error {
	if s.username == "" || (!o.any && o.username != s.username) {
		return ErrNoActiveSession
	}
	return nil
}

func (s *Session) logout(ctx context.Context) error {
	if err := utils.DeleteRecord(ctx, s.store, CurrentUserKey); err != nil {
		return fmt.Errorf("remove session marker: %w", err)
	}
	if s.username != "" {
		s.log.WithField("username", s.username).Info("Logged out")
	}
	s.clear()
	return nil
}

func (s *Session) saveProfile(ctx context.Context, o owner, p domain.Profile) error {
	if err := s.require(o); err != nil {
		return err
	}
	if err := utils.SetRecord(ctx, s.store, profileKey(s.username), p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	s.profile = &p
	return nil
}

func (s *Session) addExpense(ctx context.Context, o owner, in domain.NewExpense) (domain.Expense, error) {
	if err := s.require(o); err != nil {
		return domain.Expense{}, err
	}
	if in.Amount == nil {
		return domain.Expense{}, ErrAmountRequired
	}
	now := s.now()
	e := domain.Expense{
		ID:          s.nextID(now),
		Amount:      *in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        now.UTC().Format(domain.DateLayout),
	}
	updated := make([]domain.Expense, len(s.expenses), len(s.expenses)+1)
	copy(updated, s.expenses)
	updated = append(updated, e)
	if err := s.saveExpenses(ctx, updated); err != nil {
		return domain.Expense{}, err
	}
	s.log.WithFields(logrus.Fields{
		"username":   s.username,
		"expense_id": e.ID,
		"amount":     e.Amount,
		"category":   e.Category,
	}).Info("Expense added")
	return e, nil
}

func (s *Session) deleteExpense(ctx context.Context, o owner, id string) error {
	if err := s.require(o); err != nil {
		return err
	}
	updated := make([]domain.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		if e.ID != id {
			updated = append(updated, e)
		}
	}
	if err := s.saveExpenses(ctx, updated); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"username": s.username, "expense_id": id}).Info("Expense deleted")
	return nil
}

func (s *Session) updateSavings(ctx context.Context, o owner, u domain.SavingsUpdate) (domain.Savings, error) {
	if err := s.require(o); err != nil {
		return domain.Savings{}, err
	}
	key := savingsKey(s.username)

	var merged domain.Savings
	if up, ok := s.store.(store.Updater); ok {
		// Merge against the persisted record so concurrent writers do not lose fields
		err := up.Update(ctx, key, func(current string, found bool) (string, error) {
			base := domain.Savings{}
			if found {
				if err := utils.DecodeRecord(current, &base); err != nil {
					return "", err
				}
			}
			merged = base.Merge(u)
			return utils.EncodeRecord(merged)
		})
		if err != nil {
			return domain.Savings{}, fmt.Errorf("update savings: %w", err)
		}
	} else {
		merged = s.savings.Merge(u)
		if err := utils.SetRecord(ctx, s.store, key, merged); err != nil {
			return domain.Savings{}, fmt.Errorf("update savings: %w", err)
		}
	}
	s.savings = merged
	s.log.WithFields(logrus.Fields{"username": s.username, "amount": merged.Amount}).Info("Savings updated")
	return merged, nil
}

func (s *Session) credential(ctx context.Context, username string) (domain.Credential, bool, error) {
	stored, ok, err := s.store.Get(ctx, credentialKey(username))
	if err != nil || !ok {
		return domain.Credential{}, false, err
	}
	return domain.Credential{Username: username, Password: stored}, true, nil
}

// saveCredential writes the password as a bare string, not a JSON record
func (s *Session) saveCredential(ctx context.Context, c domain.Credential) error {
	return s.store.Set(ctx, credentialKey(c.Username), c.Password)
}

// rollbackCredential puts back what Register found before it wrote
func (s *Session) rollbackCredential(ctx context.Context, username string, prev domain.Credential, existed bool) {
	var err error
	if existed {
		err = s.saveCredential(ctx, prev)
	} else {
		err = s.store.Remove(ctx, credentialKey(username))
	}
	if err != nil {
		s.log.WithError(err).WithField("username", username).Error("Credential rollback failed")
	}
}

// records is one user's persisted data as loaded into a session
type records struct {
	profile  *domain.Profile
	expenses []domain.Expense
	savings  domain.Savings
}

// start reads the user's records, writes the session marker and only then switches the in-memory state
func (s *Session) start(ctx context.Context, username string) error {
	r, err := s.read(ctx, username)
	if err != nil {
		return err
	}
	marker := domain.SessionMarker{Username: username}
	if err := utils.SetRecord(ctx, s.store, CurrentUserKey, marker); err != nil {
		return fmt.Errorf("write session marker: %w", err)
	}
	s.adopt(username, r)
	s.log.WithField("username", username).Info("Session started")
	return nil
}

// read loads username's persisted records, defaulting absent ones
func (s *Session) read(ctx context.Context, username string) (records, error) {
	var r records
	var profile domain.Profile
	hasProfile, err := utils.GetRecord(ctx, s.store, profileKey(username), &profile)
	if err != nil {
		return r, fmt.Errorf("load profile: %w", err)
	}
	if hasProfile {
		r.profile = &profile
	}
	if _, err := utils.GetRecord(ctx, s.store, expensesKey(username), &r.expenses); err != nil {
		return r, fmt.Errorf("load expenses: %w", err)
	}
	if _, err := utils.GetRecord(ctx, s.store, savingsKey(username), &r.savings); err != nil {
		return r, fmt.Errorf("load savings: %w", err)
	}
	return r, nil
}

func (s *Session) adopt(username string, r records) {
	s.username = username
	s.profile = r.profile
	s.expenses = r.expenses
	s.savings = r.savings
}

func (s *Session) clear() {
	s.adopt("", records{})
}

// saveExpenses persists the full ledger and adopts it only once the write succeeded
func (s *Session) saveExpenses(ctx context.Context, updated []domain.Expense) error {
	if err := utils.SetRecord(ctx, s.store, expensesKey(s.username), updated); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	s.expenses = updated
	return nil
}

// nextID derives an id from the creation time in milliseconds, kept above the newest id in the ledger
func (s *Session) nextID(now time.Time) string {
	id := now.UnixMilli()
	if n := len(s.expenses); n > 0 {
		if last, err := strconv.ParseInt(s.expenses[n-1].ID, 10, 64); err == nil && id <= last {
			id = last + 1
		}
	}
	return strconv.FormatInt(id, 10)
}
