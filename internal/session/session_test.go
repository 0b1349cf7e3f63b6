package session

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"expense_tracker/internal/domain"
	"expense_tracker/internal/store"
	"expense_tracker/internal/utils"

	"github.com/sirupsen/logrus"
)

// plainStore hides the Updater capability of the wrapped store
type plainStore struct{ store.Store }

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newSession(st store.Store, opts ...Option) *Session {
	return New(st, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func amount(v float64) *float64 { return &v }

func TestExpenseScenario(t *testing.T) {
	ctx := context.Background()
	s := newSession(store.NewMemory(0))

	if err := s.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := s.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Login(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	e, err := s.AddExpense(ctx, domain.NewExpense{Amount: amount(50000), Category: domain.Food})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	ledger := s.Expenses()
	if len(ledger) != 1 || ledger[0].Amount != 50000 || ledger[0].Category != domain.Food || ledger[0].ID == "" {
		t.Fatalf("unexpected ledger: %+v", ledger)
	}
	if ledger[0].ID != e.ID {
		t.Fatalf("returned id %q, stored %q", e.ID, ledger[0].ID)
	}

	if err := s.DeleteExpense(ctx, e.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if got := s.Expenses(); len(got) != 0 {
		t.Fatalf("ledger not empty: %+v", got)
	}
}

func TestSavingsScenario(t *testing.T) {
	for name, st := range map[string]store.Store{
		"updater": store.NewMemory(0),
		"plain":   plainStore{store.NewMemory(0)},
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newSession(st)
			if err := s.Register(ctx, "alice", "secret1"); err != nil {
				t.Fatal(err)
			}
			pin := "1234"
			if _, err := s.UpdateSavings(ctx, domain.SavingsUpdate{PIN: &pin}); err != nil {
				t.Fatal(err)
			}
			if _, err := s.UpdateSavings(ctx, domain.SavingsUpdate{Amount: amount(100000)}); err != nil {
				t.Fatal(err)
			}
			got, err := s.UpdateSavings(ctx, domain.SavingsUpdate{Goal: &domain.Goal{Name: "Laptop", Target: 5000000}})
			if err != nil {
				t.Fatal(err)
			}
			want := domain.Savings{Amount: 100000, Goal: &domain.Goal{Name: "Laptop", Target: 5000000}, PIN: "1234"}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("savings = %+v, want %+v", got, want)
			}
			if !reflect.DeepEqual(s.Savings(), want) {
				t.Fatalf("in-memory savings = %+v", s.Savings())
			}

			// Persisted record matches after a fresh load
			other := newSession(st)
			if ok, err := other.Restore(ctx); err != nil || !ok {
				t.Fatalf("Restore: ok=%v err=%v", ok, err)
			}
			if !reflect.DeepEqual(other.Savings(), want) {
				t.Fatalf("persisted savings = %+v", other.Savings())
			}
		})
	}
}

func TestLoginRequiresExactPassword(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory(0)
	s := newSession(st)
	if err := s.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatal(err)
	}
	_ = s.Logout(ctx)

	cases := []struct {
		user, pass string
		ok         bool
	}{
		{"alice", "secret1", true},
		{"alice", "Secret1", false},
		{"alice", "secret1 ", false},
		{"Alice", "secret1", false},
		{"bob", "secret1", false},
		{"alice", "", false},
	}
	for _, c := range cases {
		err := s.Login(ctx, c.user, c.pass)
		if c.ok && err != nil {
			t.Errorf("Login(%q, %q) = %v, want success", c.user, c.pass, err)
		}
		if !c.ok && !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q) = %v, want ErrInvalidCredentials", c.user, c.pass, err)
		}
		if !c.ok {
			if u, active := s.User(); active && u != "alice" {
				t.Errorf("failed login switched session to %q", u)
			}
		}
		_ = s.Logout(ctx)
	}

	// Passwords shaped like bcrypt hashes are matched exactly in plaintext mode
	hashLike := "$2a$10$" + strings.Repeat("x", 53)
	if err := s.Register(ctx, "dave", hashLike); err != nil {
		t.Fatal(err)
	}
	_ = s.Logout(ctx)
	if err := s.Login(ctx, "dave", hashLike); err != nil {
		t.Fatalf("Login with a hash-shaped password: %v", err)
	}
	_ = s.Logout(ctx)
	if err := s.Login(ctx, "dave", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login with a wrong password = %v", err)
	}

	// A credential written directly to the store also counts
	_ = st.Set(ctx, "user_carol", "pw123456")
	if err := s.Login(ctx, "carol", "pw123456"); err != nil {
		t.Fatalf("Login with stored credential: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory(0)
	s := newSession(st)
	if err := s.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Register(ctx, "alice", "other99"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate Register = %v, want ErrUsernameTaken", err)
	}
	if v, _, _ := st.Get(ctx, "user_alice"); v != "secret1" {
		t.Fatalf("credential overwritten: %q", v)
	}

	compat := newSession(st, WithReregistration(true))
	if err := compat.Register(ctx, "alice", "other99"); err != nil {
		t.Fatalf("Register with re-registration: %v", err)
	}
	if v, _, _ := st.Get(ctx, "user_alice"); v != "other99" {
		t.Fatalf("credential not overwritten: %q", v)
	}
}

func TestRegisterWithBcrypt(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory(0)
	s := newSession(st, WithPasswordHasher(utils.BcryptPasswords{Cost: 4}))
	if err := s.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatal(err)
	}
	stored, _, _ := st.Get(ctx, "user_alice")
	if stored == "secret1" || !strings.HasPrefix(stored, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", stored)
	}
	_ = s.Logout(ctx)
	if err := s.Login(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	_ = s.Logout(ctx)
	if err := s.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login with wrong password = %v", err)
	}
}

func TestPersistedLayout(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory(0)
	now := time.Date(2024, 5, 15, 8, 30, 0, 123e6, time.UTC)
	s := newSession(st, WithClock(fixedClock(now)))

	if err := s.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatal(err)
	}
	profile := domain.Profile{FullName: "Alice", BirthYear: 2001, MonthlyIncome: 8000000, EducationLevel: domain.University}
	if err := s.SaveProfile(ctx, profile); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddExpense(ctx, domain.NewExpense{Amount: amount(50000), Category: domain.Food, Description: "pho"}); err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"user_alice":         "secret1",
		"app_user":           `{"username":"alice"}`,
		"app_profile_alice":  `{"fullName":"Alice","birthYear":2001,"monthlyIncome":8000000,"educationLevel":"university"}`,
		"app_expenses_alice": `[{"id":"1715761800123","amount":50000,"category":"food","description":"pho","date":"2024-05-15T08:30:00.123Z"}]`,
	}
	for key, value := range want {
		got, ok, _ := st.Get(ctx, key)
		if !ok || got != value {
			t.Errorf("%s = %q, want %q", key, got, value)
		}
	}
	if _, ok, _ := st.Get(ctx, "app_savings_alice"); ok {
		t.Error("default savings should not be written on load")
	}
}

func TestExpenseIDsStayUnique(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 15, 8, 30, 0, 0, time.UTC)
	s := newSession(store.NewMemory(0), WithClock(fixedClock(now)))
	if err := s.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		e, err := s.AddExpense(ctx, domain.NewExpense{Amount: amount(1), Category: domain.Other})
		if err != nil {
			t.Fatal(err)
		}
		if seen[e.ID] {
			t.Fatalf("duplicate id %q", e.ID)
		}
		seen[e.ID] = true
	}
	// Deleting one of them leaves the others
	first := s.Expenses()[0].ID
	if err := s.DeleteExpense(ctx, first); err != nil {
		t.Fatal(err)
	}
	if len(s.Expenses()) != 4 {
		t.Fatalf("ledger has %d entries, want 4", len(s.Expenses()))
	}
}

func TestAddThenDeleteRestoresLedger(t *testing.T) {
	ctx := context.Background()
	s := newSession(store.NewMemory(0))
	_ = s.Register(ctx, "alice", "secret1")
	for _, v := range []float64{10, 20, 30} {
		if _, err := s.AddExpense(ctx, domain.NewExpense{Amount: amount(v), Category: domain.Study}); err != nil {
			t.Fatal(err)
		}
	}
	before := s.Expenses()
	e, err := s.AddExpense(ctx, domain.NewExpense{Amount: amount(-5), Category: domain.Transport})
	if err != nil {
		t.Fatalf("negative amounts are accepted by the data layer: %v", err)
	}
	if err := s.DeleteExpense(ctx, e.ID); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Expenses(), before) {
		t.Fatalf("ledger = %+v, want %+v", s.Expenses(), before)
	}
	if err := s.DeleteExpense(ctx, "no-such-id"); err != nil {
		t.Fatalf("deleting an unknown id: %v", err)
	}
	if !reflect.DeepEqual(s.Expenses(), before) {
		t.Fatal("deleting an unknown id changed the ledger")
	}
}

func TestAddExpenseRequiresAmount(t *testing.T) {
	ctx := context.Background()
	s := newSession(store.NewMemory(0))
	_ = s.Register(ctx, "alice", "secret1")
	if _, err := s.AddExpense(ctx, domain.NewExpense{Category: domain.Food}); !errors.Is(err, ErrAmountRequired) {
		t.Fatalf("got %v, want ErrAmountRequired", err)
	}
	if _, err := s.AddExpense(ctx, domain.NewExpense{Amount: amount(0), Category: domain.Food}); err != nil {
		t.Fatalf("zero amount should be accepted: %v", err)
	}
}

func TestOperationsWithoutSession(t *testing.T) {
	ctx := context.Background()
	s := newSession(store.NewMemory(0))
	if err := s.SaveProfile(ctx, domain.Profile{}); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("SaveProfile = %v", err)
	}
	if _, err := s.AddExpense(ctx, domain.NewExpense{Amount: amount(1)}); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("AddExpense = %v", err)
	}
	if err := s.DeleteExpense(ctx, "1"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("DeleteExpense = %v", err)
	}
	if _, err := s.UpdateSavings(ctx, domain.SavingsUpdate{}); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("UpdateSavings = %v", err)
	}
	if err := s.Logout(ctx); err != nil {
		t.Errorf("Logout without session = %v", err)
	}
}

func TestSaveProfileOverwrites(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory(0)
	s := newSession(st)
	_ = s.Register(ctx, "alice", "secret1")
	if s.Profile() != nil {
		t.Fatal("new user should have no profile")
	}
	first := domain.Profile{FullName: "Alice A", BirthYear: 2000, MonthlyIncome: 1000, EducationLevel: domain.UpperSecondary}
	second := domain.Profile{FullName: "Alice B", BirthYear: 2001, EducationLevel: domain.University}
	_ = s.SaveProfile(ctx, first)
	if err := s.SaveProfile(ctx, second); err != nil {
		t.Fatal(err)
	}
	if got := s.Profile(); got == nil || *got != second {
		t.Fatalf("profile = %+v, want %+v", got, second)
	}
	reloaded := newSession(st)
	_, _ = reloaded.Restore(ctx)
	if got := reloaded.Profile(); got == nil || *got != second {
		t.Fatalf("persisted profile = %+v", got)
	}
}

func TestSwitchingUsersIsolatesData(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory(0)
	s := newSession(st)

	_ = s.Register(ctx, "alice", "secret1")
	_ = s.SaveProfile(ctx, domain.Profile{FullName: "Alice", MonthlyIncome: 100})
	_, _ = s.AddExpense(ctx, domain.NewExpense{Amount: amount(42), Category: domain.Food})
	_, _ = s.UpdateSavings(ctx, domain.SavingsUpdate{Amount: amount(7)})
	if err := s.Logout(ctx); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if snap.Active() || snap.Profile != nil || len(snap.Expenses) != 0 || snap.Savings.Amount != 0 {
		t.Fatalf("state not cleared on logout: %+v", snap)
	}

	_ = s.Register(ctx, "bob", "hunter22")
	snap = s.Snapshot()
	if snap.Username != "bob" || snap.Profile != nil || len(snap.Expenses) != 0 || snap.Savings.Amount != 0 {
		t.Fatalf("bob sees foreign data: %+v", snap)
	}

	_ = s.Logout(ctx)
	_ = s.Login(ctx, "alice", "secret1")
	snap = s.Snapshot()
	if snap.Profile == nil || snap.Profile.FullName != "Alice" || len(snap.Expenses) != 1 || snap.Savings.Amount != 7 {
		t.Fatalf("alice's data not reloaded: %+v", snap)
	}
	if snap.Remaining() != 58 {
		t.Fatalf("Remaining = %v, want 58", snap.Remaining())
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory(0)

	fresh := newSession(st)
	if ok, err := fresh.Restore(ctx); ok || err != nil {
		t.Fatalf("Restore on empty store: ok=%v err=%v", ok, err)
	}

	s := newSession(st)
	_ = s.Register(ctx, "alice", "secret1")
	_, _ = s.AddExpense(ctx, domain.NewExpense{Amount: amount(3), Category: domain.Food})

	resumed := newSession(st)
	if ok, err := resumed.Restore(ctx); !ok || err != nil {
		t.Fatalf("Restore: ok=%v err=%v", ok, err)
	}
	if u, _ := resumed.User(); u != "alice" || len(resumed.Expenses()) != 1 {
		t.Fatalf("resumed %q with %d expenses", u, len(resumed.Expenses()))
	}

	_ = s.Logout(ctx)
	again := newSession(st)
	if ok, _ := again.Restore(ctx); ok {
		t.Fatal("session restored after logout")
	}
	if _, ok, _ := st.Get(ctx, "app_expenses_alice"); !ok {
		t.Fatal("logout removed user records")
	}
}

func TestStorageUnavailableKeepsStateConsistent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory(400)
	s := newSession(st)
	if err := s.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatal(err)
	}

	var err error
	for i := 0; i < 50 && err == nil; i++ {
		_, err = s.AddExpense(ctx, domain.NewExpense{Amount: amount(1), Category: domain.Food, Description: "coffee"})
	}
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable once the quota is exhausted, got %v", err)
	}

	var persisted []domain.Expense
	if _, err := utils.GetRecord(ctx, st, "app_expenses_alice", &persisted); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(persisted, s.Expenses()) {
		t.Fatalf("memory (%d) and store (%d) diverged", len(s.Expenses()), len(persisted))
	}
}

func TestUserViewRejectsReplacedSession(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory(0)
	s := newSession(st)
	_ = s.Register(ctx, "bob", "secret1")
	_, _ = s.AddExpense(ctx, domain.NewExpense{Amount: amount(11), Category: domain.Food})
	_ = s.Register(ctx, "alice", "secret1")

	alice := s.As("alice")
	if snap, err := alice.Snapshot(); err != nil || snap.Username != "alice" {
		t.Fatalf("alice.Snapshot() = %+v, %v", snap, err)
	}

	// Bob logs in between authentication and alice's request
	if err := s.Login(ctx, "bob", "secret1"); err != nil {
		t.Fatal(err)
	}
	if snap, err := alice.Snapshot(); !errors.Is(err, ErrNoActiveSession) || snap.Active() {
		t.Errorf("Snapshot = %+v, %v", snap, err)
	}
	if err := alice.SaveProfile(ctx, domain.Profile{FullName: "Mallory"}); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("SaveProfile = %v", err)
	}
	if _, err := alice.AddExpense(ctx, domain.NewExpense{Amount: amount(1), Category: domain.Food}); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("AddExpense = %v", err)
	}
	if err := alice.DeleteExpense(ctx, s.Expenses()[0].ID); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("DeleteExpense = %v", err)
	}
	if _, err := alice.UpdateSavings(ctx, domain.SavingsUpdate{Amount: amount(5)}); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("UpdateSavings = %v", err)
	}
	if err := alice.Logout(ctx); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Logout = %v", err)
	}

	snap := s.Snapshot()
	if snap.Username != "bob" || snap.Profile != nil || len(snap.Expenses) != 1 || snap.Savings.Amount != 0 {
		t.Fatalf("bob's state changed: %+v", snap)
	}
	if _, ok, _ := st.Get(ctx, "app_profile_bob"); ok {
		t.Fatal("profile written for bob")
	}

	bob := s.As("bob")
	if err := bob.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := bob.Snapshot(); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("Snapshot after logout = %v", err)
	}
}

// markerFailure fails every write of the session marker
type markerFailure struct{ store.Store }

func (m markerFailure) Set(ctx context.Context, key, value string) error {
	if key == CurrentUserKey {
		return store.ErrUnavailable
	}
	return m.Store.Set(ctx, key, value)
}

func TestRegisterRollsBackCredential(t *testing.T) {
	ctx := context.Background()

	// The credential fits in the quota, the session marker does not
	st := store.NewMemory(len("user_carol") + len("secret1") + 3)
	s := newSession(st)
	for i := 0; i < 2; i++ {
		if err := s.Register(ctx, "carol", "secret1"); !errors.Is(err, store.ErrUnavailable) {
			t.Fatalf("attempt %d: Register = %v, want ErrUnavailable", i, err)
		}
		if _, ok, _ := st.Get(ctx, "user_carol"); ok || st.Keys() != 0 {
			t.Fatalf("attempt %d: credential left behind (%d keys)", i, st.Keys())
		}
		if _, active := s.User(); active {
			t.Fatalf("attempt %d: session started", i)
		}
	}

	// Re-registration puts the previous password back
	mem := store.NewMemory(0)
	_ = mem.Set(ctx, "user_carol", "oldpass1")
	compat := newSession(markerFailure{mem}, WithReregistration(true))
	if err := compat.Register(ctx, "carol", "newpass1"); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("Register = %v, want ErrUnavailable", err)
	}
	if v, _, _ := mem.Get(ctx, "user_carol"); v != "oldpass1" {
		t.Fatalf("credential = %q, want the previous one", v)
	}
}
