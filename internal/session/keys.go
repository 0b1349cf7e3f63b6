package session

// CurrentUserKey holds the active session marker
const CurrentUserKey = "app_user"

// Per-user key prefixes, one record per logical entity
const (
	credentialPrefix = "user_"
	profilePrefix    = "app_profile_"
	expensesPrefix   = "app_expenses_"
	savingsPrefix    = "app_savings_"
)

func credentialKey(username string) string { return credentialPrefix + username }
func profileKey(username string) string    { return profilePrefix + username }
func expensesKey(username string) string   { return expensesPrefix + username }
func savingsKey(username string) string    { return savingsPrefix + username }
