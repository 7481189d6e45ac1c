package credentials

// Storage keys. The names match the records written by earlier client
// versions so existing sessions keep working.
const (
	KeyAccessToken   = "authToken"
	KeyRefreshToken  = "refreshToken"
	KeyEmail         = "userEmail"
	KeyZipcode       = "userZipcode"
	KeyState         = "userState"
	KeyPreferences   = "userPreferences"
	KeyAuthenticated = "isAuthenticated"
)

var allKeys = []string{
	KeyAccessToken,
	KeyRefreshToken,
	KeyEmail,
	KeyZipcode,
	KeyState,
	KeyPreferences,
	KeyAuthenticated,
}
