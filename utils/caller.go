package utils

import (
	"net/http"

	"aventra/globals"
	"aventra/models"
)

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

// CallerFromRequest returns the authenticated caller, or nil when the
// request carries no user.
func CallerFromRequest(r *http.Request) *models.Caller {
	userID := GetUserIDFromRequest(r)
	if userID == "" {
		return nil
	}
	username, _ := r.Context().Value(globals.UsernameKey).(string)
	return &models.Caller{UserID: userID, Username: username}
}
