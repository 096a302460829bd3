package middleware

import "github.com/gin-gonic/gin"

const (
	// userIDKey holds the authenticated owner id.
	userIDKey = contextKey("userID")
	claimsKey = contextKey("claims")
)

// GetUserIDFromContext retrieves the authenticated owner id from the request context.
// It returns the id and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetClaimsFromContext returns the verified token claims, if any.
func GetClaimsFromContext(c *gin.Context) (*Claims, bool) {
	claims, ok := c.Request.Context().Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

// CanManageCommunity reports whether the caller's token grants administration of communityID.
func CanManageCommunity(c *gin.Context, communityID string) bool {
	claims, ok := GetClaimsFromContext(c)
	return ok && claims.CanManage(communityID)
}
