package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuditAction names a state-changing operation worth an audit line.
type AuditAction string

const (
	AuditActionRegister    AuditAction = "ACCOUNT_REGISTER"
	AuditActionLogin       AuditAction = "ACCOUNT_LOGIN"
	AuditActionOTPRequest  AuditAction = "WALLET_OTP_REQUEST"
	AuditActionOTPConfirm  AuditAction = "WALLET_OTP_CONFIRM"
	AuditActionWalletLogin AuditAction = "WALLET_LOGIN"
	AuditActionTransfer    AuditAction = "WALLET_TRANSFER"
)

// AuditLog writes one structured audit event per successful write request.
// Events go to the "audit" logger component so they can be shipped apart
// from request logs.
func AuditLog(log zerolog.Logger) gin.HandlerFunc {
	audit := log.With().Str("component", "audit").Logger()

	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		event := audit.Info().
			Str("action", string(action)).
			Str("resource_type", resourceType).
			Str("request_id", c.GetString(CtxRequestID)).
			Str("ip_address", c.ClientIP()).
			Int("status", status)
		if id, ok := UserID(c); ok {
			event = event.Str("user_id", id.String())
		}
		event.Msg("audit")
	}
}

func mapRouteToAction(route, method string) (AuditAction, string) {
	if method != http.MethodPost {
		return "", ""
	}
	switch route {
	case "/api/v1/auth/register":
		return AuditActionRegister, "user"
	case "/api/v1/auth/login":
		return AuditActionLogin, "user"
	case "/api/v1/wallet/otp/request":
		return AuditActionOTPRequest, "wallet_registration"
	case "/api/v1/wallet/otp/confirm":
		return AuditActionOTPConfirm, "wallet_registration"
	case "/api/v1/wallet/login":
		return AuditActionWalletLogin, "wallet_session"
	case "/api/v1/wallet/transfers":
		return AuditActionTransfer, "transfer"
	}
	return "", ""
}
