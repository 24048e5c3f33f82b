package middlewares

const (
	CtxRequestID = "request_id"

	ctxAccountIDKey = "auth.accountID"
	ctxEmailKey     = "auth.email"
	ctxRoleKey      = "auth.role"
)
