package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID    ctxKey = "user_id" // username, the token subject
	CtxKeySessionID ctxKey = "session_id"
	CtxKeyRole      ctxKey = "role"
	CtxKeyScopes    ctxKey = "scopes"
	CtxKeyClaims    ctxKey = "claims"
)

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}
