package driven

// AuthAdapter verifies admin bearer tokens for administrative operations
// (ingestion refresh, model pulls)
type AuthAdapter interface {
	// VerifyToken validates a signed admin token, returning the subject claim
	VerifyToken(token string) (string, error)
}
