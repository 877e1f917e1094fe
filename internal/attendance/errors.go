package attendance

// RedeemCode identifies a redemption failure mode.
type RedeemCode string

const (
	CodeMalformedToken  RedeemCode = "MalformedToken"
	CodeSessionNotFound RedeemCode = "SessionNotFound"
	CodeSessionEnded    RedeemCode = "SessionEnded"
	CodeSessionExpired  RedeemCode = "SessionExpired"
	CodeClassMismatch   RedeemCode = "ClassMismatch"
)

// RedeemError carries a stable code plus a reason short enough to show the
// student directly. Redemptions are never retried automatically.
type RedeemError struct {
	Code   RedeemCode
	Reason string
}

func (e *RedeemError) Error() string { return e.Reason }

var (
	errMalformedToken  = &RedeemError{CodeMalformedToken, "invalid attendance code"}
	errSessionNotFound = &RedeemError{CodeSessionNotFound, "session not found"}
	errSessionEnded    = &RedeemError{CodeSessionEnded, "this session has already ended"}
	errSessionExpired  = &RedeemError{CodeSessionExpired, "this session has expired"}
	errClassMismatch   = &RedeemError{CodeClassMismatch, "you are not enrolled in this class"}
)
