package community

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func errAuthRequired() *Error {
	return &Error{Status: 401, Code: "AUTH_REQUIRED", Message: "sign in to continue"}
}

// errInvalidCredentials is deliberately identical for a wrong identifier and a
// wrong password.
func errInvalidCredentials() *Error {
	return &Error{Status: 401, Code: "INVALID_CREDENTIALS", Message: "invalid email/mobile or password"}
}

func errValidation(field, reason string) *Error {
	return &Error{
		Status:  422,
		Code:    "VALIDATION_ERROR",
		Message: "invalid " + field,
		Details: map[string]any{field: reason},
	}
}
