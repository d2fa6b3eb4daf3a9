// Package igerrors defines the error taxonomy shared by the session,
// interaction, messaging and analysis components. All of these are fatal
// for the operation that raised them; callers decide whether to retry.
package igerrors

import "fmt"

// ConfigurationError reports missing or placeholder credentials. Not
// retryable: the process is misconfigured.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("instagram %s not configured: set it in your .env or config file", e.Field)
}

// AuthenticationError reports that Instagram rejected the credentials.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("login failed, still on login page: %s", e.Message)
}

// VerificationRequiredError reports that Instagram redirected to a
// challenge page. Manual intervention is required; the session does not
// retry automatically.
type VerificationRequiredError struct {
	URL string
}

func (e *VerificationRequiredError) Error() string {
	return fmt.Sprintf("instagram requires additional verification (challenge page %s): complete it manually first", e.URL)
}

// PrivateProfileError reports that the target profile cannot be analyzed.
type PrivateProfileError struct {
	Handle string
}

func (e *PrivateProfileError) Error() string {
	return fmt.Sprintf("profile @%s is private and cannot be analyzed", e.Handle)
}

// ElementNotFoundError reports that an expected UI control is missing,
// which signals either markup drift or a page-state mismatch.
type ElementNotFoundError struct {
	Role string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Role)
}

// AnalysisError wraps any unexpected failure during the analysis pipeline.
type AnalysisError struct {
	Handle string
	Err    error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("instagram analysis for @%s failed: %v", e.Handle, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
