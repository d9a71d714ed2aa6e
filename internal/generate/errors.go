package generate

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/grpc/codes"
)

var (
	ErrNoCredential  = errors.New("no API credential provided")
	ErrEmptyResponse = errors.New("empty response from generation service")
)

// CredentialError reports a missing or rejected API credential.
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential: %v", e.Err)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// ServiceError reports a failed generation call: rate limit, outage, bad response.
type ServiceError struct {
	Model string
	Err   error
}

func (e *ServiceError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("generation service (%s): %v", e.Model, e.Err)
	}
	return fmt.Sprintf("generation service: %v", e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// classify maps a provider error onto CredentialError or ServiceError.
func classify(model string, err error) error {
	if err == nil {
		return nil
	}
	var credErr *CredentialError
	var svcErr *ServiceError
	if errors.As(err, &credErr) || errors.As(err, &svcErr) {
		return err
	}
	if isAuthFailure(err) {
		return &CredentialError{Err: err}
	}
	return &ServiceError{Model: model, Err: err}
}

func isAuthFailure(err error) bool {
	if apiErr, ok := apierror.FromError(err); ok {
		switch apiErr.HTTPCode() {
		case http.StatusUnauthorized, http.StatusForbidden:
			return true
		}
		if status := apiErr.GRPCStatus(); status != nil {
			switch status.Code() {
			case codes.Unauthenticated, codes.PermissionDenied:
				return true
			}
		}
		if apiErr.Reason() == "API_KEY_INVALID" {
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "api key not valid")
}
