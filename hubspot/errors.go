package hubspot

import (
	apperrors "github.com/kbukum/hubspotkit/errors"
)

// ServiceName is the service named in ServiceUnhealthy errors.
const ServiceName = "HubSpot"

// NewClientError returns a CLIENT_ERROR carrying the offending status.
func NewClientError(msg string, status int) *apperrors.AppError {
	return apperrors.Client(msg, status)
}

// NewServiceUnhealthyError returns the error surfaced when health polling
// runs out of budget. Its status is always 500.
func NewServiceUnhealthyError(cause error) *apperrors.AppError {
	err := apperrors.ServiceUnhealthy(ServiceName)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}

// IsClientError reports whether err is a ClientError. ServiceUnhealthy
// errors are a kind of ClientError and match as well.
func IsClientError(err error) bool {
	return apperrors.HasCode(err, apperrors.ErrCodeClient, apperrors.ErrCodeServiceUnhealthy)
}

// IsServiceUnhealthy reports whether err signals an exhausted health poll.
func IsServiceUnhealthy(err error) bool {
	return apperrors.HasCode(err, apperrors.ErrCodeServiceUnhealthy)
}
