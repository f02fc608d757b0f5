package youtube

import (
	"context"
	"errors"
	"net"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"ytbulkedit/domain/model"
)

// classify maps a client error onto the model error classes.
// Context cancellation passes through untouched so callers can stop.
func classify(op, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, model.ErrAuth) {
		return &model.APIError{Op: op, ID: id, Message: err.Error(), Kind: model.ErrAuth}
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &model.APIError{Op: op, ID: id, Message: retrieveErr.Error(), Kind: model.ErrAuth}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		apiErr := &model.APIError{Op: op, ID: id, Code: gerr.Code, Message: gerr.Message}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(gerr.Code)
		}
		apiErr.Kind = kindOf(gerr)
		return apiErr
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &model.APIError{Op: op, ID: id, Message: err.Error(), Kind: model.ErrTransient}
	}
	return &model.APIError{Op: op, ID: id, Message: err.Error()}
}

func kindOf(gerr *googleapi.Error) error {
	switch gerr.Code {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return model.ErrTransient
	case http.StatusUnauthorized:
		return model.ErrAuth
	case http.StatusNotFound:
		return model.ErrNotFound
	case http.StatusForbidden:
		switch reason(gerr) {
		case "quotaExceeded", "dailyLimitExceeded":
			return model.ErrQuotaExceeded
		case "rateLimitExceeded", "userRateLimitExceeded":
			return model.ErrTransient
		}
		return model.ErrPermissionDenied
	}
	return nil
}

func reason(gerr *googleapi.Error) string {
	for _, item := range gerr.Errors {
		if item.Reason != "" {
			return item.Reason
		}
	}
	return ""
}
