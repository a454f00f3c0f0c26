package share

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
)

// IsContextClosedError reports whether err only means the caller went away.
func IsContextClosedError(err error) bool {
	err = errors.Cause(err)

	switch e := err.(type) {
	case *url.Error:
		err = e.Err
	}

	switch err {
	case context.Canceled:
	case context.DeadlineExceeded:
	default:
		return false
	}

	return true
}
