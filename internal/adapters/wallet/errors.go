package wallet

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/launchpad/internal/domain"
)

var (
	rejectedMarkers = []string{"user rejected", "user denied", "rejected by user", "request rejected"}
	fundsMarkers    = []string{"insufficient funds", "insufficient balance"}
	networkMarkers  = []string{"connection refused", "no such host", "i/o timeout", "eof", "connection reset", "502 bad gateway", "503 service unavailable"}
)

// classify maps a submission failure onto the typed workflow errors. Errors
// that match nothing are returned unchanged.
func classify(err error) error {
	if err == nil || domain.IsClassified(err) {
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, rejectedMarkers):
		return &domain.UserRejectedError{Cause: err}
	case containsAny(msg, fundsMarkers):
		return &domain.InsufficientFundsError{Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || containsAny(msg, networkMarkers) {
		return &domain.TransactionNetworkError{Cause: err}
	}
	return err
}

func containsAny(s string, markers []string) bool {
	return lo.SomeBy(markers, func(m string) bool { return strings.Contains(s, m) })
}
