package cli

import (
	"errors"
	"strings"

	"github.com/mckinley/go-api-rest-client/apierror"
	"github.com/spf13/pflag"
)

const (
	exitOK       = 0
	exitGeneric  = 1
	exitUsage    = 2
	exitNotFound = 4
	exitServer   = 7
	exitNetwork  = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}

	switch apierror.KindOf(err) {
	case apierror.KindNotFound404:
		return exitNotFound
	case apierror.KindInternalServerError500:
		return exitServer
	case apierror.KindTransport:
		return exitNetwork
	case apierror.KindInvalidEndpoint, apierror.KindValidationErrors422, apierror.KindRequestEncoding:
		return exitUsage
	}

	if isUsageError(err) {
		return exitUsage
	}
	return exitGeneric
}

func isUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"unknown command",
		"unknown flag",
		"flag needs an argument",
		"invalid argument",
		"must be",
		"required flag",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
