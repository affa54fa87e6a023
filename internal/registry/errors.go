package registry

import (
	"github.com/vinodismyname/mcpbigquery/internal/auth"
	"github.com/vinodismyname/mcpbigquery/internal/bq"
	"github.com/vinodismyname/mcpbigquery/internal/policy"
	"github.com/vinodismyname/mcpbigquery/internal/runtime"
	"github.com/vinodismyname/mcpbigquery/pkg/mcperr"
	"github.com/vinodismyname/mcpbigquery/pkg/validation"
)

// errorCodes maps service sentinels to canonical tool error codes.
var errorCodes = map[error]mcperr.Code{
	validation.ErrValidation:   mcperr.Validation,
	bq.ErrInvalidArgument:      mcperr.InvalidArgument,
	bq.ErrUnavailable:          mcperr.Unavailable,
	policy.ErrPermissionDenied: mcperr.PermissionDenied,
	auth.ErrUnauthenticated:    mcperr.Unauthenticated,
	runtime.ErrBusy:            mcperr.BusyResource,
}
