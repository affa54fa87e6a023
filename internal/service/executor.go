// Package service runs a controlled operation for an authenticated
// principal. Both the REST endpoint and the MCP tool go through Executor.
package service

import (
	"context"
	"time"

	"github.com/vinodismyname/mcpbigquery/internal/logger"
	"github.com/vinodismyname/mcpbigquery/internal/models"
	"github.com/vinodismyname/mcpbigquery/pkg/validation"
)

// Authorizer decides whether principal may run operation on dataset.table.
type Authorizer interface {
	AssertAllowed(principal, operation, dataset, table string) error
}

// Runner executes validated, authorized arguments.
type Runner interface {
	Execute(ctx context.Context, args models.ExecuteArgs) (any, error)
}

// Executor validates, authorizes and runs operations.
type Executor struct {
	policy Authorizer
	runner Runner
}

// NewExecutor wires the policy and the BigQuery runner.
func NewExecutor(policy Authorizer, runner Runner) *Executor {
	return &Executor{policy: policy, runner: runner}
}

// Execute normalizes and validates args, checks the policy for principal and
// runs the operation. Validation failures wrap validation.ErrValidation.
func (e *Executor) Execute(ctx context.Context, principal string, args models.ExecuteArgs) (*models.ExecuteResponse, error) {
	log := logger.FromContext(ctx).With().
		Str("principal", principal).
		Str("operation", string(args.Operation)).
		Str("dataset", args.Dataset).
		Str("table", args.Table).
		Logger()

	args.Normalize()
	if err := validation.ValidateStruct(args); err != nil {
		log.Info().Err(err).Msg("execute rejected: invalid arguments")
		return nil, err
	}

	if err := e.policy.AssertAllowed(principal, string(args.Operation), args.Dataset, args.Table); err != nil {
		log.Warn().Err(err).Msg("execute denied by policy")
		return nil, err
	}

	start := time.Now()
	result, err := e.runner.Execute(ctx, args)
	if err != nil {
		log.Error().Err(err).Dur("duration", time.Since(start)).Msg("execute failed")
		return nil, err
	}
	log.Info().Dur("duration", time.Since(start)).Msg("execute completed")

	return &models.ExecuteResponse{Principal: principal, Result: result}, nil
}
