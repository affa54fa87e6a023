package bq

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestClassify(t *testing.T) {
	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	cases := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{"nil", nil, false},
		{"dial", fmt.Errorf("run query: %w", dialErr), true},
		{"503", fmt.Errorf("run query: %w", &googleapi.Error{Code: 503, Message: "backend error"}), true},
		{"404", &googleapi.Error{Code: 404, Message: "not found"}, false},
		{"deadline", fmt.Errorf("wait: %w", context.DeadlineExceeded), false},
		{"plain", errors.New("syntax error"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(tc.err)
			assert.Equal(t, tc.unavailable, errors.Is(got, ErrUnavailable))
			if tc.err != nil {
				assert.Equal(t, tc.err.Error(), got.Error())
				assert.ErrorIs(t, got, tc.err)
			}
		})
	}
}
