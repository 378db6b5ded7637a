package errors

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "plain error", err: errors.New("boom"), want: ExitIssues},
		{name: "attached", err: WithExitCode(ErrStdinRead, ExitDiscovery), want: ExitDiscovery},
		{name: "wrapped twice", err: fmt.Errorf("outer: %w", WithExitCode(ErrConfigParse, ExitConfigLoad)), want: ExitConfigLoad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestWithExitCode_PreservesSentinel(t *testing.T) {
	err := WithExitCode(errors.Wrap(ErrNotARepository, "/tmp/x"), ExitDiscovery)
	assert.True(t, errors.Is(err, ErrNotARepository))
	assert.Nil(t, WithExitCode(nil, ExitDiscovery))
}
