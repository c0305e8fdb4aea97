package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCmd_Use(t *testing.T) {
	assert.Equal(t, "status", statusCmd.Use)
}

func TestProviderStatus_NotConfigured(t *testing.T) {
	status := providerStatus(false, func() error {
		t.Fatal("ping should not run for unconfigured providers")
		return nil
	})

	assert.Equal(t, "not configured", status)
}

func TestProviderStatus_Reachable(t *testing.T) {
	status := providerStatus(true, func() error { return nil })

	assert.Equal(t, "reachable", status)
}

func TestProviderStatus_Unreachable(t *testing.T) {
	status := providerStatus(true, func() error { return errMockFailure })

	assert.Contains(t, status, "unreachable")
	assert.Contains(t, status, "mock failure")
}
