package runstatus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/runstatus"
)

func TestParse(t *testing.T) {
	s, err := runstatus.Parse("pending_approval")
	require.NoError(t, err)
	assert.True(t, s.Equal(runstatus.PendingApproval))

	_, err = runstatus.Parse("PENDING")
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	assert.True(t, runstatus.Decode("approved").Equal(runstatus.Approved))

	s := runstatus.Decode("sent")
	assert.Equal(t, "sent", s.String())

	_, err := runstatus.Parse("sent")
	assert.Error(t, err, "unlisted values stay invalid for writes")
}
