package esign

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSimulatorSendSucceeds(t *testing.T) {
	t.Parallel()

	sim := NewSimulator("")
	sim.Latency = 0

	res, err := sim.SendEnvelope(context.Background(), Package{Forms: []string{"ACH-AUTH"}}, "RMA4821")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotEmpty(t, res.EnvelopeID)
}

func TestSimulatorInjectedFailure(t *testing.T) {
	t.Parallel()

	sim := NewSimulator("timeout")
	sim.Latency = 0

	res, err := sim.SendMultiAccount(context.Background(), MultiPackage{})
	require.NoError(t, err, "application failure is not a transport error")
	require.False(t, res.Success)
	require.Equal(t, "timeout", res.Error)

	vres, err := sim.VoidEnvelope(context.Background(), "env-1", "sent in error")
	require.NoError(t, err)
	require.False(t, vres.Success)
}

func TestSimulatorHonorsContext(t *testing.T) {
	t.Parallel()

	sim := NewSimulator("")
	sim.Latency = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sim.SendEnvelope(ctx, Package{}, "RMA4821")
	require.Error(t, err)
}
