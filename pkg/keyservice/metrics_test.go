package keyservice_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/keysvc/pkg/keyservice"
)

func TestClientMetrics(t *testing.T) {
	t.Parallel()

	fake := keyservice.NewFakeKeyService()
	fake.Seed("key-0001", "s3cr3t", "long", "bWF0ZXJpYWw=")

	srv := newTestServer(t, fake)
	reg := prometheus.NewRegistry()

	client, err := keyservice.New(
		keyservice.Config{RealmBaseURL: srv},
		keyservice.WithMetrics(reg),
	)
	require.NoError(t, err)
	ctx := context.Background()

	// One success, one classified failure.
	_, err = client.GetKey(ctx, "s3cr3t", "key-0001")
	require.NoError(t, err)
	_, err = client.GetKey(ctx, "wrong", "key-0001")
	require.Error(t, err)

	requests, err := testutil.GatherAndCount(reg, "keysvc_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, requests, "one operation label expected")

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]float64{}
	for _, fam := range families {
		var total float64
		for _, m := range fam.GetMetric() {
			if c := m.GetCounter(); c != nil {
				total += c.GetValue()
			}
		}
		byName[fam.GetName()] = total
	}

	assert.Equal(t, float64(2), byName["keysvc_requests_total"])
	assert.Equal(t, float64(1), byName["keysvc_request_failures_total"])
}

func TestClientWithoutMetricsRegistry(t *testing.T) {
	t.Parallel()

	fake := keyservice.NewFakeKeyService()
	srv := newTestServer(t, fake)

	client, err := keyservice.New(keyservice.Config{RealmBaseURL: srv})
	require.NoError(t, err)

	// No registry configured: operations must still work.
	_, err = client.CreateKey(context.Background(), "s3cr3t")
	assert.NoError(t, err)
}
