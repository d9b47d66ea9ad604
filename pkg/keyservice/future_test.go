package keyservice_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/keysvc/pkg/keyservice"
)

func TestAsyncCallbackFiresExactlyOnce(t *testing.T) {
	t.Parallel()

	fake := keyservice.NewFakeKeyService()
	fake.Seed("key-0001", "s3cr3t", "long", "bWF0ZXJpYWw=")
	client := newTestClient(t, fake)

	var calls atomic.Int32
	done := make(chan struct{})

	client.GetKeyAsync(context.Background(), "s3cr3t", "key-0001", func(model *keyservice.KeyModel, err error) {
		calls.Add(1)
		require.NoError(t, err)
		assert.Equal(t, "key-0001", model.KeyID)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("completion callback never fired")
	}

	// Give a misbehaving implementation a moment to fire again.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAsyncReturnsWhileRequestInFlight(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	fake := keyservice.NewFakeKeyService()
	fake.Seed("key-0001", "s3cr3t", "long", "bWF0ZXJpYWw=")
	client := newTestClientWithGate(t, fake, release)

	done := make(chan struct{})
	returned := make(chan struct{})
	go func() {
		client.GetKeyAsync(context.Background(), "s3cr3t", "key-0001",
			func(model *keyservice.KeyModel, err error) {
				close(done)
			})
		close(returned)
	}()

	// The initiating call must come back while the server still holds
	// the response.
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("GetKeyAsync blocked its caller for the duration of the round trip")
	}
	select {
	case <-done:
		t.Fatal("completion fired before the server answered")
	default:
	}

	close(release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("completion never fired after the server answered")
	}
}

func TestFutureConstructionDoesNotBlock(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	fake := keyservice.NewFakeKeyService()
	fake.Seed("key-0001", "s3cr3t", "long", "bWF0ZXJpYWw=")
	client := newTestClientWithGate(t, fake, release)

	constructed := make(chan *keyservice.Future, 1)
	go func() {
		constructed <- client.GetKeyFuture(context.Background(), "s3cr3t", "key-0001")
	}()

	var future *keyservice.Future
	select {
	case future = <-constructed:
	case <-time.After(2 * time.Second):
		t.Fatal("GetKeyFuture blocked its caller for the duration of the round trip")
	}
	select {
	case <-future.Done():
		t.Fatal("future settled before the server answered")
	default:
	}

	close(release)
	model, err := future.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "key-0001", model.KeyID)
}

func TestFutureResolvesWithModel(t *testing.T) {
	t.Parallel()

	fake := keyservice.NewFakeKeyService()
	client := newTestClient(t, fake)
	ctx := context.Background()

	future := client.CreateKeyFuture(ctx, "s3cr3t")

	model, err := future.Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, model)
	assert.NotEmpty(t, model.KeyID)
	assert.NotEmpty(t, model.LongSecret)

	// A settled future keeps answering the same outcome.
	again, err := future.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, model, again)

	select {
	case <-future.Done():
	default:
		t.Fatal("Done must be closed after the future settled")
	}
}

func TestFutureResolvesWithError(t *testing.T) {
	t.Parallel()

	fake := keyservice.NewFakeKeyService()
	client := newTestClient(t, fake)
	ctx := context.Background()

	// Unknown key id: the future must reject with the classified error.
	future := client.GetKeyFuture(ctx, "s3cr3t", "no-such-key")

	model, err := future.Wait(ctx)
	require.Error(t, err)
	assert.Nil(t, model)
	assert.True(t, keyservice.IsNotFound(err), "got %v", err)
}

func TestFutureLongSecretForm(t *testing.T) {
	t.Parallel()

	fake := keyservice.NewFakeKeyService()
	fake.Seed("key-0001", "s3cr3t", "long-s3cr3t", "bWF0ZXJpYWw=")
	client := newTestClient(t, fake)
	ctx := context.Background()

	model, err := client.GetKeyViaLongSecretFuture(ctx, "long-s3cr3t", "key-0001").Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "key-0001", model.KeyID)
}

func TestFutureWaitHonorsContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	fake := keyservice.NewFakeKeyService()
	client := newTestClientWithGate(t, fake, release)
	defer close(release)

	future := client.GetKeyFuture(context.Background(), "s3cr3t", "key-0001")

	waitCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	model, err := future.Wait(waitCtx)
	require.Error(t, err)
	assert.Nil(t, model)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
