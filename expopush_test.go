package expopush_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/expopush"
	"github.com/bft-labs/expopush/internal/pushtest"
	"github.com/bft-labs/expopush/pkg/push"
)

func TestFacade(t *testing.T) {
	gw := pushtest.NewGateway(t)

	c, err := expopush.New(expopush.WithBaseURL(gw.URL()), expopush.WithHTTPClient(gw.Client()))
	require.NoError(t, err)

	msg, err := expopush.NewMessage("ExponentPushToken[abc]").Title("hi").Build()
	require.NoError(t, err)

	tickets, err := c.Send(context.Background(), msg)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.True(t, tickets[0].OK())
}

func TestFacade_Errors(t *testing.T) {
	_, err := expopush.NewMessage("nope").Build()
	assert.True(t, errors.Is(err, expopush.ErrInvalidToken))
	assert.True(t, errors.Is(err, expopush.ErrInvalidArgument))
	assert.Equal(t, push.KindInvalidArgument, expopush.Classify(err))

	assert.True(t, expopush.IsValidToken("ExpoPushToken[abc]"))
	assert.False(t, expopush.IsValidToken("ExpoPushToken[abc"))
}
