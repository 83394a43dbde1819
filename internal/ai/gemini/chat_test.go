package gemini

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/spigell/resume-ai/internal/ai"
)

func collect(seq func(func(string, error) bool)) ([]string, error) {
	var chunks []string
	var failure error
	seq(func(chunk string, err error) bool {
		if err != nil {
			failure = err
			return false
		}
		chunks = append(chunks, chunk)
		return true
	})
	return chunks, failure
}

func TestOpenChatSessionSetsSystemInstruction(t *testing.T) {
	chats := &fakeChats{}
	g := newTestGateway(nil, chats)

	session, err := g.OpenChatSession(context.Background(), "be brief")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID())

	require.Len(t, chats.calls, 1)
	call := chats.calls[0]
	assert.Equal(t, "gemini-3-pro-preview", call.model)
	require.NotNil(t, call.config.SystemInstruction)
	assert.Equal(t, "be brief", call.config.SystemInstruction.Parts[0].Text)
	assert.Nil(t, call.config.Temperature)
}

func TestOpenChatSessionDefaultInstruction(t *testing.T) {
	chats := &fakeChats{}
	g := newTestGateway(nil, chats)

	_, err := g.OpenChatSession(context.Background(), "  ")
	require.NoError(t, err)
	assert.Contains(t, chats.calls[0].config.SystemInstruction.Parts[0].Text, "ResumeAI Assistant")
}

func TestStreamChatTurn(t *testing.T) {
	chats := &fakeChats{turns: []turn{
		{chunks: []string{"Hello", ", ", "world"}},
		{chunks: []string{"Again"}},
	}}
	g := newTestGateway(nil, chats)

	session, err := g.OpenChatSession(context.Background(), "")
	require.NoError(t, err)

	chunks, err := collect(g.StreamChatTurn(context.Background(), session, "hi"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", ", ", "world"}, chunks)

	chunks, err = collect(g.StreamChatTurn(context.Background(), session, "more"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Again"}, chunks)

	require.Len(t, chats.calls, 1)
	assert.Equal(t, []string{"hi", "more"}, chats.calls[0].chat.messages)
}

func TestStreamChatTurnFailsMidStream(t *testing.T) {
	chats := &fakeChats{turns: []turn{
		{chunks: []string{"Partial"}, err: &net.OpError{Op: "read", Net: "tcp", Err: errBoom}},
	}}
	g := newTestGateway(nil, chats)
	session, err := g.OpenChatSession(context.Background(), "")
	require.NoError(t, err)

	chunks, err := collect(g.StreamChatTurn(context.Background(), session, "hi"))

	assert.Equal(t, []string{"Partial"}, chunks)
	assert.True(t, ai.IsKind(err, ai.KindNetworkFailure))
}

func TestStreamChatTurnEmpty(t *testing.T) {
	chats := &fakeChats{turns: []turn{{}}}
	g := newTestGateway(nil, chats)
	session, err := g.OpenChatSession(context.Background(), "")
	require.NoError(t, err)

	chunks, err := collect(g.StreamChatTurn(context.Background(), session, "hi"))

	assert.Empty(t, chunks)
	assert.True(t, ai.IsKind(err, ai.KindEmptyResponse))
}

func TestStreamChatTurnIsNotRestartable(t *testing.T) {
	chats := &fakeChats{turns: []turn{{chunks: []string{"once"}}, {chunks: []string{"twice"}}}}
	g := newTestGateway(nil, chats)
	session, err := g.OpenChatSession(context.Background(), "")
	require.NoError(t, err)

	seq := g.StreamChatTurn(context.Background(), session, "hi")

	chunks, err := collect(seq)
	require.NoError(t, err)
	assert.Equal(t, []string{"once"}, chunks)

	chunks, err = collect(seq)
	assert.Empty(t, chunks)
	assert.ErrorIs(t, err, ErrStreamConsumed)
	assert.Len(t, chats.calls[0].chat.messages, 1)
}

type foreignSession struct{}

func (foreignSession) ID() string { return "foreign" }

func TestStreamChatTurnUnknownSession(t *testing.T) {
	g := newTestGateway(nil, &fakeChats{})

	_, err := collect(g.StreamChatTurn(context.Background(), foreignSession{}, "hi"))

	assert.True(t, ai.IsKind(err, ai.KindUnknown))
}

func TestOpenChatSessionFailureIsClassified(t *testing.T) {
	g := newTestGateway(nil, &fakeChats{err: genai.APIError{Code: 403, Status: "PERMISSION_DENIED"}})

	_, err := g.OpenChatSession(context.Background(), "")

	assert.True(t, ai.IsKind(err, ai.KindAuthFailure))
}
