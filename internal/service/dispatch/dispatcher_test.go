package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papercast/papercast/internal/model/podcast"
)

type fakePipeline struct {
	requests []podcast.GenerationRequest
	err      error
}

func (f *fakePipeline) Generate(_ context.Context, req podcast.GenerationRequest) error {
	f.requests = append(f.requests, req)
	return f.err
}

type fakeMailer struct {
	calls []string
	err   error
}

func (f *fakeMailer) SendArtifact(_ context.Context, artifactPath, sender, recipient string) error {
	f.calls = append(f.calls, artifactPath+"|"+sender+"|"+recipient)
	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newDispatcher(hasSecret bool) (*Dispatcher, *fakePipeline, *fakeMailer) {
	pipe := &fakePipeline{}
	mail := &fakeMailer{}
	return New(pipe, mail, "demo_outputs", hasSecret, testLogger()), pipe, mail
}

func TestSingleFileMatchesOneElementList(t *testing.T) {
	d, pipe, _ := newDispatcher(false)

	single := podcast.NewJob("/uploads/doc.pdf", nil, "", "", nil)
	list := podcast.NewJob([]string{"/uploads/doc.pdf"}, nil, "", "", nil)

	_, err := d.Dispatch(context.Background(), single)
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), list)
	require.NoError(t, err)

	require.Len(t, pipe.requests, 2)
	assert.Equal(t, pipe.requests[0].TargetFiles, pipe.requests[1].TargetFiles)
}

func TestEmailGatingWithRecipientAndSecret(t *testing.T) {
	d, _, mail := newDispatcher(true)

	job := podcast.NewJob("/uploads/doc.pdf", nil, "demo@example.com", "alice@example.com", nil)
	res, err := d.Dispatch(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, "alice-output.mp3", res.ArtifactName)
	assert.Equal(t, filepath.Join("demo_outputs", "alice-output.mp3"), res.ArtifactPath)
	assert.True(t, res.Emailed)

	require.Len(t, mail.calls, 1)
	assert.Equal(t, res.ArtifactPath+"|demo@example.com|alice@example.com", mail.calls[0])
}

func TestNoEmailWithoutSecret(t *testing.T) {
	d, pipe, mail := newDispatcher(false)

	job := podcast.NewJob("/uploads/doc.pdf", nil, "demo@example.com", "alice@example.com", nil)
	res, err := d.Dispatch(context.Background(), job)
	require.NoError(t, err)

	assert.False(t, res.Emailed)
	assert.Empty(t, mail.calls)

	// Artifact gets a random name, and the pipeline still receives a
	// placeholder destination formed from it.
	name := strings.TrimSuffix(res.ArtifactName, "-output.mp3")
	assert.NotEqual(t, "alice", name)
	require.Len(t, pipe.requests, 1)
	assert.Equal(t, []string{name + "@"}, pipe.requests[0].Emails)
}

func TestNoEmailWithEmptyRecipient(t *testing.T) {
	d, _, mail := newDispatcher(true)

	job := podcast.NewJob("/uploads/doc.pdf", nil, "demo@example.com", "", nil)
	res, err := d.Dispatch(context.Background(), job)
	require.NoError(t, err)

	assert.False(t, res.Emailed)
	assert.Empty(t, mail.calls)
}

func TestMonologueAndVectorDBFlags(t *testing.T) {
	d, pipe, _ := newDispatcher(false)

	on := podcast.NewJob("/uploads/doc.pdf", nil, "", "", []string{podcast.MonologueOption})
	off := podcast.NewJob("/uploads/doc.pdf", nil, "", "", []string{"Something Else"})

	_, err := d.Dispatch(context.Background(), on)
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), off)
	require.NoError(t, err)

	require.Len(t, pipe.requests, 2)
	assert.True(t, pipe.requests[0].Monologue)
	assert.False(t, pipe.requests[1].Monologue)
	assert.False(t, pipe.requests[0].UseVectorDB)
	assert.False(t, pipe.requests[1].UseVectorDB)
}

func TestPipelineErrorPropagates(t *testing.T) {
	d, pipe, mail := newDispatcher(true)
	pipe.err = errors.New("connection refused")

	job := podcast.NewJob("/uploads/doc.pdf", nil, "demo@example.com", "alice@example.com", nil)
	_, err := d.Dispatch(context.Background(), job)
	require.Error(t, err)
	assert.Empty(t, mail.calls)
}
