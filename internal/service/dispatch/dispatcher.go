package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/papercast/papercast/internal/model/podcast"
)

// PipelineClient abstracts the external PDF-to-podcast service so the
// dispatcher can be tested without the network.
type PipelineClient interface {
	Generate(ctx context.Context, req podcast.GenerationRequest) error
}

// ArtifactMailer abstracts email delivery of a finished artifact.
type ArtifactMailer interface {
	SendArtifact(ctx context.Context, artifactPath, sender, recipient string) error
}

// Dispatcher turns a generate action into a pipeline call and, when a
// recipient and the sender secret are both present, one email send.
type Dispatcher struct {
	pipeline  PipelineClient
	mailer    ArtifactMailer
	outputDir string
	hasSecret bool
	logger    *slog.Logger
}

// New builds a Dispatcher. hasSecret reports whether the sender-credential
// secret is present in the environment; without it no email is ever sent.
func New(pipeline PipelineClient, mailer ArtifactMailer, outputDir string, hasSecret bool, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		pipeline:  pipeline,
		mailer:    mailer,
		outputDir: outputDir,
		hasSecret: hasSecret,
		logger:    logger,
	}
}

// Dispatch runs one generation. Whether to email and what to name the
// artifact are decided independently: emailing requires both a recipient and
// the secret, and the artifact takes the recipient's local-part as its name
// when emailing or a fresh random identifier otherwise.
func (d *Dispatcher) Dispatch(ctx context.Context, job podcast.Job) (podcast.Result, error) {
	shouldEmail := job.Recipient != "" && d.hasSecret

	var name string
	var emails []string
	if shouldEmail {
		name = job.RecipientLocalPart()
		emails = []string{job.Recipient}
	} else {
		name = uuid.NewString()
		// The pipeline expects a destination entry even when no mail will be
		// sent; the placeholder keeps the wire contract and seeds nothing
		// but the filename on the pipeline side.
		emails = []string{name + "@"}
	}

	req := podcast.GenerationRequest{
		TargetFiles:  job.TargetPaths,
		ContextFiles: job.ContextPaths,
		Emails:       emails,
		Monologue:    job.MonologueOnly(),
		UseVectorDB:  false,
	}

	d.logger.Info("dispatching generation",
		"targets", len(req.TargetFiles),
		"contexts", len(req.ContextFiles),
		"monologue", req.Monologue,
		"email", shouldEmail,
	)

	if err := d.pipeline.Generate(ctx, req); err != nil {
		return podcast.Result{}, err
	}

	artifactName := name + "-output.mp3"
	artifactPath := filepath.Join(d.outputDir, artifactName)

	if shouldEmail {
		if err := d.mailer.SendArtifact(ctx, artifactPath, job.Sender, job.Recipient); err != nil {
			return podcast.Result{}, fmt.Errorf("artifact generated at %s but email failed: %w", artifactPath, err)
		}
	}

	return podcast.Result{
		ArtifactPath: artifactPath,
		ArtifactName: artifactName,
		Emailed:      shouldEmail,
	}, nil
}
