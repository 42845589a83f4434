package podcast

import "strings"

// MonologueOption is the settings entry that switches generation to a
// single-speaker script.
const MonologueOption = "Monologue Only"

// GenerationRequest is the wire payload sent to the pipeline service.
type GenerationRequest struct {
	TargetFiles  []string `json:"target_files"`
	ContextFiles []string `json:"context_files"`
	Emails       []string `json:"emails"`
	Monologue    bool     `json:"monologue"`
	UseVectorDB  bool     `json:"use_vector_db"`
}

// Job captures one generate action as submitted by the page: the uploaded
// file paths, the optional email pair and the selected settings.
type Job struct {
	TargetPaths  []string
	ContextPaths []string
	Sender       string
	Recipient    string
	Settings     []string
}

// NewJob normalizes a single uploaded file into a one-element list so a lone
// upload and a list of one behave identically downstream.
func NewJob(target, context any, sender, recipient string, settings []string) Job {
	return Job{
		TargetPaths:  normalizePaths(target),
		ContextPaths: normalizePaths(context),
		Sender:       strings.TrimSpace(sender),
		Recipient:    strings.TrimSpace(recipient),
		Settings:     settings,
	}
}

// MonologueOnly reports whether the monologue setting was selected.
func (j Job) MonologueOnly() bool {
	for _, s := range j.Settings {
		if s == MonologueOption {
			return true
		}
	}
	return false
}

// RecipientLocalPart returns the text before the "@" of the recipient
// address, used to name the output artifact when emailing.
func (j Job) RecipientLocalPart() string {
	local, _, _ := strings.Cut(j.Recipient, "@")
	return local
}

func normalizePaths(v any) []string {
	switch paths := v.(type) {
	case nil:
		return nil
	case string:
		if paths == "" {
			return nil
		}
		return []string{paths}
	case []string:
		return paths
	case []any:
		// Decoded JSON arrays arrive as []any.
		out := make([]string, 0, len(paths))
		for _, p := range paths {
			if s, ok := p.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Result describes a finished generation: where the artifact landed and
// whether it was also delivered by email.
type Result struct {
	ArtifactPath string `json:"artifactPath"`
	ArtifactName string `json:"artifactName"`
	Emailed      bool   `json:"emailed"`
}
