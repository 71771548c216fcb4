// Package transcription turns uploaded speech into plain text for the chat endpoint.
package transcription

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// Audio is one LINEAR16 WAV upload.
type Audio struct {
	Data       []byte
	Filename   string
	SampleRate int32
	Channels   int32
	Language   string
}

// Transcriber converts audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio Audio) (string, error)
}

// GoogleTranscriber uses Google Cloud Speech-to-Text.
type GoogleTranscriber struct {
	client *speech.Client
}

func NewGoogleTranscriber(ctx context.Context, credentialsFile string) (*GoogleTranscriber, error) {
	client, err := speech.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}
	return &GoogleTranscriber{client: client}, nil
}

func (g *GoogleTranscriber) Transcribe(ctx context.Context, audio Audio) (string, error) {
	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   audio.SampleRate,
			LanguageCode:      audio.Language,
			AudioChannelCount: audio.Channels,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio.Data},
		},
	}

	resp, err := g.client.Recognize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			transcript.WriteString(result.Alternatives[0].Transcript + " ")
		}
	}
	return strings.TrimSpace(transcript.String()), nil
}

func (g *GoogleTranscriber) Close() error {
	return g.client.Close()
}

// WhisperTranscriber uses the OpenAI audio transcription endpoint.
type WhisperTranscriber struct {
	client *openai.Client
}

func NewWhisperTranscriber(apiKey, baseURL string) *WhisperTranscriber {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &WhisperTranscriber{client: openai.NewClientWithConfig(config)}
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, audio Audio) (string, error) {
	lang := audio.Language
	if i := strings.Index(lang, "-"); i > 0 {
		lang = lang[:i]
	}
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audio.Filename,
		Reader:   bytes.NewReader(audio.Data),
		Language: lang,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
