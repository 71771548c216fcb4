package transcription

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhisperTranscriberUploadsAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "en", r.FormValue("language"))

		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		assert.Equal(t, []byte("RIFFdata"), data)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":" book padel tomorrow at 5pm "}`))
	}))
	defer srv.Close()

	tr := NewWhisperTranscriber("key", srv.URL)
	text, err := tr.Transcribe(context.Background(), Audio{Data: []byte("RIFFdata"), Filename: "clip.wav", Language: "en-US"})
	require.NoError(t, err)
	assert.Equal(t, "book padel tomorrow at 5pm", text)
}
