package handlers

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"courtconnect/models"
	"courtconnect/services/transcription"
	"courtconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	MaxFileSize      = 5 * 1024 * 1024 // 5MB
	AllowedExtension = ".wav"
)

type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// parseWaveHeader reads the canonical RIFF/WAVE fmt chunk.
func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < 44 {
		return nil, errors.New("invalid WAV header length")
	}

	var header waveHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if string(header.RiffTag[:]) != "RIFF" || string(header.WaveTag[:]) != "WAVE" || string(header.FmtTag[:]) != "fmt " {
		return nil, errors.New("not a RIFF/WAVE file")
	}
	if header.AudioFormat != 1 || header.BitsPerSample != 16 {
		return nil, fmt.Errorf("expected 16-bit PCM, got format %d with %d bits", header.AudioFormat, header.BitsPerSample)
	}
	if header.NumChannels == 0 || header.SampleRate == 0 {
		return nil, errors.New("WAV header has no channels or sample rate")
	}
	return &header, nil
}

// TranscriptionHandler serves speech uploads. A nil Transcriber means the feature is off.
type TranscriptionHandler struct {
	Transcriber transcription.Transcriber
}

func NewTranscriptionHandler(t transcription.Transcriber) *TranscriptionHandler {
	return &TranscriptionHandler{Transcriber: t}
}

func (h *TranscriptionHandler) TranscribeHandler(c *gin.Context) {
	logger := getLogger(c)

	if h.Transcriber == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Audio transcription unavailable")
		return
	}

	language := c.DefaultPostForm("language", "en-US")

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != AllowedExtension {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid file type",
			"details": fmt.Sprintf("expected %s, got %s", AllowedExtension, ext),
		})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		logger.Error("Failed to read audio upload", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to read audio file")
		return
	}
	if len(data) > MaxFileSize {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "audio file exceeds 5MB")
		return
	}

	wav, err := parseWaveHeader(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid WAV file", "details": err.Error()})
		return
	}

	text, err := h.Transcriber.Transcribe(c.Request.Context(), transcription.Audio{
		Data:       data,
		Filename:   header.Filename,
		SampleRate: int32(wav.SampleRate),
		Channels:   int32(wav.NumChannels),
		Language:   language,
	})
	if err != nil {
		logger.Error("Transcription failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Transcription failed")
		return
	}

	c.JSON(http.StatusOK, models.TranscriptionResponse{Text: text})
}
