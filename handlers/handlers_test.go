package handlers

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	availabilityRepo "courtconnect/database/repository/availability"
	reservationRepo "courtconnect/database/repository/reservation"
	"courtconnect/models"
	"courtconnect/services/availability"
	"courtconnect/services/booking"
	"courtconnect/services/facility"
	ai "courtconnect/services/intelligence"
	"courtconnect/services/notification"
	"courtconnect/services/transcription"
	"courtconnect/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
}

var (
	student = models.Caller{ID: "u1", Username: "Nabil", Email: "n.bachiri@aui.ma", Role: models.RoleStudent}
	admin   = models.Caller{ID: "a1", Username: "Ops", Role: models.RoleAdmin}
)

// withCaller stands in for the JWT middleware.
func withCaller(caller models.Caller) gin.HandlerFunc {
	return func(c *gin.Context) {
		if caller.ID != "" {
			c.Set(utils.CallerKey, caller)
		}
		c.Next()
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

type fakeAssistant struct {
	reply  string
	err    error
	caller models.Caller
	got    string
}

func (f *fakeAssistant) Reply(_ context.Context, caller models.Caller, message string) (string, error) {
	f.caller, f.got = caller, message
	return f.reply, f.err
}

func chatRouter(svc ai.AssistantService, caller models.Caller) *gin.Engine {
	r := gin.New()
	r.POST("/api/chat", withCaller(caller), NewAssistantHandler(svc).ChatHandler)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantKey    string
		wantText   string
	}{
		{name: "reply", body: `{"message":"hello"}`, wantStatus: http.StatusOK, wantKey: "reply", wantText: "hi there"},
		{name: "missing message", body: `{}`, wantStatus: http.StatusBadRequest, wantKey: "error", wantText: "Message is required"},
		{name: "bad json", body: `{`, wantStatus: http.StatusBadRequest, wantKey: "error", wantText: "Message is required"},
		{name: "whitespace only", body: `{"message":"  "}`, err: ai.ErrEmptyMessage, wantStatus: http.StatusBadRequest, wantKey: "error", wantText: "Message is required"},
		{name: "blocked", body: `{"message":"x"}`, err: ai.ErrBlockedMessage, wantStatus: http.StatusBadRequest, wantKey: "error", wantText: "I can't assist with that."},
		{name: "model down", body: `{"message":"x"}`, err: ai.ErrChatUnavailable, wantStatus: http.StatusInternalServerError, wantKey: "error", wantText: "Chat service unavailable"},
		{name: "unexpected", body: `{"message":"x"}`, err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantKey: "error", wantText: "Chat failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAssistant{reply: "hi there", err: tt.err}
			w := postJSON(chatRouter(svc, student), "/api/chat", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantText, decode(t, w)[tt.wantKey])
		})
	}
}

func TestChatHandlerPassesCaller(t *testing.T) {
	svc := &fakeAssistant{reply: "ok"}
	w := postJSON(chatRouter(svc, student), "/api/chat", `{"message":"book futsal"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", svc.caller.ID)
	assert.Equal(t, "book futsal", svc.got)
}

type fakeTranscriber struct {
	text string
	err  error
	got  transcription.Audio
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audio transcription.Audio) (string, error) {
	f.got = audio
	return f.text, f.err
}

func wavBytes(t *testing.T, sampleRate uint32, channels, bits uint16) []byte {
	t.Helper()
	pcm := make([]byte, 320)
	blockAlign := channels * bits / 8
	h := waveHeader{
		FileSize:      uint32(36 + len(pcm)),
		FmtSize:       16,
		AudioFormat:   1,
		NumChannels:   channels,
		SampleRate:    sampleRate,
		ByteRate:      sampleRate * uint32(blockAlign),
		BlockAlign:    blockAlign,
		BitsPerSample: bits,
	}
	copy(h.RiffTag[:], "RIFF")
	copy(h.WaveTag[:], "WAVE")
	copy(h.FmtTag[:], "fmt ")

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, h))
	buf.WriteString("data")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(pcm))))
	buf.Write(pcm)
	return buf.Bytes()
}

func uploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("audio", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("language", "fr-FR"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/chat/transcribe", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serveTranscribe(h *TranscriptionHandler, req *http.Request) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/api/chat/transcribe", h.TranscribeHandler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTranscribeHandler(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		w := serveTranscribe(NewTranscriptionHandler(nil), uploadRequest(t, "a.wav", wavBytes(t, 16000, 1, 16)))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "Audio transcription unavailable", decode(t, w)["error"])
	})

	t.Run("missing file", func(t *testing.T) {
		w := serveTranscribe(NewTranscriptionHandler(&fakeTranscriber{}), uploadRequest(t, "", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong extension", func(t *testing.T) {
		w := serveTranscribe(NewTranscriptionHandler(&fakeTranscriber{}), uploadRequest(t, "a.mp3", []byte("ID3")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid file type", decode(t, w)["error"])
	})

	t.Run("not pcm", func(t *testing.T) {
		w := serveTranscribe(NewTranscriptionHandler(&fakeTranscriber{}), uploadRequest(t, "a.wav", wavBytes(t, 16000, 1, 8)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid WAV file", decode(t, w)["error"])
	})

	t.Run("too large", func(t *testing.T) {
		data := append(wavBytes(t, 16000, 1, 16), make([]byte, MaxFileSize)...)
		w := serveTranscribe(NewTranscriptionHandler(&fakeTranscriber{}), uploadRequest(t, "a.wav", data))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("transcriber error", func(t *testing.T) {
		stt := &fakeTranscriber{err: errors.New("quota")}
		w := serveTranscribe(NewTranscriptionHandler(stt), uploadRequest(t, "a.wav", wavBytes(t, 16000, 1, 16)))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("ok", func(t *testing.T) {
		stt := &fakeTranscriber{text: "book futsal tomorrow at 6 pm"}
		w := serveTranscribe(NewTranscriptionHandler(stt), uploadRequest(t, "Voice.WAV", wavBytes(t, 44100, 2, 16)))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "book futsal tomorrow at 6 pm", decode(t, w)["text"])
		assert.Equal(t, int32(44100), stt.got.SampleRate)
		assert.Equal(t, int32(2), stt.got.Channels)
		assert.Equal(t, "fr-FR", stt.got.Language)
	})
}

type bookingFixture struct {
	svc    *booking.DefaultBookingService
	router *gin.Engine
}

func newBookingFixture(t *testing.T, caller models.Caller, seed ...models.Reservation) *bookingFixture {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Casablanca")
	require.NoError(t, err)

	repo := reservationRepo.NewMemoryReservationRepo(seed...)
	catalog := facility.DefaultCatalog()
	svc := booking.NewDefaultBookingService(repo, catalog, notification.NewLogNotifier(zap.NewNop()), zap.NewNop(), loc)
	now := time.Date(2025, time.December, 1, 10, 0, 0, 0, loc)
	svc.Now = func() time.Time { return now }

	h := NewBookingHandler(svc, catalog, availability.NewOracle(repo, availabilityRepo.NewMemoryWindowRepo()))
	r := gin.New()
	r.Use(withCaller(caller))
	r.GET("/api/facilities", h.ListFacilitiesHandler)
	r.GET("/api/facilities/:id/availability", h.AvailabilityHandler)
	r.POST("/api/bookings", h.CreateBookingHandler)
	r.GET("/api/bookings/mine", h.MyBookingsHandler)
	r.DELETE("/api/bookings/:id", h.CancelBookingHandler)
	r.GET("/api/admin/bookings/pending", h.PendingBookingsHandler)
	r.POST("/api/admin/bookings/:id/confirm", h.ConfirmBookingHandler)
	r.POST("/api/admin/bookings/:id/decline", h.DeclineBookingHandler)
	return &bookingFixture{svc: svc, router: r}
}

func (f *bookingFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestListFacilities(t *testing.T) {
	f := newBookingFixture(t, models.Caller{})
	w := f.do(http.MethodGet, "/api/facilities", "")

	require.Equal(t, http.StatusOK, w.Code)
	list, ok := decode(t, w)["facilities"].([]any)
	require.True(t, ok)
	assert.Len(t, list, 8)
}

func TestCreateBookingHandler(t *testing.T) {
	f := newBookingFixture(t, student)

	w := f.do(http.MethodPost, "/api/bookings", `{"facilityId":"futsal","date":"2025-12-02","startTime":"10:00"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Booking created", body["message"])
	view := body["booking"].(map[string]any)
	assert.Equal(t, "10:00", view["startTime"])
	assert.Equal(t, "11:00", view["endTime"])
	assert.Equal(t, "CONFIRMED", view["status"])

	w = f.do(http.MethodPost, "/api/bookings", `{"facilityId":"futsal","date":"2025-12-02","startTime":"10:30"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodPost, "/api/bookings", `{"facilityId":"squash","date":"2025-12-02","startTime":"10:00"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Facility not found", decode(t, w)["error"])

	w = f.do(http.MethodPost, "/api/bookings", `{"facilityId":"futsal","date":"2025-12-02","startTime":"20:30"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Last booking time for this field is 8pm.", decode(t, w)["error"])
}

func TestCreateBookingHandlerRequiresCaller(t *testing.T) {
	f := newBookingFixture(t, models.Caller{})
	w := f.do(http.MethodPost, "/api/bookings", `{"facilityId":"futsal","date":"2025-12-02","startTime":"18:00"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAvailabilityHandler(t *testing.T) {
	seed := models.Reservation{ID: "r1", UserID: "u9", FacilityID: "tennis-1", Date: "2025-12-02", Start: 9 * 60, End: 10 * 60, Status: models.StatusConfirmed}
	f := newBookingFixture(t, student, seed)

	w := f.do(http.MethodGet, "/api/facilities/tennis-1/availability?date=2025-12-02", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "tennis-1", body["facilityId"])
	slots := body["slots"].([]any)
	require.Len(t, slots, 1)
	assert.Equal(t, map[string]any{"startTime": "09:00", "endTime": "10:00"}, slots[0])

	w = f.do(http.MethodGet, "/api/facilities/tennis-1/availability?date=tomorrow", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/facilities/golf/availability?date=2025-12-02", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMyBookingsAndCancel(t *testing.T) {
	seed := []models.Reservation{
		{ID: "r1", UserID: "u1", FacilityID: "padel", Date: "2025-12-02", Start: 9 * 60, End: 10 * 60, Status: models.StatusConfirmed},
		{ID: "r2", UserID: "u2", FacilityID: "padel", Date: "2025-12-02", Start: 11 * 60, End: 12 * 60, Status: models.StatusConfirmed},
	}
	f := newBookingFixture(t, student, seed...)

	w := f.do(http.MethodGet, "/api/bookings/mine", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["bookings"], 1)

	w = f.do(http.MethodDelete, "/api/bookings/r2", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodDelete, "/api/bookings/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodDelete, "/api/bookings/r1", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "CANCELLED", decode(t, w)["booking"].(map[string]any)["status"])
}

func TestAdminPendingConfirmDecline(t *testing.T) {
	seed := []models.Reservation{
		{ID: "p1", UserID: "u1", FacilityID: "bicycles", Date: "2025-12-02", Start: 10 * 60, End: 11 * 60, Status: models.StatusPending},
		{ID: "p2", UserID: "u1", FacilityID: "futsal", Date: "2025-12-02", Start: 19 * 60, End: 20 * 60, Status: models.StatusPending},
	}
	f := newBookingFixture(t, admin, seed...)

	w := f.do(http.MethodGet, "/api/admin/bookings/pending", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["bookings"], 2)

	w = f.do(http.MethodPost, "/api/admin/bookings/p1/confirm", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CONFIRMED", decode(t, w)["booking"].(map[string]any)["status"])

	w = f.do(http.MethodPost, "/api/admin/bookings/p2/decline", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "REJECTED", decode(t, w)["booking"].(map[string]any)["status"])

	w = f.do(http.MethodPost, "/api/admin/bookings/p1/decline", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/admin/bookings/pending", "")
	assert.Len(t, decode(t, w)["bookings"], 0)
}
