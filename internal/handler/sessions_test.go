package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotewise-ai/quoting-platform/internal/model"
	"github.com/quotewise-ai/quoting-platform/internal/session"
	"github.com/quotewise-ai/quoting-platform/pkg/logger"
)

// stubBridge answers inference calls with canned text and accepts all
// remote writes.
type stubBridge struct {
	reply string
}

func (b *stubBridge) Complete(ctx context.Context, transcript []model.Message, vision string) (string, error) {
	return b.reply, nil
}

func (b *stubBridge) Summarize(ctx context.Context, transcript []model.Message) (string, error) {
	return "summary", nil
}

func (b *stubBridge) AnalyzeImage(ctx context.Context, image []byte) (string, error) {
	return "analysis", nil
}

func (b *stubBridge) UploadImage(ctx context.Context, name string, data []byte) (string, error) {
	return "http://media.test/" + name, nil
}

func (b *stubBridge) CreateQuote(ctx context.Context, q *model.Quote) (*model.Quote, error) {
	q.ID = "quote-1"
	q.CreatedAt = time.Now()
	return q, nil
}

func (b *stubBridge) GetQuote(ctx context.Context, id string) (*model.Quote, error) {
	return &model.Quote{ID: id, Status: model.StatusPending}, nil
}

func (b *stubBridge) UpdateQuote(ctx context.Context, q *model.Quote) error { return nil }

func (b *stubBridge) AppendAsync(quoteID string, msg model.Message) {}

func (b *stubBridge) AppendOrdered(ctx context.Context, quoteID string, msgs []model.Message) error {
	return nil
}

func newSessionRouter() (*chi.Mux, *session.Manager) {
	manager := session.NewManager(&stubBridge{reply: "happy to help"}, nil, logger.NewNop(), time.Second)
	h := NewSessionHandler(manager, logger.NewNop())

	r := chi.NewRouter()
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Delete("/{id}", h.Close)
		r.Post("/{id}/messages", h.SendMessage)
		r.Post("/{id}/images", h.CaptureImage)
		r.Post("/{id}/quote", h.SaveQuote)
	})
	return r, manager
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp model.CreateSessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func TestSessionCreateAndGet(t *testing.T) {
	r, _ := newSessionRouter()
	id := createSession(t, r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var state model.SessionStateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.Equal(t, id, state.SessionID)
	assert.Empty(t, state.Messages)
}

func TestSessionGetInvalidID(t *testing.T) {
	r, _ := newSessionRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessageReturnsBothTurns(t *testing.T) {
	r, _ := newSessionRouter()
	id := createSession(t, r)

	body := strings.NewReader(`{"content":"my water heater is rattling"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/messages", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp model.SendMessageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.UserMessage)
	require.NotNil(t, resp.AssistantMessage)
	assert.Equal(t, "my water heater is rattling", resp.UserMessage.Content)
	assert.Equal(t, "happy to help", resp.AssistantMessage.Content)
	assert.Equal(t, resp.UserMessage.ID, resp.AssistantMessage.ResponseTo)
}

func TestSendMessageWhitespaceNoOp(t *testing.T) {
	r, _ := newSessionRouter()
	id := createSession(t, r)

	body := strings.NewReader(`{"content":"   \n\t  "}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/messages", body))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))

	var state model.SessionStateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.Empty(t, state.Messages)
}

func TestSendMessageEmptyContentRejected(t *testing.T) {
	r, _ := newSessionRouter()
	id := createSession(t, r)

	body := strings.NewReader(`{"content":""}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/messages", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCloseSessionDropsState(t *testing.T) {
	r, _ := newSessionRouter()
	id := createSession(t, r)

	body := strings.NewReader(`{"content":"remember this"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/messages", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/sessions/"+id, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Without a snapshot cache the id comes back as a fresh, empty
	// session.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var state model.SessionStateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.Equal(t, id, state.SessionID)
	assert.Empty(t, state.Messages)
}

func TestCaptureImageRejectsBadBase64(t *testing.T) {
	r, _ := newSessionRouter()
	id := createSession(t, r)

	body := strings.NewReader(`{"frame":"%%%not-base64%%%"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/images", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCaptureImageRecordsFrame(t *testing.T) {
	r, _ := newSessionRouter()
	id := createSession(t, r)

	body := strings.NewReader(`{"frame":"aW1hZ2UtYnl0ZXM=","live":true}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/images", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp model.CaptureImageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Image.URL)
	require.NotNil(t, resp.UserMessage)
	assert.Nil(t, resp.AssistantMessage)
}

func TestSaveQuoteRequiresIdentity(t *testing.T) {
	r, _ := newSessionRouter()
	id := createSession(t, r)

	// No auth middleware on the test route, so the request carries no
	// identity.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/quote", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
