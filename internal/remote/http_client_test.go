package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticToken string

func (t staticToken) Token() (string, error) { return string(t), nil }

func newTestStore(t *testing.T, handler http.HandlerFunc) (*HTTPStore, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	store := NewHTTPStore(HTTPStoreConfig{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
	}, staticToken("test-token"), zap.NewNop())
	return store, server
}

func TestHeartbeatSendsBearerToken(t *testing.T) {
	var gotAuth string
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"code":0,"msg":"ok"}`))
	})

	require.NoError(t, store.Heartbeat(context.Background()))
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestCreateNoteReturnsAuthoritativeRecord(t *testing.T) {
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/note", r.URL.Path)
		w.Write([]byte(`{"code":0,"msg":"ok","data":{
			"id":"n1","uid":1,"title":"server title","content":"body",
			"type":"text","color":"blue",
			"createdAt":"2026-08-01 10:00:00","updatedAt":"2026-08-01 10:30:00"}}`))
	})

	note, err := store.CreateNote(context.Background(), &domain.Note{
		UID: 1, Title: "client title", Content: "body", Type: domain.NoteTypeText, Color: domain.ColorBlue,
	})
	require.NoError(t, err)
	assert.Equal(t, "n1", note.ID)
	assert.Equal(t, "server title", note.Title)
	assert.Equal(t, domain.SyncStatusSynced, note.SyncStatus)
}

func TestServerErrorMapsToRemoteUnavailable(t *testing.T) {
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := store.Heartbeat(context.Background())
	require.Error(t, err)
	assert.True(t, xerrors.IsCode(err, code.ErrorRemoteUnavailable))
}

func TestConnectionRefusedMapsToRemoteUnavailable(t *testing.T) {
	store, server := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	err := store.Heartbeat(context.Background())
	require.Error(t, err)
	assert.True(t, xerrors.IsCode(err, code.ErrorRemoteUnavailable))
}

func TestNotFoundStatusMapsToNotFound(t *testing.T) {
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := store.GetNote(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, xerrors.IsCode(err, code.ErrorNotFound))
}

func TestEnvelopeErrorCodeMapped(t *testing.T) {
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":10002,"msg":"note not found"}`))
	})

	_, err := store.GetNote(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, xerrors.IsCode(err, code.ErrorNotFound))
}

func TestUnauthorizedMapsToAuthToken(t *testing.T) {
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := store.Heartbeat(context.Background())
	require.Error(t, err)
	assert.True(t, xerrors.IsCode(err, code.ErrorAuthToken))
}

func TestDeleteNoteSendsPermanentFlag(t *testing.T) {
	var gotPermanent string
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPermanent = r.URL.Query().Get("permanent")
		w.Write([]byte(`{"code":0,"msg":"ok"}`))
	})

	require.NoError(t, store.DeleteNote(context.Background(), "n1", true))
	assert.Equal(t, "true", gotPermanent)
}

func TestListNotesDecodesCollection(t *testing.T) {
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/note/list", r.URL.Path)
		w.Write([]byte(`{"code":0,"msg":"ok","data":[
			{"id":"a","uid":1,"title":"one","type":"text","color":"default",
			 "createdAt":"2026-08-01 09:00:00","updatedAt":"2026-08-01 09:00:00"},
			{"id":"b","uid":1,"title":"two","type":"list","color":"red",
			 "createdAt":"2026-08-01 09:05:00","updatedAt":"2026-08-01 09:05:00"}]}`))
	})

	notes, err := store.ListNotes(context.Background(), domain.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "one", notes[0].Title)
	assert.Equal(t, domain.NoteTypeList, notes[1].Type)
}
