package vectorstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geulda/go-tour-recommendations/internal/types"
)

type fakeIndex struct {
	state     State
	rebuilt   chan struct{}
	rebuildFn func(ctx context.Context) error
}

func (f *fakeIndex) SimilaritySearch(ctx context.Context, query string, topK int) []types.Place {
	return nil
}

func (f *fakeIndex) State() State { return f.state }

func (f *fakeIndex) Rebuild(ctx context.Context) error {
	defer close(f.rebuilt)
	if f.rebuildFn != nil {
		return f.rebuildFn(ctx)
	}
	return nil
}

func newHandlerFixture(state State) (*Handler, *fakeIndex) {
	idx := &fakeIndex{state: state, rebuilt: make(chan struct{})}
	return NewHandler(idx, slog.Default()), idx
}

func TestRebuildStartsBackgroundBuild(t *testing.T) {
	h, idx := newHandlerFixture(StateUninitialized)

	rr := httptest.NewRecorder()
	h.Rebuild(rr, httptest.NewRequest(http.MethodPost, "/vector-index/rebuild", nil))

	assert.Equal(t, http.StatusAccepted, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "building", body["status"])

	select {
	case <-idx.rebuilt:
	case <-time.After(time.Second):
		t.Fatal("rebuild was never invoked")
	}
}

func TestRebuildConflictsWhileBuilding(t *testing.T) {
	h, idx := newHandlerFixture(StateBuilding)

	rr := httptest.NewRecorder()
	h.Rebuild(rr, httptest.NewRequest(http.MethodPost, "/vector-index/rebuild", nil))

	assert.Equal(t, http.StatusConflict, rr.Code)
	select {
	case <-idx.rebuilt:
		t.Fatal("rebuild must not run while another build is in progress")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStatusReportsCurrentState(t *testing.T) {
	for _, tc := range []struct {
		state State
		want  string
	}{
		{StateUninitialized, "uninitialized"},
		{StateBuilding, "building"},
		{StateReady, "ready"},
		{StateFailed, "failed"},
	} {
		t.Run(tc.want, func(t *testing.T) {
			h, _ := newHandlerFixture(tc.state)

			rr := httptest.NewRecorder()
			h.Status(rr, httptest.NewRequest(http.MethodGet, "/vector-index/status", nil))

			assert.Equal(t, http.StatusOK, rr.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tc.want, body["status"])
		})
	}
}
