package ipfs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"EsportsHub/internal/config"
	"EsportsHub/internal/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	videoCID = "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"
	metaCID  = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestClientUploadVideo(t *testing.T) {
	var mu sync.Mutex
	var uploads []string
	var metadata map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)

		mu.Lock()
		defer mu.Unlock()
		uploads = append(uploads, r.Header.Get("Content-Type"))
		id := videoCID
		if r.Header.Get("Content-Type") == "application/json" {
			assert.NoError(t, json.Unmarshal(body, &metadata))
			id = metaCID
		} else {
			assert.Equal(t, "frames", string(body))
		}
		_, _ = w.Write([]byte(`{"ok":true,"value":{"cid":"` + id + `"}}`))
	}))
	defer srv.Close()

	c := NewClient(config.ContentConfig{BaseURL: srv.URL + "/", APIKey: "secret", Timeout: 5}, quietLogger())
	uri, err := c.UploadVideo(context.Background(), strings.NewReader("frames"), interfaces.VideoMeta{
		Title:       "ace clutch",
		Category:    "cs2",
		Creator:     "0xc",
		ContentType: "video/mp4",
		Size:        6,
	})
	require.NoError(t, err)
	assert.Equal(t, "ipfs://"+metaCID, uri)
	assert.Equal(t, []string{"video/mp4", "application/json"}, uploads)
	assert.Equal(t, "ipfs://"+videoCID, metadata["image"])
	assert.Equal(t, "ace clutch", metadata["name"])
	assert.False(t, c.Mocked())
}

func TestClientUploadErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"ok":false,"error":{"name":"HTTPError","message":"invalid token"}}`))
		}))
		defer srv.Close()

		c := NewClient(config.ContentConfig{BaseURL: srv.URL, APIKey: "bad"}, quietLogger())
		_, err := c.UploadJSON(context.Background(), map[string]string{"a": "b"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid token")
	})

	t.Run("invalid cid", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true,"value":{"cid":"not-a-cid"}}`))
		}))
		defer srv.Close()

		c := NewClient(config.ContentConfig{BaseURL: srv.URL, APIKey: "k"}, quietLogger())
		_, err := c.UploadJSON(context.Background(), map[string]string{"a": "b"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cid")
	})
}

func TestMockPinner(t *testing.T) {
	m := NewMockPinner(quietLogger())
	m.now = func() time.Time { return time.UnixMilli(1700000000123) }

	uri, err := m.UploadVideo(context.Background(), strings.NewReader("x"), interfaces.VideoMeta{FileName: "a.mp4"})
	require.NoError(t, err)
	assert.Equal(t, "ipfs://mock-video-hash-1700000000123", uri)
	assert.True(t, m.Mocked())
}

func TestNewContentAdapter(t *testing.T) {
	assert.True(t, NewContentAdapter(config.ContentConfig{}, quietLogger()).Mocked())
	assert.False(t, NewContentAdapter(config.ContentConfig{APIKey: "k"}, quietLogger()).Mocked())
}

func TestGatewayHelpers(t *testing.T) {
	assert.Equal(t, "https://nftstorage.link/ipfs/Qm123/metadata.json", ToGatewayURL("ipfs://Qm123/metadata.json", ""))
	assert.Equal(t, "https://gw.example/ipfs/Qm1", ToGatewayURL("ipfs://Qm1", "https://gw.example/ipfs"))
	assert.Equal(t, "https://x/y", ToGatewayURL("https://x/y", ""))

	assert.Equal(t, "Qm123", ExtractHash("ipfs://Qm123"))
	assert.Equal(t, "Qm456/file.mp4", ExtractHash("https://nftstorage.link/ipfs/Qm456/file.mp4"))
	assert.Equal(t, "Qm789", ExtractHash("Qm789"))
}
