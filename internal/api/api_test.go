package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"EsportsHub/internal/chain"
	"EsportsHub/internal/config"
	"EsportsHub/internal/ipfs"
	"EsportsHub/internal/model"
	"EsportsHub/internal/realtime"
	"EsportsHub/internal/repository"
	"EsportsHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdmin = "0x0734EdcC126a08375a08C02c3117d44B24dF47Fa"

type testServer struct {
	srv    *httptest.Server
	router *gin.Engine
	store  *repository.MemoryStore
	hub    *realtime.Hub
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.Server.MaxUploadMB = 1
	cfg.Admin.Address = testAdmin
	if mutate != nil {
		mutate(cfg)
	}

	reg := prometheus.NewRegistry()
	store := repository.NewMemoryStore()
	adapter := chain.NewMockAdapter(logger)
	content := ipfs.NewMockPinner(logger)
	hub := realtime.NewHub(nil, logger, realtime.NewMetrics(reg))

	market := service.NewMarketService(store, adapter, hub, logger)
	video := service.NewVideoService(store, adapter, content, hub, logger)
	course := service.NewCourseService(store, adapter, logger)
	marketplace := service.NewMarketplaceService(store, adapter, hub, logger)
	router := NewRouter(Deps{
		Config:      cfg,
		Store:       store,
		Chain:       adapter,
		Content:     content,
		Hub:         hub,
		Gatherer:    reg,
		Logger:      logger,
		Market:      market,
		Video:       video,
		DAO:         service.NewDAOService(store, adapter, hub, logger),
		Course:      course,
		Marketplace: marketplace,
		User:        service.NewUserService(store, adapter, logger),
		Admin:       service.NewAdminService(*cfg, adapter, market, video, course, marketplace, logger),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return &testServer{srv: srv, router: router, store: store, hub: hub}
}

func (s *testServer) postJSON(t *testing.T, path string, body any, header http.Header) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, s.srv.URL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	return s.do(t, req)
}

func (s *testServer) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.srv.URL+path, nil)
	require.NoError(t, err)
	return s.do(t, req)
}

func (s *testServer) do(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func (s *testServer) seedEvent(t *testing.T) *model.PredictionEvent {
	t.Helper()
	ev, err := s.store.CreateEvent(context.Background(), &model.PredictionEvent{
		ContractEventID: 1,
		Name:            "Grand Final",
		Game:            "CS2",
		EndTime:         time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	return ev
}

func TestPlaceBetEndToEnd(t *testing.T) {
	s := newTestServer(t, nil)
	ev := s.seedEvent(t)

	wsURL := "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, body := s.postJSON(t, "/api/bet", map[string]any{
		"eventId":     ev.ID,
		"option":      1,
		"amount":      "0.5",
		"userAddress": "0xabc",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, chain.MockTxHash, body["txHash"])
	event := body["event"].(map[string]any)
	assert.Equal(t, "0.5", event["totalPool"])
	assert.EqualValues(t, 1, event["betCount"])

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"bet:placed","data":{"eventId":1,"bettor":"0xabc","amount":"0.5","option":1}}`, string(raw))

	got, err := s.store.GetEvent(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPool.Equal(decimal.RequireFromString("0.5")))
}

func TestErrorStatusMapping(t *testing.T) {
	s := newTestServer(t, nil)
	ev := s.seedEvent(t)

	resp, body := s.postJSON(t, "/api/bet", map[string]any{"eventId": ev.ID, "amount": "0"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "amount")

	resp, _ = s.postJSON(t, "/api/bet", map[string]any{"eventId": 999, "amount": "1"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.postJSON(t, "/api/videos/abc/like", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.postJSON(t, "/api/courses/42/purchase", map[string]any{"purchaser": "0xa"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.get(t, "/api/events/77")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserLazyCreation(t *testing.T) {
	s := newTestServer(t, nil)

	resp, body := s.get(t, "/api/user/0xfresh")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, "0xfresh", user["address"])
	assert.Empty(t, body["bets"])

	resp, body = s.get(t, "/api/user/0xfresh/balances")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, chain.MockChzBalance, body["chzBalance"])
	assert.Equal(t, "mock", body["mode"])
}

func multipartVideo(t *testing.T, size int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"title": "Clutch 1v5", "creator": "0xcreator", "category": "FPS"} {
		require.NoError(t, w.WriteField(k, v))
	}
	if size > 0 {
		fw, err := w.CreateFormFile("video", "clip.mp4")
		require.NoError(t, err)
		_, err = fw.Write(bytes.Repeat([]byte{0x42}, size))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestVideoUpload(t *testing.T) {
	s := newTestServer(t, nil)

	post := func(size int) (*http.Response, map[string]any) {
		body, ct := multipartVideo(t, size)
		req, err := http.NewRequest(http.MethodPost, s.srv.URL+"/api/videos/upload", body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", ct)
		return s.do(t, req)
	}

	resp, body := post(1024)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(body["ipfsHash"].(string), "ipfs://mock-video-hash-"))
	assert.True(t, strings.HasPrefix(body["gatewayUrl"].(string), "https://nftstorage.link/ipfs/mock-video-hash-"))
	video := body["video"].(map[string]any)
	assert.Equal(t, "FPS", video["category"])

	resp, body = post(0)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No video file provided", body["error"])

	big, ct := multipartVideo(t, 2<<20)
	req := httptest.NewRequest(http.MethodPost, "/api/videos/upload", big)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAdminAuth(t *testing.T) {
	const secret = "test-secret"
	s := newTestServer(t, func(c *config.Config) { c.Admin.JWTSecret = secret })

	resp, _ := s.get(t, "/api/admin/deployment-status")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	other, err := GenerateAdminToken("0x0000000000000000000000000000000000000001", secret, time.Hour)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodGet, s.srv.URL+"/api/admin/deployment-status", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	resp, _ = s.do(t, req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	forged, err := GenerateAdminToken(testAdmin, "wrong-secret", time.Hour)
	require.NoError(t, err)
	req, _ = http.NewRequest(http.MethodGet, s.srv.URL+"/api/admin/deployment-status", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	resp, _ = s.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := GenerateAdminToken(strings.ToLower(testAdmin), secret, time.Hour)
	require.NoError(t, err)
	req, _ = http.NewRequest(http.MethodGet, s.srv.URL+"/api/admin/deployment-status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, body := s.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 5, body["total"])
	assert.Equal(t, false, body["isComplete"])
	assert.Equal(t, "mock", body["mode"])
}

func TestAdminOpenWithoutSecret(t *testing.T) {
	s := newTestServer(t, nil)

	resp, body := s.postJSON(t, "/api/admin/deploy-contract", map[string]any{"contractName": "CourseNFT"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Starting deployment of CourseNFT...", body["message"])
	assert.Len(t, body["constructorArgs"], 5)

	resp, _ = s.postJSON(t, "/api/admin/deploy-contract", map[string]any{"contractName": "Unknown"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminTestActionsReportFailureWith200(t *testing.T) {
	s := newTestServer(t, nil)

	resp, body := s.postJSON(t, "/api/admin/test/create-course", map[string]any{"price": "1"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])

	resp, body = s.postJSON(t, "/api/admin/test/create-event", map[string]any{
		"name":     "Showmatch",
		"ipfsHash": "QmEvent",
		"endTime":  1767225600,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, `Betting event "Showmatch" created successfully`, body["message"])

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var events []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Valorant", events[0]["game"])
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	resp, body := s.get(t, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "mock", body["chainMode"])

	resp, err := http.Get(s.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "esports_hub_ws_clients")
}
