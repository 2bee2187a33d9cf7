package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/tubehook/pkg/signature"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"}, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "invalid-config.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("invalid: yaml: content: ["), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: cfgFile}, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func freePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return port
}

func TestRun_EndToEnd(t *testing.T) {
	var mu sync.Mutex
	var hubForms []url.Values
	hubSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		mu.Lock()
		hubForms = append(hubForms, r.PostForm)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer hubSrv.Close()

	var messages []string
	discordSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg struct {
			Content string `json:"content"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		mu.Lock()
		messages = append(messages, msg.Content)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer discordSrv.Close()

	port := freePort(t)
	tmpDir := t.TempDir()
	cfgFile := filepath.Join(tmpDir, "tubehook.yml")
	cfgContent := fmt.Sprintf(`
server:
  listen: "127.0.0.1:%d"
  api_token: tok
hub:
  endpoint: %s
  callback_domain: http://127.0.0.1:%d
  secret: s3cret
storage:
  dsn: "file:%s"
notify:
  webhook_url: %s
`, port, hubSrv.URL, port, filepath.Join(tmpDir, "test.db"), discordSrv.URL)
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfgContent), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, Opts{Config: cfgFile}, nil) }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	// subscribe via management api
	req, err := http.NewRequest(http.MethodPost, base+"/api/v1/subscriptions", strings.NewReader(`{"channelId":"c1"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer tok")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	mu.Lock()
	require.Len(t, hubForms, 1)
	assert.Equal(t, "subscribe", hubForms[0].Get("hub.mode"))
	assert.Equal(t, base+"/webhook", hubForms[0].Get("hub.callback"))
	assert.Equal(t, "s3cret", hubForms[0].Get("hub.secret"))
	mu.Unlock()

	// hub verification
	resp, err = http.Get(base + "/webhook?hub.mode=subscribe&hub.challenge=xyz")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "xyz", string(body))

	// signed push forwarded to discord
	feed := `<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
<entry><yt:videoId>v123</yt:videoId><yt:channelId>c1</yt:channelId><title>T</title>
<author><name>A</name><uri>http://a</uri></author>
<published>2024-01-01T00:00:00Z</published><updated>2024-01-02T00:00:00Z</updated></entry></feed>`
	digest, err := signature.Sign("s3cret", "sha1", []byte(feed))
	require.NoError(t, err)
	req, err = http.NewRequest(http.MethodPost, base+"/webhook", strings.NewReader(feed))
	require.NoError(t, err)
	req.Header.Set("X-Hub-Signature", "sha1="+digest)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	mu.Lock()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "**[A](http://a)** published a new video")
	assert.Contains(t, messages[0], "https://www.youtube.com/watch?v=v123")
	mu.Unlock()

	// unsigned push rejected
	resp, err = http.Post(base+"/webhook", "application/atom+xml", strings.NewReader(feed))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("run didn't stop")
	}
}

func TestLogFile(t *testing.T) {
	assert.Nil(t, logFile(Opts{}))

	var opts Opts
	opts.Log.File = "/tmp/tubehook.log"
	opts.Log.MaxSize = 10
	opts.Log.MaxBackups = 3
	lj := logFile(opts)
	require.NotNil(t, lj)
	assert.Equal(t, "/tmp/tubehook.log", lj.Filename)
	assert.Equal(t, 10, lj.MaxSize)
	assert.Equal(t, 3, lj.MaxBackups)
}
