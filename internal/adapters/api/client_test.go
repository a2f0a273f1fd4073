package api

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bnema/bilive-keeper/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:         server.URL,
		AppKey:          "testkey",
		AppSecret:       "s3cret",
		HTTPClient:      server.Client(),
		HeartbeatRoomID: 23058,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{BaseURL: "ftp://example.com"})
	require.ErrorContains(t, err, "http or https")
}

func TestSessionHeartbeatSendsCookie(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/User/userOnlineHeart", r.URL.Path)
		require.Equal(t, "SESSDATA=abc", r.Header.Get("Cookie"))
		_, _ = w.Write([]byte(`{"code":-101,"msg":"请先登录"}`))
	}))

	reply, err := client.SessionHeartbeat(context.Background(), domain.Session{Cookie: "SESSDATA=abc"})
	require.NoError(t, err)
	require.True(t, reply.AuthInvalid())
}

func TestTokenHeartbeatSignsQuery(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/mobile/userOnlineHeart", r.URL.Path)

		query := r.URL.Query()
		sign := query.Get("sign")
		require.NotEmpty(t, sign)
		require.Equal(t, "tok", query.Get("access_key"))
		require.Equal(t, "testkey", query.Get("appkey"))

		query.Del("sign")
		sum := md5.Sum([]byte(query.Encode() + "s3cret"))
		require.Equal(t, hex.EncodeToString(sum[:]), sign)

		require.NoError(t, r.ParseForm())
		require.Equal(t, "23058", r.PostForm.Get("room_id"))
		require.Equal(t, "xxhdpi", r.PostForm.Get("scale"))

		_, _ = w.Write([]byte(`{"code":0,"msg":""}`))
	}))

	reply, err := client.TokenHeartbeat(context.Background(), domain.Session{AccessToken: "tok"})
	require.NoError(t, err)
	require.Equal(t, domain.CodeOK, reply.Code)
}

func TestSignInfoDecodesDays(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/AppUser/getSignInfo", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":0,"data":{"status":1,"hadSignDays":12}}`))
	}))

	info, err := client.SignInfo(context.Background(), domain.Session{AccessToken: "tok"})
	require.NoError(t, err)
	require.True(t, info.Signed())
	require.Equal(t, 12, info.HadSignDays)
}

func TestCurrentTaskDecodesCooldown(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/mobile/freeSilverCurrentTask", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":0,"data":{"minute":3,"silver":30,"time_start":100,"time_end":280}}`))
	}))

	task, err := client.CurrentTask(context.Background(), domain.Session{AccessToken: "tok"})
	require.NoError(t, err)
	require.Equal(t, 3, task.Minute)
	require.Equal(t, int64(100), task.TimeStart)
	require.Equal(t, int64(280), task.TimeEnd)
	require.False(t, task.Exhausted())
}

func TestCurrentTaskWebUsesCookie(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/FreeSilver/getCurrentTask", r.URL.Path)
		require.Equal(t, "SESSDATA=abc", r.Header.Get("Cookie"))
		_, _ = w.Write([]byte(`{"code":-10017,"data":{}}`))
	}))

	task, err := client.CurrentTaskWeb(context.Background(), domain.Session{Cookie: "SESSDATA=abc"})
	require.NoError(t, err)
	require.True(t, task.Exhausted())
}

func TestClaimAwardDecodesSilver(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/mobile/freeSilverAward", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":0,"data":{"silver":420,"isEnd":1}}`))
	}))

	reply, err := client.ClaimAward(context.Background(), domain.Session{AccessToken: "tok"})
	require.NoError(t, err)
	require.True(t, reply.Claimed())
	require.Equal(t, 420, reply.Silver)
	require.True(t, reply.IsEnd)
}

func TestClaimAwardWebSendsWindowAndAnswer(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/FreeSilver/getAward", r.URL.Path)
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"code":0,"data":{"silver":100}}`))
	}))

	task := domain.ClaimTask{Code: domain.CodeOK, TimeStart: 100, TimeEnd: 280}
	reply, err := client.ClaimAwardWeb(context.Background(), domain.Session{Cookie: "SESSDATA=abc"}, task, 23)
	require.NoError(t, err)
	require.True(t, reply.Claimed())
	require.Equal(t, "100", gotQuery.Get("time_start"))
	require.Equal(t, "280", gotQuery.Get("time_end"))
	require.Equal(t, "23", gotQuery.Get("captcha"))
}

func TestCaptchaImageReturnsRawBytes(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/freeSilver/getCaptcha", r.URL.Path)
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))

	image, err := client.CaptchaImage(context.Background(), domain.Session{Cookie: "SESSDATA=abc"})
	require.NoError(t, err)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, image)
}

func TestCaptchaImageRejectsEmptyResponse(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, err := client.CaptchaImage(context.Background(), domain.Session{Cookie: "SESSDATA=abc"})
	require.ErrorContains(t, err, "empty response")
}

func TestRoomInfoParsesUpperCaseMasterID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/live/getInfo", r.URL.Path)
		require.Equal(t, "23058", r.URL.Query().Get("roomid"))
		_, _ = w.Write([]byte(`{"code":0,"data":{"MASTERID":11153765}}`))
	}))

	info, err := client.RoomInfo(context.Background(), 23058)
	require.NoError(t, err)
	require.Equal(t, int64(11153765), info.MasterID)
}

func TestEventIndexAndHeartbeat(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/eventRoom/index":
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "11153765", r.URL.Query().Get("ruid"))
			_, _ = w.Write([]byte(`{"code":0,"data":{"heart":true,"heartTime":300}}`))
		case "/eventRoom/heart":
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "23058", r.URL.Query().Get("roomid"))
			_, _ = w.Write([]byte(`{"code":0,"data":{"heart":false}}`))
		default:
			http.NotFound(w, r)
		}
	}))

	session := domain.Session{Cookie: "SESSDATA=abc"}

	index, err := client.EventIndex(context.Background(), session, 11153765)
	require.NoError(t, err)
	require.True(t, index.WantsHeartbeat())
	require.Equal(t, 300, index.HeartTime)

	reply, err := client.EventHeartbeat(context.Background(), session, 23058)
	require.NoError(t, err)
	require.False(t, reply.Heart)
}

func TestServerErrorSurfacesStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.SignInfo(context.Background(), domain.Session{AccessToken: "tok"})
	require.ErrorContains(t, err, "status 502")
}

func TestMalformedBodyIsAnError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))

	_, err := client.CurrentTask(context.Background(), domain.Session{AccessToken: "tok"})
	require.ErrorContains(t, err, "decode response")
}
