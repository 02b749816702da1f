package clients

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func newInmemoryClient(t *testing.T, handler fasthttp.RequestHandler) *HTTPClient {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: handler}
	go srv.Serve(ln) //nolint:errcheck
	t.Cleanup(func() {
		_ = srv.Shutdown()
	})

	fc := &fasthttp.Client{
		Dial: func(string) (net.Conn, error) {
			return ln.Dial()
		},
	}

	return NewHTTPClient(time.Second, WithFastHTTPClient(fc))
}

func TestHTTPClient_Get(t *testing.T) {
	c := newInmemoryClient(t, func(ctx *fasthttp.RequestCtx) {
		assert.Equal(t, "GET", string(ctx.Method()))
		assert.Equal(t, "/market_data/candles", string(ctx.Path()))
		assert.Equal(t, "B-BTC_USDT", string(ctx.QueryArgs().Peek("pair")))
		assert.Equal(t, "15", string(ctx.QueryArgs().Peek("interval")))
		ctx.SetBodyString(`[[1,"2","3","1","2","5"]]`)
	})

	body, err := c.Get(context.Background(), "http://public.test/market_data/candles", map[string]string{
		"pair":     "B-BTC_USDT",
		"interval": "15",
	})
	require.NoError(t, err)
	assert.Equal(t, `[[1,"2","3","1","2","5"]]`, string(body))
}

func TestHTTPClient_PostJSON(t *testing.T) {
	c := newInmemoryClient(t, func(ctx *fasthttp.RequestCtx) {
		assert.Equal(t, "POST", string(ctx.Method()))
		assert.Equal(t, "application/json", string(ctx.Request.Header.ContentType()))
		assert.JSONEq(t, `{"chat_id":"42","text":"hi"}`, string(ctx.PostBody()))
		ctx.SetBodyString(`{"ok":true}`)
	})

	payload := struct {
		ChatID string `json:"chat_id"`
		Text   string `json:"text"`
	}{ChatID: "42", Text: "hi"}

	body, err := c.PostJSON(context.Background(), "http://api.test/send", payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestHTTPClient_StatusError(t *testing.T) {
	c := newInmemoryClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusBadGateway)
		ctx.SetBodyString("upstream down")
	})

	body, err := c.Get(context.Background(), "http://api.test/markets", nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, fasthttp.StatusBadGateway, statusErr.Code)
	assert.Equal(t, "upstream down", statusErr.Body)
	assert.Equal(t, "upstream down", string(body))
}

func TestHTTPClient_CancelledContext(t *testing.T) {
	called := false
	c := newInmemoryClient(t, func(ctx *fasthttp.RequestCtx) {
		called = true
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "http://api.test/markets", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestHTTPClient_TransportError(t *testing.T) {
	fc := &fasthttp.Client{
		Dial: func(string) (net.Conn, error) {
			return nil, &net.OpError{Op: "dial", Err: assert.AnError}
		},
	}
	c := NewHTTPClient(time.Second, WithFastHTTPClient(fc))

	_, err := c.Get(context.Background(), "http://api.test/markets", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/markets")
}
