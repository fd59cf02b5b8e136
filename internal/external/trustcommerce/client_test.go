package trustcommerce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"terminalpay/internal/controller/apperror"
	"terminalpay/internal/domain/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = gateway.Credentials{CustomerID: "123456", Password: "hunter2"}

var testReader = gateway.Reader{ID: "TSYS_01", Label: "TSYS_01"}

func replyWith(t *testing.T, assertForm func(t *testing.T, form map[string][]string), body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "123456", r.PostForm.Get("custid"))
		assert.Equal(t, "hunter2", r.PostForm.Get("password"))
		if assertForm != nil {
			assertForm(t, r.PostForm)
		}
		_, _ = w.Write([]byte(body))
	}))
}

func TestClient_UnsupportedOperations(t *testing.T) {
	c := New("http://unused", true, nil)

	_, err := c.ListReaders(context.Background(), testCreds)
	assert.ErrorIs(t, err, apperror.ErrNotSupported)

	_, err = c.CreateIntent(context.Background(), testCreds, 1250)
	assert.ErrorIs(t, err, apperror.ErrNotSupported)
}

func TestClient_CheckDeviceReady(t *testing.T) {
	t.Run("should report a connected device", func(t *testing.T) {
		server := replyWith(t, func(t *testing.T, form map[string][]string) {
			assert.Equal(t, "devicestatus", form["action"][0])
			assert.Equal(t, "TSYS_01", form["device_name"][0])
			assert.Equal(t, "y", form["demo"][0])
		}, "devicestatus=connected\n")
		defer server.Close()

		status, err := New(server.URL, true, nil).CheckDeviceReady(context.Background(), testCreds, testReader)

		require.NoError(t, err)
		assert.Equal(t, gateway.DeviceConnected, status)
	})

	t.Run("should report a disconnected device as offline", func(t *testing.T) {
		server := replyWith(t, nil, "devicestatus=disconnected\n")
		defer server.Close()

		status, err := New(server.URL, true, nil).CheckDeviceReady(context.Background(), testCreds, testReader)

		require.NoError(t, err)
		assert.Equal(t, gateway.DeviceOffline, status)
	})

	t.Run("should report a busy device", func(t *testing.T) {
		server := replyWith(t, nil, "devicestatus=busy\n")
		defer server.Close()

		status, err := New(server.URL, true, nil).CheckDeviceReady(context.Background(), testCreds, testReader)

		require.NoError(t, err)
		assert.Equal(t, gateway.DeviceBusy, status)
	})

	t.Run("should map bad credentials to an auth failure", func(t *testing.T) {
		server := replyWith(t, nil, "status=baddata\noffenders=password\n")
		defer server.Close()

		_, err := New(server.URL, true, nil).CheckDeviceReady(context.Background(), testCreds, testReader)

		assert.ErrorIs(t, err, apperror.ErrAuth)
	})

	t.Run("should map a connection failure to a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()

		_, err := New(server.URL, true, nil).CheckDeviceReady(context.Background(), testCreds, testReader)

		assert.ErrorIs(t, err, apperror.ErrTransport)
	})
}

func TestClient_Process(t *testing.T) {
	t.Run("should submit a sale in minor units", func(t *testing.T) {
		server := replyWith(t, func(t *testing.T, form map[string][]string) {
			assert.Equal(t, "sale", form["action"][0])
			assert.Equal(t, "TSYS_01", form["device_name"][0])
			assert.Equal(t, "1250", form["amount"][0])
		}, "cloudpayid=017-0123456789\ncloudpaystatus=submitted\n")
		defer server.Close()

		result, err := New(server.URL, true, nil).Process(context.Background(), testCreds, gateway.ProcessRequest{
			Reader: testReader,
			Amount: 1250,
		})

		require.NoError(t, err)
		assert.Equal(t, gateway.ProcessSubmitted, result.Status)
		assert.Equal(t, "017-0123456789", result.Ref)
	})

	t.Run("should surface a rejected sale as a gateway error", func(t *testing.T) {
		server := replyWith(t, nil, "cloudpaystatus=error\nmessage=device not registered\n")
		defer server.Close()

		_, err := New(server.URL, true, nil).Process(context.Background(), testCreds, gateway.ProcessRequest{
			Reader: testReader,
			Amount: 1250,
		})

		ge, ok := apperror.AsGatewayError(err)
		require.True(t, ok)
		assert.Contains(t, ge.Message, "device not registered")
	})
}

func TestClient_PollStatus(t *testing.T) {
	// submit once so the client knows the device behind the cloudpay id
	submit := func(t *testing.T, c *Client, saleURL string) {
		t.Helper()
		c.BaseURL = saleURL
		result, err := c.Process(context.Background(), testCreds, gateway.ProcessRequest{
			Reader: testReader,
			Amount: 1250,
		})
		require.NoError(t, err)
		require.Equal(t, "017-1", result.Ref)
	}

	poll := func(t *testing.T, statusBody string) (gateway.StatusResult, error) {
		t.Helper()
		c := New("", true, nil)

		sale := replyWith(t, nil, "cloudpayid=017-1\ncloudpaystatus=submitted\n")
		defer sale.Close()
		submit(t, c, sale.URL)

		status := replyWith(t, func(t *testing.T, form map[string][]string) {
			assert.Equal(t, "transstatus", form["action"][0])
			assert.Equal(t, "017-1", form["cloudpayid"][0])
			assert.Equal(t, "y", form["long_polling"][0])
			assert.Equal(t, "TSYS_01", form["device_name"][0])
		}, statusBody)
		defer status.Close()
		c.BaseURL = status.URL

		return c.PollStatus(context.Background(), testCreds, "017-1")
	}

	t.Run("should report a completed payment", func(t *testing.T) {
		result, err := poll(t, "cloudpayid=017-1\ncloudpaystatus=complete\n")
		require.NoError(t, err)
		assert.True(t, result.Terminal)
		assert.Equal(t, gateway.OutcomeComplete, result.Outcome)
	})

	t.Run("should report a cardholder cancelation", func(t *testing.T) {
		result, err := poll(t, "cloudpayid=017-1\ncloudpaystatus=cancel\n")
		require.NoError(t, err)
		assert.True(t, result.Terminal)
		assert.Equal(t, gateway.OutcomeCanceled, result.Outcome)
	})

	t.Run("should carry a decline in the result error", func(t *testing.T) {
		result, err := poll(t, "cloudpayid=017-1\ncloudpaystatus=decline\ndeclinetype=carderror\n")
		require.NoError(t, err)
		assert.True(t, result.Terminal)
		require.Error(t, result.Err)
		ge, ok := apperror.AsGatewayError(result.Err)
		require.True(t, ok)
		assert.Equal(t, "decline", ge.Code)
	})

	t.Run("should stay non-terminal while submitted", func(t *testing.T) {
		result, err := poll(t, "cloudpayid=017-1\ncloudpaystatus=submitted\n")
		require.NoError(t, err)
		assert.False(t, result.Terminal)
	})
}

func TestClient_Cancel(t *testing.T) {
	server := replyWith(t, func(t *testing.T, form map[string][]string) {
		assert.Equal(t, "cancel", form["action"][0])
		assert.Equal(t, "017-1", form["cloudpayid"][0])
	}, "cloudpayid=017-1\ncloudpaystatus=canceled\n")
	defer server.Close()

	ack, err := New(server.URL, true, nil).Cancel(context.Background(), testCreds, "017-1")

	require.NoError(t, err)
	assert.Equal(t, "canceled", ack.PriorState)
}

func TestParseReply(t *testing.T) {
	r := parseReply([]byte("devicestatus=connected\r\ncloudpayid=017-1\ncustomfield=x=y\n\n"))

	assert.Equal(t, "connected", r.DeviceStatus)
	assert.Equal(t, "017-1", r.CloudPayID)
	// only the first separator splits; the rest stays in the value
	assert.Equal(t, "x=y", r.raw["customfield"])
}
