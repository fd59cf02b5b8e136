package stripe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"terminalpay/internal/controller/apperror"
	"terminalpay/internal/domain/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = gateway.Credentials{APIKey: "sk_test_123"}

func TestClient_ListReaders(t *testing.T) {
	t.Run("should list registered readers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/terminal/readers", r.URL.Path)
			assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

			_, _ = w.Write([]byte(`{
				"object": "list",
				"data": [
					{"id": "tmr_1", "label": "Front desk", "device_type": "bbpos_wisepos_e", "status": "online"},
					{"id": "tmr_2", "label": "Back office", "device_type": "simulated_wisepos_e", "status": "offline"}
				]
			}`))
		}))
		defer server.Close()

		readers, err := New(server.URL, nil).ListReaders(context.Background(), testCreds)

		require.NoError(t, err)
		require.Len(t, readers, 2)
		assert.Equal(t, gateway.Reader{
			ID: "tmr_1", Label: "Front desk", DeviceType: "bbpos_wisepos_e", Status: "online",
		}, readers[0])
	})

	t.Run("should map 401 to an auth failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"code": "api_key_expired", "message": "Expired API Key"}}`))
		}))
		defer server.Close()

		_, err := New(server.URL, nil).ListReaders(context.Background(), testCreds)

		assert.ErrorIs(t, err, apperror.ErrAuth)
	})

	t.Run("should map a connection failure to a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()

		_, err := New(server.URL, nil).ListReaders(context.Background(), testCreds)

		assert.ErrorIs(t, err, apperror.ErrTransport)
	})
}

func TestClient_CheckDeviceReady(t *testing.T) {
	_, err := New("http://unused", nil).CheckDeviceReady(context.Background(), testCreds, gateway.Reader{})
	assert.ErrorIs(t, err, apperror.ErrNotSupported)
}

func TestClient_CreateIntent(t *testing.T) {
	t.Run("should create a card-present intent in minor units", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/payment_intents", r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "1250", r.PostForm.Get("amount"))
			assert.Equal(t, "usd", r.PostForm.Get("currency"))
			assert.Equal(t, []string{"card_present"}, r.PostForm["payment_method_types[]"])

			_, _ = w.Write([]byte(`{"id": "pi_123", "status": "requires_payment_method", "amount": 1250}`))
		}))
		defer server.Close()

		intent, err := New(server.URL, nil).CreateIntent(context.Background(), testCreds, 1250)

		require.NoError(t, err)
		assert.Equal(t, "pi_123", intent.ID)
	})

	t.Run("should surface the provider error code and keep the intent id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": {
				"code": "amount_too_small",
				"message": "Amount must be at least $0.50 usd",
				"payment_intent": {"id": "pi_tiny", "status": "requires_payment_method"}
			}}`))
		}))
		defer server.Close()

		intent, err := New(server.URL, nil).CreateIntent(context.Background(), testCreds, 30)

		require.Error(t, err)
		ge, ok := apperror.AsGatewayError(err)
		require.True(t, ok)
		assert.Equal(t, "amount_too_small", ge.Code)
		assert.Equal(t, "pi_tiny", intent.ID)
	})
}

func TestClient_Process(t *testing.T) {
	t.Run("should hand the intent to the reader and report submitted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/terminal/readers/tmr_1/process_payment_intent", r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "pi_123", r.PostForm.Get("payment_intent"))

			_, _ = w.Write([]byte(`{
				"id": "tmr_1",
				"action": {
					"status": "in_progress",
					"process_payment_intent": {"payment_intent": "pi_123"}
				}
			}`))
		}))
		defer server.Close()

		result, err := New(server.URL, nil).Process(context.Background(), testCreds, gateway.ProcessRequest{
			Intent: &gateway.Intent{ID: "pi_123"},
			Reader: gateway.Reader{ID: "tmr_1"},
			Amount: 1250,
		})

		require.NoError(t, err)
		assert.Equal(t, gateway.ProcessSubmitted, result.Status)
		assert.Equal(t, "pi_123", result.Ref)
	})

	t.Run("should surface a busy reader as a gateway error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": {"code": "terminal_reader_busy", "message": "Reader is busy"}}`))
		}))
		defer server.Close()

		_, err := New(server.URL, nil).Process(context.Background(), testCreds, gateway.ProcessRequest{
			Intent: &gateway.Intent{ID: "pi_123"},
			Reader: gateway.Reader{ID: "tmr_1"},
		})

		ge, ok := apperror.AsGatewayError(err)
		require.True(t, ok)
		assert.Equal(t, "terminal_reader_busy", ge.Code)
	})

	t.Run("should reject a request without an intent locally", func(t *testing.T) {
		_, err := New("http://unused", nil).Process(context.Background(), testCreds, gateway.ProcessRequest{
			Reader: gateway.Reader{ID: "tmr_1"},
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})
}

func TestClient_PollStatus(t *testing.T) {
	poll := func(t *testing.T, body string) (gateway.StatusResult, error) {
		t.Helper()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/payment_intents/pi_123", r.URL.Path)
			_, _ = w.Write([]byte(body))
		}))
		defer server.Close()
		return New(server.URL, nil).PollStatus(context.Background(), testCreds, "pi_123")
	}

	t.Run("should report complete when the intent succeeded", func(t *testing.T) {
		result, err := poll(t, `{"id": "pi_123", "status": "succeeded", "amount": 1250}`)
		require.NoError(t, err)
		assert.True(t, result.Terminal)
		assert.Equal(t, gateway.OutcomeComplete, result.Outcome)
		assert.NoError(t, result.Err)
	})

	t.Run("should report canceled", func(t *testing.T) {
		result, err := poll(t, `{"id": "pi_123", "status": "canceled"}`)
		require.NoError(t, err)
		assert.True(t, result.Terminal)
		assert.Equal(t, gateway.OutcomeCanceled, result.Outcome)
	})

	t.Run("should stay non-terminal while the cardholder interacts", func(t *testing.T) {
		result, err := poll(t, `{"id": "pi_123", "status": "requires_payment_method"}`)
		require.NoError(t, err)
		assert.False(t, result.Terminal)
	})

	t.Run("should let a recorded payment error win over the status", func(t *testing.T) {
		result, err := poll(t, `{
			"id": "pi_123",
			"status": "requires_payment_method",
			"last_payment_error": {"code": "card_declined", "message": "Your card was declined."}
		}`)
		require.NoError(t, err)
		assert.True(t, result.Terminal)
		require.Error(t, result.Err)
		ge, ok := apperror.AsGatewayError(result.Err)
		require.True(t, ok)
		assert.Equal(t, "card_declined", ge.Code)
	})
}

func TestClient_Cancel(t *testing.T) {
	t.Run("should void the intent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/payment_intents/pi_123/cancel", r.URL.Path)
			_, _ = w.Write([]byte(`{"id": "pi_123", "status": "canceled"}`))
		}))
		defer server.Close()

		ack, err := New(server.URL, nil).Cancel(context.Background(), testCreds, "pi_123")

		require.NoError(t, err)
		assert.Equal(t, "canceled", ack.PriorState)
	})

	t.Run("should treat an already resolved intent as canceled", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": {
				"code": "payment_intent_unexpected_state",
				"message": "You cannot cancel this PaymentIntent",
				"payment_intent": {"id": "pi_123", "status": "succeeded"}
			}}`))
		}))
		defer server.Close()

		ack, err := New(server.URL, nil).Cancel(context.Background(), testCreds, "pi_123")

		require.NoError(t, err)
		assert.Equal(t, "succeeded", ack.PriorState)
	})

	t.Run("should surface other cancel failures", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": {"code": "resource_missing", "message": "No such payment_intent"}}`))
		}))
		defer server.Close()

		_, err := New(server.URL, nil).Cancel(context.Background(), testCreds, "pi_123")

		require.Error(t, err)
		assert.False(t, errors.Is(err, apperror.ErrNotSupported))
	})
}
