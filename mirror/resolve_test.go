package mirror

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	var forms []url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/play" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		require.NoError(t, r.ParseForm())
		forms = append(forms, r.PostForm)
		switch r.PostForm.Get("id") {
		case "missing":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("room-not-found"))
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("unknown-error"))
		default:
			w.Write([]byte("wss://skribbler.example/socket?ticket=abc\n"))
		}
	}))
	defer server.Close()

	tests := []struct {
		name     string
		target   Target
		form     url.Values
		expected string
		err      error
	}{
		{
			name:     "public matchmaking",
			target:   Target{Lang: 3},
			form:     url.Values{"lang": {"3"}},
			expected: "wss://skribbler.example/socket?ticket=abc",
		},
		{
			name:     "private room by code",
			target:   Target{Code: "abc"},
			form:     url.Values{"lang": {"0"}, "id": {"abc"}},
			expected: "wss://skribbler.example/socket?ticket=abc",
		},
		{
			name:     "new private room",
			target:   Target{Create: true},
			form:     url.Values{"lang": {"0"}, "create": {"1"}},
			expected: "wss://skribbler.example/socket?ticket=abc",
		},
		{
			name:   "unknown code",
			target: Target{Code: "missing"},
			form:   url.Values{"lang": {"0"}, "id": {"missing"}},
			err:    ErrRoomNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forms = nil
			got, err := Resolve(context.Background(), server.Client(), server.URL+"/", tt.target)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
			require.Len(t, forms, 1)
			assert.Equal(t, tt.form, forms[0])
		})
	}

	t.Run("unexpected status", func(t *testing.T) {
		_, err := Resolve(context.Background(), nil, server.URL, Target{Code: "broken"})
		assert.ErrorContains(t, err, "unknown-error")
	})
}
