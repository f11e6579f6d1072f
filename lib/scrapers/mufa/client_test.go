package mufa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchPage(t *testing.T) {
	var sawUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawUserAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("<html><body>hello</body></html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseUrl: server.URL})
	ctx := context.Background()

	html, err := client.FetchPage(ctx, server.URL+"/ok")
	require.NoError(t, err)
	require.Contains(t, html, "hello")
	require.Contains(t, sawUserAgent, "Mozilla/5.0")

	_, err = client.FetchPage(ctx, server.URL+"/missing")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestFetchPageTransportFailure(t *testing.T) {
	client := NewClient(ClientOptions{BaseUrl: "http://127.0.0.1:1"})

	_, err := client.FetchPage(context.Background(), client.TeamListUrl("87"))
	require.Error(t, err)
	var statusErr *StatusError
	require.False(t, errors.As(err, &statusErr))
}

func TestUrlBuilders(t *testing.T) {
	client := NewClient(ClientOptions{})

	require.Equal(t,
		"https://www.mufa.org/League/Division/HomeArticle.aspx?d=87",
		client.TeamListUrl("87"),
	)
	require.Equal(t,
		"https://www.mufa.org/League/Division/Team.aspx?t=1423&d=87",
		client.TeamScheduleUrl("1423", "87"),
	)
	require.Equal(t,
		"https://www.mufa.org/League/Division/FieldList.aspx?d=87",
		client.FieldListUrl("87"),
	)
	require.Equal(t,
		"https://www.mufa.org/League/Division/Field.aspx?f=22&d=87",
		client.FieldDetailUrl("22", "87"),
	)
}
