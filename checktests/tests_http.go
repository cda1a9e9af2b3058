package checktests

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/require"

	"github.com/softcheck/harness/check"
)

// DoHTTPResponseTests exercises soft checks against a real HTTP exchange, the
// way a typical consumer of the harness would: every property of the response
// is checked independently, so one bad header does not hide a bad status.
func DoHTTPResponseTests(t *T) {
	t.Run("response properties are checked independently", func(t *T) {
		headers := make(http.Header)
		headers.Set("Content-Type", "application/json")
		handler, requestsCh := httphelpers.RecordingHandler(
			httphelpers.HandlerWithResponse(200, headers, []byte(`{"ok":true}`)))
		server := httptest.NewServer(handler)
		defer server.Close()

		resp, err := http.Get(server.URL + "/status")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := ioutil.ReadAll(resp.Body)
		require.NoError(t, err)
		t.Debug("response body: %s", string(body))

		cs := t.Checks()
		cs.Equal(200, resp.StatusCode, "status code")
		cs.Equal("application/json", resp.Header.Get("Content-Type"), "content type")
		cs.In(`"ok"`, string(body), "body should acknowledge the request")
		cs.Equal(1, len(requestsCh), "request count")

		info := <-requestsCh
		cs.Equal("GET", info.Request.Method, "request method")
		cs.Equal("/status", info.Request.URL.Path, "request path")
	})

	t.Run("error statuses can be checked in a block", func(t *T) {
		server := httptest.NewServer(httphelpers.HandlerWithStatus(503))
		defer server.Close()

		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		resp.Body.Close()

		r := check.NewRecorder(check.Options{})
		r.Block().Msg("service availability").Do(func() {
			if resp.StatusCode != 503 {
				check.Failf("expected maintenance status, got %d", resp.StatusCode)
			}
		})
		require.False(t, r.HasFailures())
	})
}
