package sheets

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reservoirwatch/dam-levels/internal/domain"
	"github.com/reservoirwatch/dam-levels/internal/observability"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient() *Client {
	return NewClient(5*time.Second, testLogger(), observability.NewMetricsForTesting())
}

func csvServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, err := w.Write([]byte(body))
		assert.NoError(t, err)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchTable_Success(t *testing.T) {
	srv := csvServer(t, "\ufeffSR. No, Name Of Dam ,Date\n1,Khari,05/01/24\n2,Misriot,05/01/24\n")

	table, err := testClient().FetchTable(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, []string{"SR. No", "Name Of Dam", "Date"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, domain.RawRow{"SR. No": "1", "Name Of Dam": "Khari", "Date": "05/01/24"}, table.Rows[0])
	assert.Equal(t, "Misriot", table.Rows[1]["Name Of Dam"])
}

func TestClient_FetchTable_ShortRow(t *testing.T) {
	srv := csvServer(t, "Name Of Dam,Status,Date\nKhari\n")

	table, err := testClient().FetchTable(context.Background(), srv.URL)
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Khari", table.Rows[0]["Name Of Dam"])
	assert.NotContains(t, table.Rows[0], "Status")
	assert.NotContains(t, table.Rows[0], "Date")
}

func TestClient_FetchTable_KeepsCellsVerbatim(t *testing.T) {
	srv := csvServer(t, "Name Of Dam,Status\n Khari , 9.80 Ft Live \n")

	table, err := testClient().FetchTable(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, " Khari ", table.Rows[0]["Name Of Dam"])
	assert.Equal(t, " 9.80 Ft Live ", table.Rows[0]["Status"])
}

func TestClient_FetchTable_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient().FetchTable(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
	assert.Contains(t, err.Error(), "404")
}

func TestClient_FetchTable_HTMLResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>Sign in</body></html>"))
	}))
	defer srv.Close()

	_, err := testClient().FetchTable(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
	assert.Contains(t, err.Error(), "shared publicly")
}

func TestClient_FetchTable_NoDataRows(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty payload", ""},
		{"header only", "Name Of Dam,Date\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := csvServer(t, tt.body)

			_, err := testClient().FetchTable(context.Background(), srv.URL)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrLoad)
			assert.Contains(t, err.Error(), "no data rows")
		})
	}
}

func TestClient_FetchTable_MalformedCSV(t *testing.T) {
	srv := csvServer(t, "Name Of Dam,Date\nKhari,\"unterminated\n")

	_, err := testClient().FetchTable(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
}

func TestClient_FetchTable_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(50*time.Millisecond, testLogger(), observability.NewMetricsForTesting())
	_, err := c.FetchTable(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
}

func TestClient_FetchTable_EmptyEndpoint(t *testing.T) {
	_, err := testClient().FetchTable(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
}
