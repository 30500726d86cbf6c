package erp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-shopify-bridge/internal/domain"
)

// memStore is an in-memory session store.
type memStore struct {
	token string
}

func (s *memStore) Get(_ context.Context) (string, error) { return s.token, nil }

func (s *memStore) Put(_ context.Context, token string) error {
	s.token = token
	return nil
}

func testClient(t *testing.T, handler http.Handler, store *memStore, pageSize int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:  srv.URL,
		Username: "svc",
		Password: "secret",
		PageSize: pageSize,
	}, store, zerolog.Nop())
}

func issueToken(w http.ResponseWriter, token string) {
	w.Header().Set(sessionHeader, token)
	w.WriteHeader(http.StatusOK)
}

func writePage(w http.ResponseWriter, records any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func partPage(numbers ...string) []erpPart {
	parts := make([]erpPart, 0, len(numbers))
	for _, n := range numbers {
		parts = append(parts, erpPart{ID: "id-" + n, PartNumber: n, Status: 1})
	}
	return parts
}

func TestFetchPartsPaginatesUntilShortPage(t *testing.T) {
	var listCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		issueToken(w, "tok")
	})
	mux.HandleFunc("/api/v1/Inventory/Parts", func(w http.ResponseWriter, r *http.Request) {
		listCalls++
		assert.Contains(t, r.URL.Query().Get("$filter"), "Status ge 1 and Status le 6 and Blocked eq false")
		skip, _ := strconv.Atoi(r.URL.Query().Get("$skip"))
		switch skip {
		case 0:
			writePage(w, partPage("A-1", "A-2"))
		case 2:
			writePage(w, partPage("A-3"))
		default:
			writePage(w, []erpPart{})
		}
	})

	c := testClient(t, mux, &memStore{}, 2)
	items, err := c.FetchParts(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "A-3", items[2].PartNumber)
	assert.Equal(t, 2, listCalls)
}

func TestFetchPartsExactPageMultipleNeedsTrailingEmptyPage(t *testing.T) {
	// A full final page is indistinguishable from a non-final one; the
	// loop must issue one more request and see the empty page.
	var listCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		issueToken(w, "tok")
	})
	mux.HandleFunc("/api/v1/Inventory/Parts", func(w http.ResponseWriter, r *http.Request) {
		listCalls++
		skip, _ := strconv.Atoi(r.URL.Query().Get("$skip"))
		switch skip {
		case 0:
			writePage(w, partPage("A-1", "A-2"))
		case 2:
			writePage(w, partPage("A-3", "A-4"))
		default:
			writePage(w, []erpPart{})
		}
	})

	c := testClient(t, mux, &memStore{}, 2)
	items, err := c.FetchParts(context.Background())

	require.NoError(t, err)
	assert.Len(t, items, 4)
	assert.Equal(t, 3, listCalls)
}

func TestLoginHeaderTokenTakesPrecedenceOverBody(t *testing.T) {
	var seenToken string
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(sessionHeader, "header-token")
		writePage(w, loginResponse{SessionID: "body-token"})
	})
	mux.HandleFunc("/api/v1/Inventory/Parts", func(w http.ResponseWriter, r *http.Request) {
		seenToken = r.Header.Get(sessionHeader)
		writePage(w, []erpPart{})
	})

	c := testClient(t, mux, &memStore{}, 10)
	_, err := c.FetchParts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "header-token", seenToken)
}

func TestLoginFallsBackToBodyToken(t *testing.T) {
	var seenToken string
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, loginResponse{SessionID: "body-token"})
	})
	mux.HandleFunc("/api/v1/Inventory/Parts", func(w http.ResponseWriter, r *http.Request) {
		seenToken = r.Header.Get(sessionHeader)
		writePage(w, []erpPart{})
	})

	c := testClient(t, mux, &memStore{}, 10)
	_, err := c.FetchParts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "body-token", seenToken)
}

func TestLoginWithoutTokenIsAuthenticationError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := testClient(t, mux, &memStore{}, 10)
	_, err := c.FetchParts(context.Background())

	var authErr *domain.AuthenticationError
	require.ErrorAs(t, err, &authErr)
}

func TestLoginRejectedCredentialsIsAuthenticationError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c := testClient(t, mux, &memStore{}, 10)
	_, err := c.FetchParts(context.Background())

	var authErr *domain.AuthenticationError
	require.ErrorAs(t, err, &authErr)
}

func TestExpiredSessionRetriedAfterSingleRelogin(t *testing.T) {
	var loginCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		loginCalls++
		issueToken(w, "fresh")
	})
	mux.HandleFunc("/api/v1/Inventory/Parts", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(sessionHeader) != "fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writePage(w, partPage("A-1"))
	})

	// The store carries a token from a previous process; the ERP has since
	// expired it.
	c := testClient(t, mux, &memStore{token: "stale"}, 10)
	items, err := c.FetchParts(context.Background())

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, loginCalls)
}

func TestRejectionAfterReloginIsAuthenticationErrorNotALoop(t *testing.T) {
	var loginCalls, listCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		loginCalls++
		issueToken(w, "fresh")
	})
	mux.HandleFunc("/api/v1/Inventory/Parts", func(w http.ResponseWriter, r *http.Request) {
		listCalls++
		w.WriteHeader(http.StatusUnauthorized)
	})

	c := testClient(t, mux, &memStore{token: "stale"}, 10)
	_, err := c.FetchParts(context.Background())

	var authErr *domain.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 1, loginCalls)
	assert.Equal(t, 2, listCalls)
}

func TestFetchLatestStockTransactionNilWhenNone(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		issueToken(w, "tok")
	})
	mux.HandleFunc("/api/v1/Inventory/StockTransactions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("$top"))
		assert.Equal(t, "Created desc", r.URL.Query().Get("$orderby"))
		writePage(w, []erpStockTransaction{})
	})

	c := testClient(t, mux, &memStore{}, 10)
	tx, err := c.FetchLatestStockTransaction(context.Background(), "p1")

	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestRemoteErrorCarriesStatusAndBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		issueToken(w, "tok")
	})
	mux.HandleFunc("/api/v1/Inventory/Parts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})

	c := testClient(t, mux, &memStore{}, 10)
	_, err := c.FetchParts(context.Background())

	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusBadGateway, remoteErr.StatusCode)
	assert.Contains(t, remoteErr.Body, "upstream unavailable")
}

func TestFetchPartsByNumbersBuildsDisjunction(t *testing.T) {
	var filter string
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		issueToken(w, "tok")
	})
	mux.HandleFunc("/api/v1/Inventory/Parts", func(w http.ResponseWriter, r *http.Request) {
		filter = r.URL.Query().Get("$filter")
		writePage(w, []erpPart{})
	})

	c := testClient(t, mux, &memStore{}, 10)
	_, err := c.FetchPartsByNumbers(context.Background(), []string{"A-1", "B-2"})

	require.NoError(t, err)
	assert.Contains(t, filter, "(PartNumber eq 'A-1' or PartNumber eq 'B-2')")
	assert.Contains(t, filter, activePartPredicate)
}
