package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerExposesLedgerMetrics(t *testing.T) {
	BlocksMined.Inc()
	ChainLength.Set(3)
	ResolveTotal.WithLabelValues("kept").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	assert.Nil(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "ledger_blocks_mined_total")
	assert.Contains(t, string(body), "ledger_chain_length 3")
	assert.Contains(t, string(body), `ledger_resolve_total{outcome="kept"}`)
}
