package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factorysim/pkg/application/dto"
)

func TestCollector_RecordTrial(t *testing.T) {
	c := NewCollector(false)

	c.RecordTrial("exhaustive", 2*time.Millisecond, nil)
	c.RecordTrial("exhaustive", 3*time.Millisecond, nil)
	c.RecordTrial("exhaustive", time.Millisecond, errors.New("deadlock"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.trialsTotal.WithLabelValues("exhaustive", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.trialsTotal.WithLabelValues("exhaustive", "failed")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.trialDurationSeconds))
}

func TestCollector_RecordOutcome(t *testing.T) {
	c := NewCollector(false)

	c.RecordOutcome(&dto.Outcome{
		Strategy:       "greedy",
		Income:         decimal.RequireFromString("420.5"),
		CompletionTime: 17,
		SkippedOrders:  []string{"S-1"},
	})
	c.RecordOutcome(nil)

	assert.Equal(t, 420.5, testutil.ToFloat64(c.bestIncome.WithLabelValues("greedy")))
	assert.Equal(t, 17.0, testutil.ToFloat64(c.completionTime.WithLabelValues("greedy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.skippedOrdersTotal.WithLabelValues("greedy")))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector(true)
	c.RecordTrial("greedy", time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "factorysim.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `factorysim_trials_total{status="ok",strategy="greedy"} 1`))
	assert.Contains(t, string(data), "go_goroutines")

	assert.Error(t, c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")))
}
