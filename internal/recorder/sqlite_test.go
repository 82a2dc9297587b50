package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NiftySentinel/internal/model"
)

func TestSQLiteRecorder_RecordEvaluation(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer rec.Close()

	ev := &model.Evaluation{
		ID:      uuid.NewString(),
		RuleSet: "v4",
		Verdict: model.Verdict{
			Label:     "EXTREME CAUTION (Fear High)",
			Severity:  model.SeverityBearish,
			Rationale: "India VIX spiked to 18.00 (+6.00%). Fear is high, market may crash.",
			Rule:      "vix_panic",
		},
		Gap:         model.GapMetrics{Points: 0, Percent: 0, Quote: 24100, PriorClose: 24100},
		QuoteSource: model.QuoteFallback,
		Changes:     model.ChangeMap{model.SymbolIndiaVIX: 6, model.SymbolNifty: 0.4},
		Prices:      model.PriceMap{model.SymbolIndiaVIX: 18, model.SymbolNifty: 24100},
		Technicals: model.TechnicalSet{
			{Symbol: model.SymbolNifty, Indicator: model.IndicatorRSI14}:  model.Computed(61.2),
			{Symbol: model.SymbolNifty, Indicator: model.IndicatorSMA200}: model.NotComputed,
		},
		EvaluatedAt: time.Now(),
	}
	require.NoError(t, rec.RecordEvaluation(ev))

	var label, source string
	var gap float64
	require.NoError(t, rec.db.QueryRow(`SELECT label, quote_source, gap_points FROM evaluations WHERE id = ?`, ev.ID).
		Scan(&label, &source, &gap))
	assert.Equal(t, ev.Verdict.Label, label)
	assert.Equal(t, "fallback", source)
	assert.Zero(t, gap)

	var signals int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM evaluation_signals WHERE evaluation_id = ?`, ev.ID).Scan(&signals))
	assert.Equal(t, 2, signals)

	var nulls int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM evaluation_technicals WHERE evaluation_id = ? AND value IS NULL`, ev.ID).Scan(&nulls))
	assert.Equal(t, 1, nulls)

	// Same ID twice violates the primary key and leaves no partial rows.
	assert.Error(t, rec.RecordEvaluation(ev))
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM evaluation_signals WHERE evaluation_id = ?`, ev.ID).Scan(&signals))
	assert.Equal(t, 2, signals)
}

func TestNoopRecorder(t *testing.T) {
	r := NewNoopRecorder()
	assert.NoError(t, r.RecordEvaluation(&model.Evaluation{}))
	assert.NoError(t, r.Close())
}
