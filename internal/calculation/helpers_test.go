package calculation

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/rpgo/roth-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

// defaultParams mirrors the calculator's default inputs.
func defaultParams() domain.SimulationParameters {
	return domain.SimulationParameters{
		Salary:         decimal.NewFromInt(250000),
		SalaryGrowth:   decimal.NewFromFloat(0.03),
		RetirementAge:  65,
		StartAge:       49,
		EndAge:         100,
		CAGR:           decimal.NewFromFloat(0.10),
		InitialCapital: decimal.NewFromInt(1000000),
		InflationRate:  decimal.NewFromFloat(0.025),
		CapitalGains:   decimal.Zero,
	}
}

// assertRelClose fails when got differs from want by more than tol relative error.
func assertRelClose(t *testing.T, want float64, got decimal.Decimal, tol float64, msgAndArgs ...any) {
	t.Helper()
	g := got.InexactFloat64()
	denom := math.Max(math.Abs(want), 1)
	if math.Abs(g-want)/denom > tol {
		msg := ""
		if len(msgAndArgs) > 0 {
			msg = fmt.Sprintf(msgAndArgs[0].(string), msgAndArgs[1:]...)
		}
		t.Fatalf("%s: want %.10f, got %s (relative error %.3g)", msg, want, got.StringFixed(10), math.Abs(g-want)/denom)
	}
}

// recordingLogger captures formatted log lines for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) add(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, level+": "+fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Debugf(format string, args ...any) { r.add("debug", format, args...) }
func (r *recordingLogger) Infof(format string, args ...any)  { r.add("info", format, args...) }
func (r *recordingLogger) Warnf(format string, args ...any)  { r.add("warn", format, args...) }
func (r *recordingLogger) Errorf(format string, args ...any) { r.add("error", format, args...) }
