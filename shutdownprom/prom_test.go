package shutdownprom

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evan-idocoding/onshutdown"
)

func TestObserver_RecordsDurationsPanicsAndErrors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	o, err := NewObserver(reg)
	require.NoError(t, err)

	runErr := onshutdown.RunErr(func(s *onshutdown.Scope) error {
		s.OnShutdown(func() {})
		s.OnShutdown(func() {}, onshutdown.WithName("flush"))
		s.OnShutdown(func() { panic("boom") }, onshutdown.WithName("flush"))
		s.OnShutdownErr(func() error { return errors.New("close") }, onshutdown.WithName("db"))
		return nil
	}, onshutdown.WithLogger(nil),
		onshutdown.WithObserver(o),
		onshutdown.WithPanicPolicy(onshutdown.RecoverAndReport),
		onshutdown.WithPanicHandler(func(context.Context, onshutdown.PanicInfo) {}),
	)
	require.Error(t, runErr)

	assert.Equal(t, 3, testutil.CollectAndCount(o.duration))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.panics.WithLabelValues("flush")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.errors.WithLabelValues("db")))

	expected := `
# HELP onshutdown_callback_panics_total Number of on shutdown callbacks that panicked.
# TYPE onshutdown_callback_panics_total counter
onshutdown_callback_panics_total{name="flush"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "onshutdown_callback_panics_total"))

	count, err := testutil.GatherAndCount(reg, "onshutdown_callback_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestObserver_UnnamedLabel(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	o, err := NewObserver(reg, WithNamespace("app"), WithBuckets([]float64{0.1, 1}))
	require.NoError(t, err)

	o.ObserveShutdown(onshutdown.Report{Panicked: true})
	assert.Equal(t, 1.0, testutil.ToFloat64(o.panics.WithLabelValues(unnamedLabel)))

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "app_callback_duration_seconds")
}

func TestNewObserver_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewObserver(reg)
	require.NoError(t, err)

	_, err = NewObserver(reg)
	var are prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &are)
}
