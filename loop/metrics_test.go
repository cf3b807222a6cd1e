package loop

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Registration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveStep(2*time.Millisecond, nil)
	m.HostFault("js_stdout", nil)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Panics(t, func() { NewMetrics(reg) }, "duplicate registration")
}

func TestMetrics_HostFaults(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.HostFault("js_stdout", nil)
	m.HostFault("js_stdout", nil)
	m.HostFault("js_console_log", nil)

	expected := `
# HELP doom_host_faults_total Total number of host function calls that could not complete
# TYPE doom_host_faults_total counter
doom_host_faults_total{function="js_console_log"} 1
doom_host_faults_total{function="js_stdout"} 2
`
	assert.NoError(t, testutil.CollectAndCompare(m.hostFaults, strings.NewReader(expected)))
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStep(time.Millisecond, nil)
		m.HostFault("js_stdout", nil)
	})
}
