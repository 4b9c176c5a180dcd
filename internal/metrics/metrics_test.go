package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestMetricType(t *testing.T) {
	tests := []struct {
		name       string
		metricType MetricType
		expected   string
	}{
		{"counter type", TypeCounter, "counter"},
		{"gauge type", TypeGauge, "gauge"},
		{"histogram type", TypeHistogram, "histogram"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.metricType) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.metricType))
			}
		})
	}
}

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()

	if registry == nil {
		t.Fatal("Registry should not be nil")
	}
	if !registry.IsEnabled() {
		t.Error("Registry should be enabled by default")
	}
	if registry.metrics == nil {
		t.Error("Metrics map should be initialized")
	}
}

func TestRegistryEnableDisable(t *testing.T) {
	registry := NewRegistry()

	t.Run("default enabled", func(t *testing.T) {
		if !registry.IsEnabled() {
			t.Error("Registry should be enabled by default")
		}
	})

	t.Run("disable", func(t *testing.T) {
		registry.SetEnabled(false)
		if registry.IsEnabled() {
			t.Error("Registry should be disabled")
		}
	})

	t.Run("enable", func(t *testing.T) {
		registry.SetEnabled(true)
		if !registry.IsEnabled() {
			t.Error("Registry should be enabled")
		}
	})
}

func TestCounter(t *testing.T) {
	registry := NewRegistry()

	t.Run("increment counter", func(t *testing.T) {
		labels := Labels{"tool": "dig"}
		registry.Counter("test_counter", labels)

		metrics := registry.GetMetrics()
		if len(metrics) != 1 {
			t.Errorf("Expected 1 metric, got %d", len(metrics))
		}

		for _, metric := range metrics {
			if metric.Name != "test_counter" {
				t.Errorf("Expected name 'test_counter', got '%s'", metric.Name)
			}
			if metric.Type != TypeCounter {
				t.Errorf("Expected type %s, got %s", TypeCounter, metric.Type)
			}
			if metric.Value != 1 {
				t.Errorf("Expected value 1, got %f", metric.Value)
			}
		}
	})

	t.Run("multiple increments", func(t *testing.T) {
		registry.Reset()
		labels := Labels{"tool": "dig"}

		registry.Counter("test_counter", labels)
		registry.Counter("test_counter", labels)
		registry.Counter("test_counter", labels)

		metrics := registry.GetMetrics()
		for _, metric := range metrics {
			if metric.Value != 3 {
				t.Errorf("Expected value 3, got %f", metric.Value)
			}
		}
	})

	t.Run("different labels create different metrics", func(t *testing.T) {
		registry.Reset()

		registry.Counter("test_counter", Labels{"tool": "dig"})
		registry.Counter("test_counter", Labels{"tool": "nmap"})

		metrics := registry.GetMetrics()
		if len(metrics) != 2 {
			t.Errorf("Expected 2 metrics, got %d", len(metrics))
		}
	})

	t.Run("disabled registry", func(t *testing.T) {
		registry.Reset()
		registry.SetEnabled(false)

		registry.Counter("test_counter", nil)

		metrics := registry.GetMetrics()
		if len(metrics) != 0 {
			t.Errorf("Expected 0 metrics when disabled, got %d", len(metrics))
		}
	})
}

func TestGauge(t *testing.T) {
	registry := NewRegistry()

	t.Run("set gauge value", func(t *testing.T) {
		labels := Labels{"kind": "subdomain"}
		registry.Gauge("test_gauge", 42.5, labels)

		metrics := registry.GetMetrics()
		if len(metrics) != 1 {
			t.Errorf("Expected 1 metric, got %d", len(metrics))
		}

		for _, metric := range metrics {
			if metric.Name != "test_gauge" {
				t.Errorf("Expected name 'test_gauge', got '%s'", metric.Name)
			}
			if metric.Type != TypeGauge {
				t.Errorf("Expected type %s, got %s", TypeGauge, metric.Type)
			}
			if metric.Value != 42.5 {
				t.Errorf("Expected value 42.5, got %f", metric.Value)
			}
		}
	})

	t.Run("overwrite gauge value", func(t *testing.T) {
		registry.Reset()

		registry.Gauge("test_gauge", 10, nil)
		registry.Gauge("test_gauge", 20, nil)

		metrics := registry.GetMetrics()
		if len(metrics) != 1 {
			t.Errorf("Expected 1 metric, got %d", len(metrics))
		}
		for _, metric := range metrics {
			if metric.Value != 20 {
				t.Errorf("Expected value 20, got %f", metric.Value)
			}
		}
	})

	t.Run("disabled registry", func(t *testing.T) {
		registry.Reset()
		registry.SetEnabled(false)

		registry.Gauge("test_gauge", 5, nil)

		metrics := registry.GetMetrics()
		if len(metrics) != 0 {
			t.Errorf("Expected 0 metrics when disabled, got %d", len(metrics))
		}
		registry.SetEnabled(true)
	})
}

func TestHistogram(t *testing.T) {
	registry := NewRegistry()

	t.Run("record histogram value", func(t *testing.T) {
		labels := Labels{"tool": "curl"}
		registry.Histogram("test_histogram", 1.25, labels)

		metrics := registry.GetMetrics()
		if len(metrics) != 1 {
			t.Errorf("Expected 1 metric, got %d", len(metrics))
		}

		for _, metric := range metrics {
			if metric.Type != TypeHistogram {
				t.Errorf("Expected type %s, got %s", TypeHistogram, metric.Type)
			}
			if metric.Value != 1.25 {
				t.Errorf("Expected value 1.25, got %f", metric.Value)
			}
		}
	})

	t.Run("histogram tracks last value", func(t *testing.T) {
		registry.Reset()

		registry.Histogram("test_histogram", 1.0, nil)
		registry.Histogram("test_histogram", 2.0, nil)

		metrics := registry.GetMetrics()
		for _, metric := range metrics {
			if metric.Value != 2.0 {
				t.Errorf("Expected last value 2.0, got %f", metric.Value)
			}
		}
	})

	t.Run("disabled registry", func(t *testing.T) {
		registry.Reset()
		registry.SetEnabled(false)

		registry.Histogram("test_histogram", 1.0, nil)

		metrics := registry.GetMetrics()
		if len(metrics) != 0 {
			t.Errorf("Expected 0 metrics when disabled, got %d", len(metrics))
		}
	})
}

func TestGetMetrics(t *testing.T) {
	registry := NewRegistry()

	t.Run("returns copies", func(t *testing.T) {
		labels := Labels{"tool": "whois"}
		registry.Counter("test_counter", labels)

		metrics1 := registry.GetMetrics()
		metrics2 := registry.GetMetrics()

		// Mutating one snapshot should not affect the other
		for _, metric := range metrics1 {
			metric.Value = 999
			metric.Labels["tool"] = "mutated"
		}

		for _, metric := range metrics2 {
			if metric.Value == 999 {
				t.Error("GetMetrics should return copies, not references")
			}
			if metric.Labels["tool"] == "mutated" {
				t.Error("GetMetrics should copy labels")
			}
		}
	})

	t.Run("empty registry", func(t *testing.T) {
		registry.Reset()
		metrics := registry.GetMetrics()
		if len(metrics) != 0 {
			t.Errorf("Expected empty metrics, got %d", len(metrics))
		}
	})
}

func TestReset(t *testing.T) {
	registry := NewRegistry()

	registry.Counter("counter1", nil)
	registry.Gauge("gauge1", 1.0, nil)
	registry.Histogram("histogram1", 2.0, nil)

	if len(registry.GetMetrics()) != 3 {
		t.Errorf("Expected 3 metrics before reset")
	}

	registry.Reset()

	if len(registry.GetMetrics()) != 0 {
		t.Errorf("Expected 0 metrics after reset")
	}
}

func TestConcurrentAccess(t *testing.T) {
	registry := NewRegistry()
	var wg sync.WaitGroup

	// Concurrent counters
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				registry.Counter("concurrent_counter", Labels{"tool": "dig"})
			}
		}()
	}

	// Concurrent gauges
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(val int) {
			defer wg.Done()
			registry.Gauge("concurrent_gauge", float64(val), nil)
		}(i)
	}

	// Concurrent reads
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = registry.GetMetrics()
		}()
	}

	wg.Wait()

	metrics := registry.GetMetrics()
	found := false
	for _, metric := range metrics {
		if metric.Name == "concurrent_counter" {
			found = true
			if metric.Value != 1000 {
				t.Errorf("Expected counter value 1000, got %f", metric.Value)
			}
		}
	}
	if !found {
		t.Error("Expected to find concurrent_counter")
	}
}

func TestMakeKey(t *testing.T) {
	registry := NewRegistry()

	t.Run("no labels", func(t *testing.T) {
		key := registry.makeKey("metric_name", nil)
		if key != "metric_name" {
			t.Errorf("Expected 'metric_name', got '%s'", key)
		}
	})

	t.Run("empty labels", func(t *testing.T) {
		key := registry.makeKey("metric_name", Labels{})
		if key != "metric_name" {
			t.Errorf("Expected 'metric_name', got '%s'", key)
		}
	})

	t.Run("with labels", func(t *testing.T) {
		key := registry.makeKey("metric_name", Labels{"tool": "dig"})
		if !strings.HasPrefix(key, "metric_name") {
			t.Errorf("Key should start with metric name, got '%s'", key)
		}
		if !strings.Contains(key, "tool=dig") {
			t.Errorf("Key should contain label, got '%s'", key)
		}
	})
}

func TestCopyLabels(t *testing.T) {
	t.Run("nil labels", func(t *testing.T) {
		if copyLabels(nil) != nil {
			t.Error("Copy of nil labels should be nil")
		}
	})

	t.Run("copy is independent", func(t *testing.T) {
		original := Labels{"tool": "nmap"}
		copied := copyLabels(original)

		copied["tool"] = "changed"

		if original["tool"] != "nmap" {
			t.Error("Original labels should be unchanged")
		}
	})
}

func TestTimer(t *testing.T) {
	// Save original registry
	originalRegistry := Default()
	defer SetDefault(originalRegistry)

	testRegistry := NewRegistry()
	SetDefault(testRegistry)

	timer := NewTimer("test_duration", Labels{"tool": "ping"})
	time.Sleep(10 * time.Millisecond)
	timer.Stop()

	metrics := GetMetrics()
	if len(metrics) != 1 {
		t.Fatalf("Expected 1 metric, got %d", len(metrics))
	}

	for _, metric := range metrics {
		if metric.Type != TypeHistogram {
			t.Errorf("Timer should record a histogram, got %s", metric.Type)
		}
		if metric.Value < 0.01 {
			t.Errorf("Expected duration >= 0.01s, got %f", metric.Value)
		}
	}
}

func TestGlobalRegistry(t *testing.T) {
	// Save original registry
	originalRegistry := Default()
	defer SetDefault(originalRegistry)

	t.Run("default registry exists", func(t *testing.T) {
		if Default() == nil {
			t.Fatal("Default registry should not be nil")
		}
	})

	t.Run("set default", func(t *testing.T) {
		custom := NewRegistry()
		SetDefault(custom)
		if Default() != custom {
			t.Error("Default should return the custom registry")
		}
	})

	t.Run("package level functions", func(t *testing.T) {
		testRegistry := NewRegistry()
		SetDefault(testRegistry)

		Counter("global_counter", nil)
		Gauge("global_gauge", 7, nil)
		Histogram("global_histogram", 0.5, nil)

		metrics := GetMetrics()
		if len(metrics) != 3 {
			t.Errorf("Expected 3 metrics, got %d", len(metrics))
		}

		Reset()
		if len(GetMetrics()) != 0 {
			t.Error("Reset should clear all metrics")
		}
	})
}

func TestHelperFunctions(t *testing.T) {
	// Save original registry
	originalRegistry := Default()
	defer SetDefault(originalRegistry)

	// Create test registry
	testRegistry := NewRegistry()
	SetDefault(testRegistry)

	t.Run("RecordToolRunDuration", func(t *testing.T) {
		Reset()
		duration := 2500 * time.Millisecond
		RecordToolRunDuration("dig", "example.com", duration)

		metrics := GetMetrics()
		if len(metrics) != 1 {
			t.Errorf("Expected 1 metric, got %d", len(metrics))
		}

		for _, metric := range metrics {
			if metric.Name != MetricToolRunDuration {
				t.Errorf("Expected name '%s', got '%s'", MetricToolRunDuration, metric.Name)
			}
			if metric.Value != 2.5 {
				t.Errorf("Expected value 2.5, got %f", metric.Value)
			}
			if metric.Labels[LabelTool] != "dig" {
				t.Errorf("Expected tool 'dig', got '%s'", metric.Labels[LabelTool])
			}
			if metric.Labels[LabelTarget] != "example.com" {
				t.Errorf("Expected target 'example.com', got '%s'", metric.Labels[LabelTarget])
			}
		}
	})

	t.Run("IncrementToolRuns", func(t *testing.T) {
		Reset()
		IncrementToolRuns("whois", "success")
		IncrementToolRuns("whois", "success")

		metrics := GetMetrics()
		if len(metrics) == 0 {
			t.Fatal("Expected at least 1 metric, got 0")
		}

		found := false
		for _, metric := range metrics {
			if metric.Name == MetricToolRuns {
				found = true
				if metric.Value != 2 {
					t.Errorf("Expected value 2, got %f", metric.Value)
				}
				if metric.Labels[LabelTool] != "whois" {
					t.Errorf("Expected tool 'whois', got '%s'", metric.Labels[LabelTool])
				}
				if metric.Labels[LabelStatus] != "success" {
					t.Errorf("Expected status 'success', got '%s'", metric.Labels[LabelStatus])
				}
			}
		}
		if !found {
			t.Errorf("Expected to find metric with name '%s'", MetricToolRuns)
		}
	})

	t.Run("IncrementToolErrors", func(t *testing.T) {
		Reset()
		IncrementToolErrors("nmap", "10.0.0.5", "timeout")

		metrics := GetMetrics()
		for _, metric := range metrics {
			if metric.Name != MetricToolErrors {
				t.Errorf("Expected name '%s', got '%s'", MetricToolErrors, metric.Name)
			}
			if metric.Labels[LabelError] != "timeout" {
				t.Errorf("Expected error 'timeout', got '%s'", metric.Labels[LabelError])
			}
		}
	})

	t.Run("IncrementToolTimeouts", func(t *testing.T) {
		Reset()
		IncrementToolTimeouts("curl")
		IncrementToolTimeouts("curl")

		metrics := GetMetrics()
		for _, metric := range metrics {
			if metric.Name != MetricToolTimeouts {
				t.Errorf("Expected name '%s', got '%s'", MetricToolTimeouts, metric.Name)
			}
			if metric.Value != 2 {
				t.Errorf("Expected value 2, got %f", metric.Value)
			}
		}
	})

	t.Run("IncrementToolFallbacks", func(t *testing.T) {
		Reset()
		IncrementToolFallbacks("nmap")

		metrics := GetMetrics()
		for _, metric := range metrics {
			if metric.Name != MetricToolFallbacks {
				t.Errorf("Expected name '%s', got '%s'", MetricToolFallbacks, metric.Name)
			}
			if metric.Labels[LabelTool] != "nmap" {
				t.Errorf("Expected tool 'nmap', got '%s'", metric.Labels[LabelTool])
			}
		}
	})

	t.Run("RecordProbeDuration", func(t *testing.T) {
		Reset()
		RecordProbeDuration("subdomain", 1500*time.Millisecond)

		metrics := GetMetrics()
		for _, metric := range metrics {
			if metric.Name != MetricProbeDuration {
				t.Errorf("Expected name '%s', got '%s'", MetricProbeDuration, metric.Name)
			}
			if metric.Value != 1.5 {
				t.Errorf("Expected value 1.5, got %f", metric.Value)
			}
		}
	})

	t.Run("IncrementProbes", func(t *testing.T) {
		Reset()
		IncrementProbes("subdomain", "resolved", 3)

		metrics := GetMetrics()
		for _, metric := range metrics {
			if metric.Name != MetricProbesTotal {
				t.Errorf("Expected name '%s', got '%s'", MetricProbesTotal, metric.Name)
			}
			if metric.Value != 3 {
				t.Errorf("Expected value 3, got %f", metric.Value)
			}
		}
	})

	t.Run("IncrementBatches", func(t *testing.T) {
		Reset()
		IncrementBatches("social")
		IncrementBatches("social")

		metrics := GetMetrics()
		for _, metric := range metrics {
			if metric.Name != MetricBatchesTotal {
				t.Errorf("Expected name '%s', got '%s'", MetricBatchesTotal, metric.Name)
			}
			if metric.Value != 2 {
				t.Errorf("Expected value 2, got %f", metric.Value)
			}
			if metric.Labels[LabelKind] != "social" {
				t.Errorf("Expected kind 'social', got '%s'", metric.Labels[LabelKind])
			}
		}
	})
}

func TestMetricConstants(t *testing.T) {
	metricNames := []string{
		MetricToolRunDuration,
		MetricToolRuns,
		MetricToolErrors,
		MetricToolTimeouts,
		MetricToolFallbacks,
		MetricProbeDuration,
		MetricProbesTotal,
		MetricBatchesTotal,
		MetricMemoryUsage,
		MetricGoroutines,
		MetricUptime,
	}

	for _, name := range metricNames {
		if name == "" {
			t.Errorf("Metric name should not be empty")
		}
		if !strings.Contains(name, "_") {
			t.Errorf("Metric name '%s' should follow snake_case convention", name)
		}
	}

	labelKeys := []string{
		LabelTool,
		LabelTarget,
		LabelStatus,
		LabelError,
		LabelKind,
		LabelOperation,
		LabelComponent,
	}

	for _, key := range labelKeys {
		if key == "" {
			t.Errorf("Label key should not be empty")
		}
	}
}

func TestTimestamp(t *testing.T) {
	registry := NewRegistry()

	before := time.Now()
	registry.Counter("timestamped", nil)
	after := time.Now()

	for _, metric := range registry.GetMetrics() {
		if metric.Timestamp.Before(before) || metric.Timestamp.After(after) {
			t.Error("Metric timestamp should fall within the recording window")
		}
	}
}

func TestMetricUpdate(t *testing.T) {
	registry := NewRegistry()

	registry.Counter("updated", nil)
	first := registry.GetMetrics()

	time.Sleep(5 * time.Millisecond)
	registry.Counter("updated", nil)
	second := registry.GetMetrics()

	for key, metric := range second {
		if metric.Timestamp.Before(first[key].Timestamp) {
			t.Error("Timestamp should advance on update")
		}
		if metric.Value != 2 {
			t.Errorf("Expected value 2 after update, got %f", metric.Value)
		}
	}
}

func TestEdgeCases(t *testing.T) {
	registry := NewRegistry()

	t.Run("empty metric name", func(t *testing.T) {
		registry.Reset()
		registry.Counter("", nil)

		metrics := registry.GetMetrics()
		if len(metrics) != 1 {
			t.Errorf("Empty name should still be recorded, got %d metrics", len(metrics))
		}
	})

	t.Run("negative gauge", func(t *testing.T) {
		registry.Reset()
		registry.Gauge("negative", -10.5, nil)

		for _, metric := range registry.GetMetrics() {
			if metric.Value != -10.5 {
				t.Errorf("Expected -10.5, got %f", metric.Value)
			}
		}
	})

	t.Run("zero histogram value", func(t *testing.T) {
		registry.Reset()
		registry.Histogram("zero", 0, nil)

		metrics := registry.GetMetrics()
		if len(metrics) != 1 {
			t.Errorf("Zero value should still be recorded, got %d metrics", len(metrics))
		}
	})
}
