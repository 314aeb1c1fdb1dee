package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// === Authorization Metrics Tests ===

func TestAuthorizationDecisions_Labels(t *testing.T) {
	before := testutil.ToFloat64(AuthorizationDecisions.WithLabelValues("deny", "unresolved"))

	AuthorizationDecisions.WithLabelValues("allow", "system").Inc()
	AuthorizationDecisions.WithLabelValues("deny", "unresolved").Inc()

	after := testutil.ToFloat64(AuthorizationDecisions.WithLabelValues("deny", "unresolved"))
	if after != before+1 {
		t.Errorf("Expected deny/unresolved to increase by 1, got %f -> %f", before, after)
	}
}

func TestResourceResolutions_Labels(t *testing.T) {
	for _, result := range []string{"found", "not_found", "error"} {
		ResourceResolutions.WithLabelValues("Team", result).Inc()
	}
	if testutil.ToFloat64(ResourceResolutions.WithLabelValues("Team", "found")) < 1 {
		t.Error("Expected found counter to be incremented")
	}
}

// === Claims Metrics Tests ===

func TestClaimsCacheRequests_Labels(t *testing.T) {
	ClaimsCacheRequests.WithLabelValues("memory", "hit").Inc()
	ClaimsCacheRequests.WithLabelValues("memory", "miss").Add(2)

	if got := testutil.ToFloat64(ClaimsCacheRequests.WithLabelValues("memory", "miss")); got < 2 {
		t.Errorf("Expected at least 2 misses, got %f", got)
	}
}

func TestClaimsMaterializeDuration_Observe(t *testing.T) {
	for _, d := range []float64{0.001, 0.01, 0.1} {
		ClaimsMaterializeDuration.Observe(d)
	}
	if testutil.CollectAndCount(ClaimsMaterializeDuration) != 1 {
		t.Error("Expected a single histogram series")
	}
}

// === Naming Tests ===

func TestMetricNamingConvention(t *testing.T) {
	collectors := map[string]prometheus.Collector{
		"player_authorization_decisions_total":  AuthorizationDecisions,
		"player_claims_cache_requests_total":    ClaimsCacheRequests,
		"player_claims_evictions_total":         ClaimsEvictions,
		"player_events_dispatched_total":        EventsDispatched,
		"player_queue_messages_published_total": QueueMessagesPublished,
		"player_http_requests_total":            HTTPRequestsTotal,
	}

	for name, c := range collectors {
		ch := make(chan *prometheus.Desc, 1)
		c.Describe(ch)
		desc := (<-ch).String()
		if !strings.Contains(desc, `"`+name+`"`) {
			t.Errorf("Expected descriptor for %s, got %s", name, desc)
		}
	}
}
