package internaldefs

import (
	"github.com/midroc-erp/authcore"
)

// CounterDef names one engine counter for exporters.
//
// CounterDef instances are configured at init and treated as immutable
// afterwards.
type CounterDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram for exporters.
type HistogramDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

// CounterDefs is the shared counter vocabulary for all exporters.
var CounterDefs = []CounterDef{
	{ID: authcore.MetricLoginSuccess, Name: "authcore_login_success_total", Help: "Successful login attempts."},
	{ID: authcore.MetricLoginFailure, Name: "authcore_login_failure_total", Help: "Failed login attempts."},
	{ID: authcore.MetricLoginRateLimited, Name: "authcore_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: authcore.MetricLoginPendingApproval, Name: "authcore_login_pending_approval_total", Help: "Logins refused because the account awaits approval."},
	{ID: authcore.MetricSignupSuccess, Name: "authcore_signup_success_total", Help: "Accepted signup requests."},
	{ID: authcore.MetricSignupDuplicate, Name: "authcore_signup_duplicate_total", Help: "Signup attempts rejected as duplicate email."},
	{ID: authcore.MetricSignupInvalid, Name: "authcore_signup_invalid_total", Help: "Signup attempts rejected by validation."},
	{ID: authcore.MetricIdentityApproved, Name: "authcore_identity_approved_total", Help: "Pending accounts approved."},
	{ID: authcore.MetricIdentityRejected, Name: "authcore_identity_rejected_total", Help: "Pending accounts rejected."},
	{ID: authcore.MetricIdentityCreated, Name: "authcore_identity_created_total", Help: "Accounts provisioned directly by an administrator."},
	{ID: authcore.MetricLogout, Name: "authcore_logout_total", Help: "Logout operations."},
	{ID: authcore.MetricSessionRestored, Name: "authcore_session_restored_total", Help: "Sessions restored after a restart."},
	{ID: authcore.MetricSessionRestoreInvalidated, Name: "authcore_session_restore_invalidated_total", Help: "Persisted sessions invalidated during restore revalidation."},
	{ID: authcore.MetricPermissionDenied, Name: "authcore_permission_denied_total", Help: "Privileged calls denied by the permission tables."},
	{ID: authcore.MetricTokenIssued, Name: "authcore_token_issued_total", Help: "Bearer tokens issued on login."},
}

// HistogramDefs is the shared histogram vocabulary for all exporters.
var HistogramDefs = []HistogramDef{
	{ID: authcore.MetricLoginLatency, Name: "authcore_login_latency_seconds", Help: "Login latency histogram."},
}

// HistogramBounds are the bucket upper bounds in seconds, Prometheus
// spelling.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with characters legal in
// OTel instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed
// eight-bucket layout.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form
// Prometheus histograms expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
