package domain

import "testing"

func TestDeriveDeviceFingerprintDeterministic(t *testing.T) {
	a := DeriveDeviceFingerprint("Mozilla/5.0", "en-US", "gzip", "text/html")
	b := DeriveDeviceFingerprint("Mozilla/5.0", "en-US", "gzip", "text/html")
	if a == "" {
		t.Fatalf("expected non-empty fingerprint")
	}
	if a != b {
		t.Fatalf("identical headers must produce identical fingerprints, got %s vs %s", a, b)
	}
	c := DeriveDeviceFingerprint("Mozilla/5.0", "de-DE", "gzip", "text/html")
	if a == c {
		t.Fatalf("different headers should produce different fingerprints")
	}
}

func TestAssessReferralRiskIPMatch(t *testing.T) {
	logs := []FraudLogEntry{{UserID: "referrer", IPAddress: "1.2.3.4", DeviceFingerprint: "dev-ref"}}
	signup := &FraudLogEntry{UserID: "referred", IPAddress: "1.2.3.4", DeviceFingerprint: "dev-other"}

	out := AssessReferralRisk(logs, signup, "1.2.3.4", "dev-other")
	if !out.Fraudulent {
		t.Fatalf("expected fraudulent on shared IP")
	}
	if out.Reason != "IP address match between referrer and referred user" {
		t.Fatalf("unexpected reason: %s", out.Reason)
	}
}

func TestAssessReferralRiskIPWinsOverDevice(t *testing.T) {
	logs := []FraudLogEntry{{UserID: "referrer", IPAddress: "1.2.3.4", DeviceFingerprint: "dev-shared"}}
	signup := &FraudLogEntry{UserID: "referred", IPAddress: "1.2.3.4", DeviceFingerprint: "dev-shared"}

	out := AssessReferralRisk(logs, signup, "1.2.3.4", "dev-shared")
	if !out.Fraudulent {
		t.Fatalf("expected fraudulent")
	}
	if out.Reason != "IP address match between referrer and referred user" {
		t.Fatalf("IP rule should take precedence, got reason: %s", out.Reason)
	}
}

func TestAssessReferralRiskDeviceMatch(t *testing.T) {
	logs := []FraudLogEntry{{UserID: "referrer", IPAddress: "10.0.0.1", DeviceFingerprint: "dev-xyz"}}
	signup := &FraudLogEntry{UserID: "referred", IPAddress: "10.0.0.2", DeviceFingerprint: "dev-xyz"}

	out := AssessReferralRisk(logs, signup, "10.0.0.2", "dev-xyz")
	if !out.Fraudulent {
		t.Fatalf("expected fraudulent on shared device fingerprint")
	}
	if out.Reason != "device fingerprint match between referrer and referred user" {
		t.Fatalf("unexpected reason: %s", out.Reason)
	}
}

func TestAssessReferralRiskDeviceFallbackToCurrent(t *testing.T) {
	logs := []FraudLogEntry{{UserID: "referrer", IPAddress: "10.0.0.1", DeviceFingerprint: "dev-xyz"}}
	signup := &FraudLogEntry{UserID: "referred", IPAddress: "10.0.0.2"}

	out := AssessReferralRisk(logs, signup, "10.0.0.2", "dev-xyz")
	if !out.Fraudulent {
		t.Fatalf("expected fallback to the current request fingerprint")
	}
}

func TestAssessReferralRiskDisjoint(t *testing.T) {
	logs := []FraudLogEntry{{UserID: "referrer", IPAddress: "10.0.0.1", DeviceFingerprint: "dev-a"}}
	signup := &FraudLogEntry{UserID: "referred", IPAddress: "10.0.0.2", DeviceFingerprint: "dev-b"}

	if out := AssessReferralRisk(logs, signup, "10.0.0.2", "dev-b"); out.Fraudulent {
		t.Fatalf("disjoint IPs and fingerprints must not be fraudulent, reason: %s", out.Reason)
	}
}

func TestAssessReferralRiskMissingDataFailsOpen(t *testing.T) {
	logs := []FraudLogEntry{{UserID: "referrer", IPAddress: "10.0.0.1", DeviceFingerprint: "dev-a"}}

	if out := AssessReferralRisk(logs, nil, "10.0.0.1", "dev-a"); out.Fraudulent {
		t.Fatalf("missing referred signup log must not be fraudulent")
	}
	signup := &FraudLogEntry{UserID: "referred", IPAddress: "10.0.0.1", DeviceFingerprint: "dev-a"}
	if out := AssessReferralRisk(nil, signup, "10.0.0.1", "dev-a"); out.Fraudulent {
		t.Fatalf("missing referrer history must not be fraudulent")
	}
}
