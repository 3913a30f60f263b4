package model

import "testing"

func TestDescriptorLabel(t *testing.T) {
	var missing *Descriptor
	if got := missing.Label(); got != FallbackLabel {
		t.Fatalf("expected fallback for nil descriptor, got %q", got)
	}
	if got := (&Descriptor{}).Label(); got != FallbackLabel {
		t.Fatalf("expected fallback for empty name, got %q", got)
	}
	if got := (&Descriptor{Name: "Flour"}).Label(); got != "Flour" {
		t.Fatalf("expected name, got %q", got)
	}
}

func TestOrderNotesLabel(t *testing.T) {
	blank := "  "
	notes := "leave at back door"
	cases := []struct {
		name  string
		notes *string
		want  string
	}{
		{"nil", nil, NoNotesLabel},
		{"blank", &blank, NoNotesLabel},
		{"set", &notes, notes},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := (Order{Notes: tc.notes}).NotesLabel(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestOrderClaimState(t *testing.T) {
	d1 := "d1"
	cases := []struct {
		name       string
		order      Order
		unclaimed  bool
		acceptedD1 bool
	}{
		{"fresh", Order{}, true, false},
		{"accepted by d1", Order{DriverAccepted: true, AcceptedDriverID: &d1}, false, true},
		{"flag without driver", Order{DriverAccepted: true}, true, false},
		{"driver without flag", Order{AcceptedDriverID: &d1}, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.order.Unclaimed(); got != tc.unclaimed {
				t.Fatalf("unclaimed: expected %v, got %v", tc.unclaimed, got)
			}
			if got := tc.order.AcceptedBy("d1"); got != tc.acceptedD1 {
				t.Fatalf("accepted by d1: expected %v, got %v", tc.acceptedD1, got)
			}
		})
	}
}

func TestParseTab(t *testing.T) {
	cases := []struct {
		raw string
		tab Tab
		ok  bool
	}{
		{"pending", TabPending, true},
		{"accepted", TabAccepted, true},
		{"", "", false},
		{"ACCEPTED", "", false},
	}

	for _, tc := range cases {
		tab, ok := ParseTab(tc.raw)
		if tab != tc.tab || ok != tc.ok {
			t.Fatalf("ParseTab(%q) = %q, %v; expected %q, %v", tc.raw, tab, ok, tc.tab, tc.ok)
		}
	}
}
