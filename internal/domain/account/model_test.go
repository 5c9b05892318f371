package account

import "testing"

func TestPlanAllowance(t *testing.T) {
	tests := []struct {
		name     string
		plan     Plan
		expected int
	}{
		{name: "free", plan: PlanFree, expected: 3},
		{name: "creator", plan: PlanCreator, expected: 30},
		{name: "pro", plan: PlanPro, expected: 9999},
		{name: "unknown fails closed", plan: Plan("enterprise"), expected: 0},
		{name: "empty fails closed", plan: Plan(""), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.plan.Allowance(); got != tt.expected {
				t.Errorf("Allowance(%q) = %d, want %d", tt.plan, got, tt.expected)
			}
		})
	}
}

func TestPlanValid(t *testing.T) {
	for _, p := range []Plan{PlanFree, PlanCreator, PlanPro} {
		if !p.Valid() {
			t.Errorf("Valid(%q) = false, want true", p)
		}
	}
	for _, p := range []Plan{"", "gold", "FREE"} {
		if p.Valid() {
			t.Errorf("Valid(%q) = true, want false", p)
		}
	}
}
