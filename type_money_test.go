package dues

import "testing"

func TestMoney_String(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
		abs    string
	}{
		{"23600", "INR", "₹23,600.00", "₹23,600.00"},
		{"-100", "", "-₹100.00", "₹100.00"},
		{"0", "INR", "₹0.00", "₹0.00"},
		{"1200.505", "USD", "$1,200.51", "$1,200.51"},
	}
	for _, tt := range tests {
		t.Run(tt.amount+tt.code, func(t *testing.T) {
			m := M(D(tt.amount), tt.code)
			if got := m.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := m.Abs().String(); got != tt.abs {
				t.Errorf("Abs().String() = %q, want %q", got, tt.abs)
			}
			if m.Currency() == "" {
				t.Error("Currency() is empty")
			}
		})
	}
}
