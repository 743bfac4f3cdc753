package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestDecimalPgNumericRoundTrip(t *testing.T) {
	tests := []string{"0", "1", "12.50", "0.01", "99999999.99", "-5.25"}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			d := decimal.RequireFromString(raw)
			got := pgNumericToDecimal(decimalToPgNumeric(d))
			if !got.Equal(d) {
				t.Errorf("Expected %s, got %s", d.String(), got.String())
			}
		})
	}
}

func TestPgNumericToDecimal_Null(t *testing.T) {
	got := pgNumericToDecimal(pgtype.Numeric{})
	if !got.IsZero() {
		t.Errorf("Expected zero for NULL numeric, got %s", got.String())
	}
}

func TestDecimalToPgNumeric_PreservesScale(t *testing.T) {
	n := decimalToPgNumeric(decimal.RequireFromString("12.50"))
	if !n.Valid {
		t.Fatal("Expected a valid numeric")
	}
	if n.Exp != -2 {
		t.Errorf("Expected exponent -2, got %d", n.Exp)
	}
	if n.Int.Int64() != 1250 {
		t.Errorf("Expected coefficient 1250, got %s", n.Int.String())
	}
}
