package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValueKinds(t *testing.T) {
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		value     Value
		kind      Kind
		absent    bool
		blank     bool
		rendering string
	}{
		{name: "absent", value: Absent(), kind: KindAbsent, absent: true, blank: true, rendering: ""},
		{name: "empty text", value: Text(""), kind: KindText, blank: true, rendering: ""},
		{name: "text", value: Text("PTP"), kind: KindText, rendering: "PTP"},
		{name: "number", value: Number(decimal.RequireFromString("1500.50")), kind: KindNumber, rendering: "1500.5"},
		{name: "date renders MM/DD/YYYY", value: Date(day), kind: KindDate, rendering: "01/05/2024"},
		{name: "zero date is absent", value: Date(time.Time{}), kind: KindAbsent, absent: true, blank: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.Equal(t, tt.absent, tt.value.IsAbsent())
			assert.Equal(t, tt.blank, tt.value.IsBlank())
			assert.Equal(t, tt.rendering, tt.value.String())
		})
	}
}

func TestValueAccessors(t *testing.T) {
	d, ok := Number(decimal.NewFromInt(7)).Decimal()
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(7)))

	_, ok = Text("7").Decimal()
	assert.False(t, ok)

	nd := Absent().NullDecimal()
	assert.False(t, nd.Valid)

	assert.True(t, Text("a").Equal(Text("a")))
	assert.False(t, Text("1").Equal(Number(decimal.NewFromInt(1))))
	assert.True(t, NumberOrAbsent(decimal.NullDecimal{}).IsAbsent())
}
