package ledger

import (
	"testing"
	"time"

	"github.com/theirongolddev/purse/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buy(name string, price int64, day model.Day) model.Purchase {
	return model.Purchase{ID: name, Name: name, Price: decimal.NewFromInt(price), Date: day, Time: "10:00"}
}

func TestLedgerSums(t *testing.T) {
	jun1 := model.NewDay(2024, time.June, 1)
	jun2 := jun1.Next()
	l := NewLedger(Budget{Monthly: decimal.NewFromInt(150000), DailyLimit: decimal.NewFromInt(5000)}, []model.Purchase{
		buy("milk", 4000, jun1),
		buy("bread", 2000, jun2),
		buy("eggs", 500, jun1),
	})

	assert.True(t, l.Total().Equal(decimal.NewFromInt(6500)), "total = %s", l.Total())
	assert.True(t, l.SpentOn(jun1).Equal(decimal.NewFromInt(4500)))
	assert.True(t, l.RemainingDaily(jun1).Equal(decimal.NewFromInt(500)))
	assert.True(t, l.RemainingDaily(jun2).Equal(decimal.NewFromInt(3000)))
	assert.True(t, l.RemainingMonthly().Equal(decimal.NewFromInt(143500)))
	assert.Equal(t, 1, l.IndexOf("bread"))
	assert.Equal(t, -1, l.IndexOf("caviar"))
}

func TestLedgerRemainingMayGoNegative(t *testing.T) {
	day := model.NewDay(2024, time.June, 1)
	l := NewLedger(Budget{Monthly: decimal.NewFromInt(100), DailyLimit: decimal.NewFromInt(50)}, []model.Purchase{
		buy("tv", 300, day),
	})

	assert.True(t, l.RemainingMonthly().Equal(decimal.NewFromInt(-200)))
	assert.True(t, l.RemainingDaily(day).Equal(decimal.NewFromInt(-250)))
}

func TestLedgerMonths(t *testing.T) {
	l := NewLedger(Budget{}, []model.Purchase{
		buy("b", 200, model.NewDay(2024, time.July, 3)),
		buy("a", 100, model.NewDay(2024, time.June, 30)),
		buy("c", 50, model.NewDay(2024, time.July, 31)),
		buy("undated", 999, model.Day{}),
	})

	months := l.Months()
	require.Len(t, months, 2)
	assert.Equal(t, "2024-06-01", months[0].Month.String())
	assert.True(t, months[0].Spent.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 1, months[0].Entries)
	assert.Equal(t, "2024-07-01", months[1].Month.String())
	assert.True(t, months[1].Spent.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 2, months[1].Entries)
}

func TestLedgerRecordsIsACopy(t *testing.T) {
	l := NewLedger(Budget{}, []model.Purchase{buy("a", 1, model.Day{})})
	recs := l.Records()
	recs[0].Name = "mutated"

	got, ok := l.At(0)
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)

	_, ok = l.At(1)
	assert.False(t, ok)
	_, ok = l.At(-1)
	assert.False(t, ok)
}
