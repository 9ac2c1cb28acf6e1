package task

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func local(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.Local)
}

func counterIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func recurringTemplate(start, end time.Time, freq Frequency) Template {
	return Template{
		Name:        "Water plants",
		ScheduledAt: start,
		AlarmAt:     start,
		AlarmSound:  "bell",
		Recurring:   &Recurring{EndDate: end, Frequency: freq},
	}
}

func TestExpand_DailyWaterPlants(t *testing.T) {
	tpl := recurringTemplate(local(2024, 1, 1, 8, 0), local(2024, 1, 3, 0, 0), FrequencyDaily)

	got, err := Expand(tpl, "s1", counterIDs())
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, inst := range got {
		want := local(2024, 1, 1+i, 8, 0)
		assert.True(t, inst.ScheduledAt.Equal(want), "instance %d scheduled at %v", i, inst.ScheduledAt)
		assert.True(t, inst.AlarmAt.Equal(want), "instance %d alarm at %v", i, inst.AlarmAt)
		assert.Equal(t, "Water plants", inst.Name)
		assert.False(t, inst.Completed)
		require.NotNil(t, inst.Recurring)
		assert.Equal(t, FrequencyDaily, inst.Recurring.Frequency)
		assert.Equal(t, "s1", inst.SeriesID())
	}
}

func TestExpand_InstanceCount(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		freq  Frequency
		want  int
	}{
		{"daily single day", local(2024, 3, 10, 9, 0), local(2024, 3, 10, 0, 0), FrequencyDaily, 1},
		{"daily across month", local(2024, 1, 30, 9, 0), local(2024, 2, 2, 0, 0), FrequencyDaily, 4},
		{"weekly exact", local(2024, 1, 1, 9, 0), local(2024, 1, 29, 0, 0), FrequencyWeekly, 5},
		{"weekly partial", local(2024, 1, 1, 9, 0), local(2024, 1, 27, 0, 0), FrequencyWeekly, 4},
		{"monthly year", local(2024, 1, 15, 9, 0), local(2024, 12, 15, 0, 0), FrequencyMonthly, 12},
		{"monthly stops before day", local(2024, 1, 15, 9, 0), local(2024, 4, 14, 0, 0), FrequencyMonthly, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(recurringTemplate(tt.start, tt.end, tt.freq), "s", counterIDs())
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestExpand_IncludesEndDateLateInDay(t *testing.T) {
	tpl := recurringTemplate(local(2024, 5, 1, 23, 59), local(2024, 5, 2, 0, 0), FrequencyDaily)

	got, err := Expand(tpl, "s", counterIDs())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[1].ScheduledAt.Equal(local(2024, 5, 2, 23, 59)))
}

func TestExpand_StartAfterEndIsEmpty(t *testing.T) {
	tpl := recurringTemplate(local(2024, 2, 10, 8, 0), local(2024, 2, 9, 0, 0), FrequencyDaily)

	got, err := Expand(tpl, "s", counterIDs())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpand_MonthlyClampsToMonthEnd(t *testing.T) {
	tpl := recurringTemplate(local(2024, 1, 31, 7, 30), local(2024, 5, 31, 0, 0), FrequencyMonthly)

	got, err := Expand(tpl, "s", counterIDs())
	require.NoError(t, err)

	want := []time.Time{
		local(2024, 1, 31, 7, 30),
		local(2024, 2, 29, 7, 30),
		local(2024, 3, 31, 7, 30),
		local(2024, 4, 30, 7, 30),
		local(2024, 5, 31, 7, 30),
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, got[i].ScheduledAt.Equal(want[i]), "instance %d: got %v want %v", i, got[i].ScheduledAt, want[i])
	}
}

func TestExpand_MonthlyNonLeapFebruary(t *testing.T) {
	tpl := recurringTemplate(local(2023, 1, 31, 7, 30), local(2023, 2, 28, 0, 0), FrequencyMonthly)

	got, err := Expand(tpl, "s", counterIDs())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[1].ScheduledAt.Equal(local(2023, 2, 28, 7, 30)))
}

func TestExpand_AlarmKeepsClockTime(t *testing.T) {
	tpl := recurringTemplate(local(2024, 6, 1, 9, 0), local(2024, 6, 20, 0, 0), FrequencyWeekly)
	tpl.AlarmAt = local(2024, 5, 31, 20, 45)

	got, err := Expand(tpl, "s", counterIDs())
	require.NoError(t, err)
	require.NotEmpty(t, got)

	for _, inst := range got {
		assert.Equal(t, 20, inst.AlarmAt.Hour())
		assert.Equal(t, 45, inst.AlarmAt.Minute())
		assert.True(t, DateOf(inst.AlarmAt).Equal(DateOf(inst.ScheduledAt)))
	}
}

func TestExpand_DistinctIDs(t *testing.T) {
	tpl := recurringTemplate(local(2024, 1, 1, 8, 0), local(2024, 3, 1, 0, 0), FrequencyDaily)

	got, err := Expand(tpl, "s", counterIDs())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, inst := range got {
		assert.False(t, seen[inst.ID], "duplicate id %s", inst.ID)
		seen[inst.ID] = true
	}
}

func TestExpand_RepeatableExceptIDs(t *testing.T) {
	tpl := recurringTemplate(local(2024, 1, 1, 8, 0), local(2024, 1, 10, 0, 0), FrequencyDaily)

	first, err := Expand(tpl, "s", counterIDs())
	require.NoError(t, err)
	second, err := Expand(tpl, "s", func() string { return "other" })
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		a, b := first[i], second[i]
		a.ID, b.ID = "", ""
		assert.Equal(t, a, b)
	}
}

func TestExpand_TooManyInstances(t *testing.T) {
	tpl := recurringTemplate(local(2000, 1, 1, 8, 0), local(2030, 1, 1, 0, 0), FrequencyDaily)

	got, err := Expand(tpl, "s", counterIDs())
	assert.ErrorIs(t, err, ErrTooManyInstances)
	assert.Nil(t, got)
}

func TestExpand_RequiresRecurring(t *testing.T) {
	_, err := Expand(Template{Name: "x"}, "s", counterIDs())
	assert.ErrorIs(t, err, ErrNotRecurring)
}

func TestStep_Weekly(t *testing.T) {
	got := Step(local(2024, 12, 25, 10, 0), FrequencyWeekly, 2)
	assert.True(t, got.Equal(local(2025, 1, 8, 10, 0)))
}
