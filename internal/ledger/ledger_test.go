package ledger

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRecordPayment_SumInvariant(t *testing.T) {
	d := NewDraft(dec("50000"), decimal.Zero, nil)
	amounts := []string{"100.10", "250.25", "0.65", "9000"}
	for _, a := range amounts {
		d = d.RecordPayment(dec(a), Today(), ModeCash)
	}
	assert.True(t, d.Paid.Equal(dec("9351.00")), "paid = %s", d.Paid)
	assert.True(t, d.Pending.Equal(dec("40649.00")), "pending = %s", d.Pending)
	assert.Len(t, d.History, 4)
}

func TestRecordPayment_AppendOnlyInsertionOrder(t *testing.T) {
	d := NewDraft(dec("1000"), decimal.Zero, nil)
	// Later entry carries an earlier date; it must still land last.
	d = d.RecordPayment(dec("10"), MustParseDate("2024-06-01"), ModeUPI)
	d = d.RecordPayment(dec("20"), MustParseDate("2024-01-01"), ModeCheck)
	require.Len(t, d.History, 2)
	assert.Equal(t, "2024-06-01", d.History[0].Date.String())
	assert.Equal(t, "2024-01-01", d.History[1].Date.String())
	assert.NotEqual(t, d.History[0].ID, d.History[1].ID)
}

func TestRecordPayment_ZeroAmountIsNoop(t *testing.T) {
	d := NewDraft(dec("1000"), decimal.Zero, nil)
	d = d.RecordPayment(decimal.Zero, Today(), ModeUPI)
	d = d.RecordPayment(dec("-5"), Today(), ModeUPI)
	assert.Empty(t, d.History)
	assert.True(t, d.Paid.IsZero())
	assert.True(t, d.Pending.Equal(dec("1000")))
}

func TestRecordPayment_Defaults(t *testing.T) {
	d := NewDraft(dec("100"), decimal.Zero, nil)
	d = d.RecordPayment(dec("25"), Date{}, "")
	require.Len(t, d.History, 1)
	assert.Equal(t, Today().String(), d.History[0].Date.String())
	assert.Equal(t, ModeUPI, d.History[0].Mode)
}

func TestDerive_SelfHealsStalePaid(t *testing.T) {
	history := []Entry{
		{ID: "1", Amount: dec("100"), Date: MustParseDate("2024-01-10"), Mode: ModeUPI},
		{ID: "2", Amount: dec("250"), Date: MustParseDate("2024-02-10"), Mode: ModeCash},
	}
	d := NewDraft(dec("1000"), dec("999"), history)
	assert.True(t, d.Paid.Equal(dec("350")), "stale paid must be overwritten, got %s", d.Paid)
	assert.True(t, d.Pending.Equal(dec("650")))
}

func TestDerive_LegacyFallback(t *testing.T) {
	d := NewDraft(dec("2000"), dec("500"), nil)
	assert.True(t, d.Paid.Equal(dec("500")), "manual legacy paid must be kept")
	assert.True(t, d.Pending.Equal(dec("1500")))
}

func TestPending_NegativeWhenOverpaid(t *testing.T) {
	d := NewDraft(dec("100"), decimal.Zero, nil)
	d = d.RecordPayment(dec("150"), Today(), ModeCash)
	assert.True(t, d.Pending.Equal(dec("-50")), "overpayment is surfaced, not clamped")
}

func TestSetBudget_CoercesNonNumericToZero(t *testing.T) {
	d := NewDraft(dec("100"), decimal.Zero, nil)
	d = d.RecordPayment(dec("40"), Today(), ModeUPI)
	d = d.SetBudget("abc")
	assert.True(t, d.Budget.IsZero())
	assert.True(t, d.Pending.Equal(dec("-40")))
	d = d.SetBudget("")
	assert.True(t, d.Budget.IsZero())
	d = d.SetBudget(" 300.50 ")
	assert.True(t, d.Budget.Equal(dec("300.50")))
	assert.True(t, d.Pending.Equal(dec("260.50")))
}

func TestUnlock_ExactlyFiveActivations(t *testing.T) {
	d := NewDraft(dec("100"), decimal.Zero, nil)
	require.False(t, d.Unlocked(), "a freshly opened draft is always locked")
	for i := 0; i < 4; i++ {
		d = d.Activate()
		assert.False(t, d.Unlocked(), "activation %d must not unlock", i+1)
	}
	d = d.Activate()
	assert.True(t, d.Unlocked())
	d = d.Activate()
	assert.True(t, d.Unlocked(), "6th activation is a no-op")
}

func TestAmendEntry_RefusedWhileLocked(t *testing.T) {
	d := NewDraft(dec("100"), decimal.Zero, nil)
	d = d.RecordPayment(dec("40"), Today(), ModeUPI)
	_, err := d.AmendEntry(d.History[0].ID, dec("60"))
	assert.ErrorIs(t, err, ErrLocked)
	_, err = d.SetPaid("77")
	assert.ErrorIs(t, err, ErrLocked)
	// Original entry untouched.
	assert.True(t, d.History[0].Amount.Equal(dec("40")))
}

func TestAmendEntry_UnlockedRecomputesTotals(t *testing.T) {
	d := NewDraft(dec("1000"), decimal.Zero, nil)
	d = d.RecordPayment(dec("100"), Today(), ModeUPI)
	d = d.RecordPayment(dec("200"), Today(), ModeCash)
	for i := 0; i < 5; i++ {
		d = d.Activate()
	}
	amended, err := d.AmendEntry(d.History[0].ID, dec("150"))
	require.NoError(t, err)
	assert.True(t, amended.Paid.Equal(dec("350")))
	assert.True(t, amended.Pending.Equal(dec("650")))
	// The amendment must not leak into the prior draft value.
	assert.True(t, d.History[0].Amount.Equal(dec("100")))

	_, err = amended.AmendEntry("missing", dec("1"))
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestSetPaid_DivergesUntilNextDerive(t *testing.T) {
	d := NewDraft(dec("1000"), decimal.Zero, nil)
	d = d.RecordPayment(dec("300"), Today(), ModeUPI)
	for i := 0; i < 5; i++ {
		d = d.Activate()
	}
	d, err := d.SetPaid("500")
	require.NoError(t, err)
	assert.True(t, d.Paid.Equal(dec("500")))
	assert.True(t, d.Pending.Equal(dec("500")))
	// Reload: derive silently restores the history sum.
	d = d.Derive()
	assert.True(t, d.Paid.Equal(dec("300")))
	assert.True(t, d.Pending.Equal(dec("700")))
}

func TestApplyOverride(t *testing.T) {
	d := NewDraft(dec("1000"), decimal.Zero, nil)
	d = d.RecordPayment(dec("100"), Today(), ModeUPI)

	_, err := d.ApplyOverride(Override{EntryID: d.History[0].ID, Amount: "120"})
	assert.ErrorIs(t, err, ErrJustificationRequired)

	out, err := d.ApplyOverride(Override{
		EntryID:       d.History[0].ID,
		Amount:        "120",
		Justification: "correction: typo in entry amount",
	})
	require.NoError(t, err)
	assert.True(t, out.Paid.Equal(dec("120")))
	assert.False(t, out.Unlocked(), "override must not leave the draft unlocked")

	out, err = d.ApplyOverride(Override{Paid: "999", Justification: "migrated balance"})
	require.NoError(t, err)
	assert.True(t, out.Paid.Equal(dec("999")))
	assert.True(t, out.Pending.Equal(dec("1")))

	_, err = d.ApplyOverride(Override{EntryID: "missing", Amount: "1", Justification: "x"})
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestEndToEndScenario(t *testing.T) {
	d := NewDraft(dec("30000"), decimal.Zero, nil)
	d = d.RecordPayment(dec("9000"), MustParseDate("2024-01-10"), ModeUPI)
	d = d.RecordPayment(dec("9000"), MustParseDate("2024-02-10"), ModeCash)
	assert.True(t, d.Paid.Equal(dec("18000")))
	assert.True(t, d.Pending.Equal(dec("12000")))
	require.Len(t, d.History, 2)
	assert.Equal(t, ModeUPI, d.History[0].Mode)
	assert.Equal(t, ModeCash, d.History[1].Mode)
}

func TestHistoryRoundTrip(t *testing.T) {
	d := NewDraft(dec("30000"), decimal.Zero, nil)
	d = d.RecordPayment(dec("9000.50"), MustParseDate("2024-01-10"), ModeOnlineBanking)

	raw, err := EncodeHistory(d.History)
	require.NoError(t, err)
	// Amounts persist as bare numbers, dates as ISO calendar strings.
	assert.Contains(t, string(raw), `"amount":9000.5`)
	assert.Contains(t, string(raw), `"date":"2024-01-10"`)

	back, err := DecodeHistory(raw)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.True(t, back[0].Amount.Equal(dec("9000.50")))
	assert.Equal(t, ModeOnlineBanking, back[0].Mode)

	empty, err := DecodeHistory(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	empty, err = DecodeHistory([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, empty)

	raw, err = EncodeHistory(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"":       "0",
		"abc":    "0",
		"12,50":  "0",
		"42":     "42",
		" 42.5 ": "42.5",
		"-3":     "-3",
	}
	for in, want := range cases {
		assert.True(t, ParseAmount(in).Equal(dec(want)), "ParseAmount(%q)", in)
	}
}

func TestEntryJSONShape(t *testing.T) {
	e := Entry{ID: "abc", Amount: dec("150"), Date: MustParseDate("2024-03-05"), Mode: ModeCheck}
	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","amount":150,"date":"2024-03-05","mode":"Check"}`, string(raw))
}
