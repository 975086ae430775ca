// Package ledger keeps a project's budget, paid and pending totals consistent
// under every mutation, on top of an append-only payment history.
//
// All operations work on a Draft value and return a new Draft; nothing here
// touches the database or the HTTP layer. The projects service loads a Draft
// from the stored record, applies mutations, and saves the whole record back.
package ledger

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment modes. The set is open: stored entries may carry any string.
const (
	ModeUPI           = "UPI"
	ModeCash          = "Cash"
	ModeOnlineBanking = "Online Banking"
	ModeCheck         = "Check"
)

var (
	ErrLocked                = errors.New("ledger is locked: manual edits require unlock")
	ErrEntryNotFound         = errors.New("payment entry not found")
	ErrJustificationRequired = errors.New("override requires a justification")
)

// unlockActivations is the number of activations that flip a draft from
// Locked to Unlocked. The unlocked state is scoped to the draft; a freshly
// loaded draft is always locked.
const unlockActivations = 5

// Entry is one recorded payment against a project's budget.
// ID and Mode are immutable; Amount may change only through an unlocked
// amendment or an audited override.
type Entry struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   Date            `json:"date"`
	Mode   string          `json:"mode"`
}

// Draft is the in-memory editing state of a project's financials.
type Draft struct {
	Budget  decimal.Decimal
	Paid    decimal.Decimal
	Pending decimal.Decimal
	History []Entry

	activations int
	unlocked    bool
}

// NewDraft builds a draft from stored values and re-derives the totals, so a
// freshly opened project always satisfies the sum invariant (self-healing any
// drift from a partial write).
func NewDraft(budget, paid decimal.Decimal, history []Entry) Draft {
	d := Draft{Budget: budget, Paid: paid, History: history}
	return d.Derive()
}

// Derive re-establishes the derived totals. With a non-empty history the paid
// total is the sum of entry amounts, overriding any stale stored value; with
// no history the stored paid amount is the legacy manual value and is kept.
// Pending is always budget minus paid, negative when overpaid.
func (d Draft) Derive() Draft {
	if len(d.History) > 0 {
		d.Paid = sumEntries(d.History)
	}
	d.Pending = d.Budget.Sub(d.Paid)
	return d
}

// SetBudget replaces the budget from free-form input and recomputes pending.
// Non-numeric input coerces to zero; the operation always succeeds.
func (d Draft) SetBudget(raw string) Draft {
	d.Budget = ParseAmount(raw)
	d.Pending = d.Budget.Sub(d.Paid)
	return d
}

// RecordPayment appends a payment entry and recomputes the totals. A zero,
// negative or absent amount is a no-op: submitting an empty payment is
// rejected by design. The new entry is always the last element; dates are
// never used for ordering. A zero date defaults to today, an empty mode to UPI.
func (d Draft) RecordPayment(amount decimal.Decimal, date Date, mode string) Draft {
	if amount.Sign() <= 0 {
		return d
	}
	if date.IsZero() {
		date = Today()
	}
	if mode == "" {
		mode = ModeUPI
	}
	entry := Entry{ID: uuid.New().String(), Amount: amount, Date: date, Mode: mode}
	history := make([]Entry, 0, len(d.History)+1)
	history = append(history, d.History...)
	d.History = append(history, entry)
	d.Paid = sumEntries(d.History)
	d.Pending = d.Budget.Sub(d.Paid)
	return d
}

// Activate counts one unlock activation. Five activations flip the draft to
// unlocked; further activations are no-ops.
func (d Draft) Activate() Draft {
	if d.unlocked {
		return d
	}
	d.activations++
	if d.activations >= unlockActivations {
		d.unlocked = true
	}
	return d
}

// Unlocked reports whether manual edits are currently permitted.
func (d Draft) Unlocked() bool { return d.unlocked }

// AmendEntry changes the amount of an existing entry. Only permitted while
// unlocked; the paid and pending totals are recomputed immediately, so the
// sum invariant keeps holding — only the source of truth for the single
// entry's amount is relaxed.
func (d Draft) AmendEntry(id string, amount decimal.Decimal) (Draft, error) {
	if !d.unlocked {
		return d, ErrLocked
	}
	idx := -1
	for i := range d.History {
		if d.History[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return d, ErrEntryNotFound
	}
	history := make([]Entry, len(d.History))
	copy(history, d.History)
	history[idx].Amount = amount
	d.History = history
	d.Paid = sumEntries(d.History)
	d.Pending = d.Budget.Sub(d.Paid)
	return d, nil
}

// SetPaid directly overwrites the paid total from free-form input. Only
// permitted while unlocked. Pending is recomputed, but paid now diverges from
// the history sum until the next Derive silently overwrites it back — a known,
// accepted inconsistency window.
func (d Draft) SetPaid(raw string) (Draft, error) {
	if !d.unlocked {
		return d, ErrLocked
	}
	d.Paid = ParseAmount(raw)
	d.Pending = d.Budget.Sub(d.Paid)
	return d, nil
}

// Override is an explicit, audited correction of a normally-derived value.
// Exactly one of EntryID+Amount (amend one entry) or Paid (overwrite the paid
// total) applies; Justification is mandatory. Callers persist the override
// alongside an audit note.
type Override struct {
	EntryID       string
	Amount        string
	Paid          string
	Justification string
}

// ApplyOverride applies an audited override without going through the
// activation counter. It refuses blank justifications.
func (d Draft) ApplyOverride(o Override) (Draft, error) {
	if o.Justification == "" {
		return d, ErrJustificationRequired
	}
	unlocked := d
	unlocked.unlocked = true
	var out Draft
	var err error
	if o.EntryID != "" {
		out, err = unlocked.AmendEntry(o.EntryID, ParseAmount(o.Amount))
	} else {
		out, err = unlocked.SetPaid(o.Paid)
	}
	if err != nil {
		return d, err
	}
	out.unlocked = d.unlocked
	out.activations = d.activations
	return out, nil
}

func sumEntries(entries []Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// EncodeHistory serializes a payment history for the stored record.
// An empty history encodes as [] so legacy readers never see null.
func EncodeHistory(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}

// DecodeHistory parses a stored payment history. Null, empty, or absent
// history decodes to an empty slice (legacy pre-ledger records).
func DecodeHistory(raw []byte) ([]Entry, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []Entry{}, nil
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
