// internal/mock/ledger.go
//
// Append-only wallet ledger. The balance is always the running sum of
// completed transaction amounts; withdrawals enter as pending negative
// amounts and settle on later ticks.

package mock

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/catalystgrid/catalyst/internal/api"
)

const walletCurrency = "CAT"

// settleAfterTicks is how many simulator ticks a pending withdrawal waits
// before resolving.
const settleAfterTicks = 3

type pendingEntry struct {
	txID      string
	ticksLeft int
}

// Ledger holds the wallet aggregate and its transaction history.
type Ledger struct {
	transactions []api.Transaction
	pending      []pendingEntry
}

// NewLedger starts an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Wallet computes the aggregate from the transaction history.
func (l *Ledger) Wallet() api.Wallet {
	w := api.Wallet{Currency: walletCurrency}
	for _, tx := range l.transactions {
		switch tx.Status {
		case api.TxCompleted:
			w.Balance += tx.Amount
			if tx.Amount > 0 {
				w.TotalEarnings += tx.Amount
			} else {
				w.TotalWithdrawals += -tx.Amount
			}
		case api.TxPending:
			w.PendingBalance += tx.Amount
		}
	}
	return w
}

// Transactions returns the history newest-first, optionally filtered by type.
func (l *Ledger) Transactions(filter api.TransactionFilter) api.Page[api.Transaction] {
	var out []api.Transaction
	for i := len(l.transactions) - 1; i >= 0; i-- {
		tx := l.transactions[i]
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		out = append(out, tx)
	}
	return api.NewPage(out, filter.Page, filter.Limit)
}

// Credit appends a completed positive entry (job reward, bonus).
func (l *Ledger) Credit(txType api.TransactionType, amount float64, description string, now time.Time) api.Transaction {
	completed := now
	tx := api.Transaction{
		ID:          uuid.NewString(),
		Type:        txType,
		Amount:      amount,
		Currency:    walletCurrency,
		Status:      api.TxCompleted,
		Description: description,
		CreatedAt:   now,
		CompletedAt: &completed,
	}
	l.transactions = append(l.transactions, tx)
	return tx
}

// Withdraw appends a pending negative entry. Amounts that are not positive
// or exceed the available balance are rejected with an API error carrying a
// descriptive message, matching what the real backend would send. Available
// means net of withdrawals still pending, so funds cannot be spent twice
// inside the settlement window.
func (l *Ledger) Withdraw(amount float64, address string, now time.Time) (api.Transaction, error) {
	if amount <= 0 {
		return api.Transaction{}, &api.Error{
			Status:  400,
			Code:    "INVALID_AMOUNT",
			Message: "withdrawal amount must be positive",
		}
	}
	w := l.Wallet()
	available := w.Balance + w.PendingBalance
	if amount > available {
		return api.Transaction{}, &api.Error{
			Status:  400,
			Code:    "INSUFFICIENT_BALANCE",
			Message: fmt.Sprintf("withdrawal of %.2f exceeds available balance %.2f", amount, available),
		}
	}
	tx := api.Transaction{
		ID:          uuid.NewString(),
		Type:        api.TxWithdrawal,
		Amount:      -amount,
		Currency:    walletCurrency,
		Status:      api.TxPending,
		Description: fmt.Sprintf("withdrawal to %s", address),
		CreatedAt:   now,
	}
	l.transactions = append(l.transactions, tx)
	l.pending = append(l.pending, pendingEntry{txID: tx.ID, ticksLeft: settleAfterTicks})
	return tx, nil
}

// Settle advances pending withdrawals by one tick. Due entries resolve to
// completed; failWithdrawals flips them to failed instead (used to exercise
// the failure path deterministically in tests).
func (l *Ledger) Settle(now time.Time, failWithdrawals bool) {
	var still []pendingEntry
	for _, p := range l.pending {
		p.ticksLeft--
		if p.ticksLeft > 0 {
			still = append(still, p)
			continue
		}
		for i := range l.transactions {
			if l.transactions[i].ID != p.txID {
				continue
			}
			completed := now
			if failWithdrawals {
				l.transactions[i].Status = api.TxFailed
			} else {
				l.transactions[i].Status = api.TxCompleted
			}
			l.transactions[i].CompletedAt = &completed
			break
		}
	}
	l.pending = still
}
