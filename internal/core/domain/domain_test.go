package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smb-finance-backend/pkg/money"
)

func amt(t *testing.T, s string) money.Money {
	t.Helper()
	m, err := money.FromString(s)
	require.NoError(t, err)
	return m
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ==================== Wallet / Transaction ====================

func TestWallet_ApplyEntry_CreditAndDebit(t *testing.T) {
	w := &Wallet{ID: uuid.New(), BusinessID: uuid.New(), Currency: "USD", IsActive: true}

	tx1 := w.ApplyEntry(amt(t, "100.00"), "initial funding", TransactionTypeCredit)
	assert.Equal(t, "100", w.Balance.String())
	assert.True(t, tx1.BalanceAfter.Equal(w.Balance))
	assert.Equal(t, TransactionTypeCredit, tx1.Type)

	tx2 := w.ApplyEntry(amt(t, "30.50"), "supplies", TransactionTypeDebit)
	assert.Equal(t, "69.5", w.Balance.String())
	assert.True(t, tx2.BalanceAfter.Equal(w.Balance))
	assert.True(t, tx2.SignedAmount().IsNegative())
}

func TestWallet_ApplyEntry_DebitMayOverdraw(t *testing.T) {
	w := &Wallet{ID: uuid.New(), Currency: "USD", IsActive: true}

	tx := w.ApplyEntry(amt(t, "25.00"), "overdraft", TransactionTypeDebit)
	assert.Equal(t, "-25", w.Balance.String())
	assert.True(t, tx.BalanceAfter.IsNegative())
}

func TestWallet_ReplayReproducesBalanceAfter(t *testing.T) {
	w := &Wallet{ID: uuid.New(), Currency: "USD", IsActive: true}

	entries := []struct {
		amount string
		kind   TransactionType
	}{
		{"10.01", TransactionTypeCredit},
		{"0.02", TransactionTypeDebit},
		{"99.99", TransactionTypeCredit},
		{"110.00", TransactionTypeDebit},
		{"0.03", TransactionTypeCredit},
	}

	var history []*Transaction
	for _, e := range entries {
		history = append(history, w.ApplyEntry(amt(t, e.amount), "entry", e.kind))
	}

	running := money.Zero
	for _, tx := range history {
		running = running.Add(tx.SignedAmount())
		assert.True(t, running.Equal(tx.BalanceAfter),
			"replayed balance %s != recorded balance-after %s", running, tx.BalanceAfter)
	}
	assert.True(t, running.Equal(w.Balance))
}

func TestTransaction_IsTransferLeg(t *testing.T) {
	related := uuid.New()
	leg := &Transaction{RelatedTransactionID: &related}
	plain := &Transaction{}

	assert.True(t, leg.IsTransferLeg())
	assert.False(t, plain.IsTransferLeg())
}

// ==================== Payroll ====================

func TestPayroll_Process_ComputesPay(t *testing.T) {
	p := &Payroll{
		ID:              uuid.New(),
		Status:          PayrollPending,
		RegularPay:      amt(t, "4000"),
		OvertimePay:     amt(t, "200"),
		Bonus:           amt(t, "100"),
		TaxWithholding:  amt(t, "500"),
		SocialSecurity:  amt(t, "248"),
		Medicare:        amt(t, "58"),
		OtherDeductions: amt(t, "0"),
	}

	require.NoError(t, p.Process())
	assert.Equal(t, "4300", p.GrossPay.String())
	assert.Equal(t, "806", p.TotalDeductions.String())
	assert.Equal(t, "3494", p.NetPay.String())
	assert.Equal(t, PayrollProcessed, p.Status)
}

func TestPayroll_Process_NegativeNetNotClamped(t *testing.T) {
	p := &Payroll{
		Status:         PayrollPending,
		RegularPay:     amt(t, "100"),
		TaxWithholding: amt(t, "150"),
	}

	require.NoError(t, p.Process())
	assert.Equal(t, "-50", p.NetPay.String())
}

func TestPayroll_Process_Recomputes(t *testing.T) {
	p := &Payroll{Status: PayrollPending, RegularPay: amt(t, "1000")}
	require.NoError(t, p.Process())
	assert.Equal(t, "1000", p.GrossPay.String())

	p.Bonus = amt(t, "500")
	require.NoError(t, p.Process())
	assert.Equal(t, "1500", p.GrossPay.String())
}

func TestPayroll_MarkPaid_FromPendingOrProcessed(t *testing.T) {
	for _, from := range []PayrollStatus{PayrollPending, PayrollProcessed} {
		p := &Payroll{Status: from}
		require.NoError(t, p.MarkPaid("bank_transfer"))
		assert.Equal(t, PayrollPaid, p.Status)
		assert.Equal(t, "bank_transfer", p.PaymentMethod)
		assert.NotNil(t, p.PaymentDate)
	}
}

func TestPayroll_PaidIsTerminal(t *testing.T) {
	p := &Payroll{Status: PayrollPending, RegularPay: amt(t, "1000")}
	require.NoError(t, p.Process())
	require.NoError(t, p.MarkPaid("check"))

	assert.Error(t, p.Process())
	assert.Error(t, p.MarkPaid("cash"))
}

func TestEmployee_IsActive(t *testing.T) {
	e := &Employee{Status: EmploymentActive}
	assert.True(t, e.IsActive())

	term := e.HireDate
	e.Status = EmploymentTerminated
	e.TerminationDate = &term
	assert.False(t, e.IsActive())
}

// ==================== Credit scoring ====================

func specProfile(t *testing.T) *CreditProfile {
	// The worked example: payment_history=85, dti=0.35, age=24 months,
	// revenue=500000, industry_risk=70.
	return &CreditProfile{
		ID:                  uuid.New(),
		AnnualRevenue:       amt(t, "500000"),
		DebtToIncomeRatio:   decimal.NullDecimal{Decimal: dec("0.35"), Valid: true},
		PaymentHistoryScore: 85,
		BusinessAgeMonths:   24,
		IndustryRiskScore:   70,
	}
}

func TestCreditProfile_ComputeScore_WorkedExample(t *testing.T) {
	p := specProfile(t)

	// 300 + 85*0.3 + 150 (dti<0.5) + 50 (age band: 24 is not >24) + 75
	// + 70*0.1 = 607.5 -> 607
	assert.Equal(t, 607, p.ComputeScore())

	// One month older crosses into the >24 band: 657.5 -> 657.
	p.BusinessAgeMonths = 25
	assert.Equal(t, 657, p.ComputeScore())
}

func TestCreditProfile_ScoreTruncatesNotRounds(t *testing.T) {
	p := specProfile(t)
	p.BusinessAgeMonths = 25
	// 657.5 truncates to 657, never rounds to 658.
	assert.Equal(t, 657, p.ComputeScore())
}

func TestCreditProfile_ScoreBounds(t *testing.T) {
	empty := &CreditProfile{}
	assert.Equal(t, 300, empty.ComputeScore())

	maxed := &CreditProfile{
		AnnualRevenue:       money.FromInt(1000000),
		DebtToIncomeRatio:   decimal.NullDecimal{Decimal: dec("0.1"), Valid: true},
		PaymentHistoryScore: 100,
		BusinessAgeMonths:   60,
		IndustryRiskScore:   100,
	}
	score := maxed.ComputeScore()
	assert.GreaterOrEqual(t, score, 300)
	assert.LessOrEqual(t, score, 850)
}

func TestCreditProfile_DTIBandsFirstMatchWins(t *testing.T) {
	p := &CreditProfile{DebtToIncomeRatio: decimal.NullDecimal{Decimal: dec("0.49"), Valid: true}}
	assert.Equal(t, 450, p.ComputeScore()) // 300 + 150

	p.DebtToIncomeRatio.Decimal = dec("0.69")
	assert.Equal(t, 400, p.ComputeScore()) // 300 + 100

	p.DebtToIncomeRatio.Decimal = dec("0.90")
	assert.Equal(t, 300, p.ComputeScore())

	p.DebtToIncomeRatio.Valid = false
	assert.Equal(t, 300, p.ComputeScore())
}

func TestComputeRating_Ladder(t *testing.T) {
	tests := []struct {
		score  int
		rating string
	}{
		{850, "A+"}, {800, "A+"}, {799, "A"}, {750, "A"},
		{749, "B+"}, {700, "B+"}, {657, "B"}, {650, "B"},
		{649, "C"}, {600, "C"}, {599, "D"}, {300, "D"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.rating, ComputeRating(tt.score), "score %d", tt.score)
	}
}

func TestCreditProfile_LendingReadiness_WorkedExample(t *testing.T) {
	p := specProfile(t)
	p.BusinessAgeMonths = 25

	// (657/850)*40 = 30.91... + 30 (age>12) + 20 (revenue>50000, no cash
	// flow) = 80.91 -> 80
	assert.Equal(t, 80, p.ComputeLendingReadiness(657))
}

func TestCreditProfile_LendingReadiness_CashFlowPrecedence(t *testing.T) {
	p := &CreditProfile{
		MonthlyCashFlow: money.FromInt(5000),
		AnnualRevenue:   money.FromInt(500000),
	}
	// Positive cash flow wins: +30, the revenue clause is never consulted.
	assert.Equal(t, (300*40)/850+30, p.ComputeLendingReadiness(300))
}

func TestCreditProfile_LendingReadiness_Bounds(t *testing.T) {
	p := &CreditProfile{
		MonthlyCashFlow:   money.FromInt(1),
		BusinessAgeMonths: 100,
	}
	r := p.ComputeLendingReadiness(850)
	assert.GreaterOrEqual(t, r, 0)
	assert.LessOrEqual(t, r, 100)
}

func TestCreditProfile_RecalculateIsPure(t *testing.T) {
	p1 := specProfile(t)
	p2 := specProfile(t)
	p2.ID = p1.ID

	p1.Recalculate()
	p2.Recalculate()

	assert.Equal(t, p1.CreditScore, p2.CreditScore)
	assert.Equal(t, p1.CreditRating, p2.CreditRating)
	assert.Equal(t, p1.LendingReadinessScore, p2.LendingReadinessScore)
	assert.NotNil(t, p1.AssessmentDate)
}

func TestCreditProfile_SnapshotCapturesPriorDerived(t *testing.T) {
	p := specProfile(t)
	p.Recalculate()
	priorScore := p.CreditScore
	priorRating := p.CreditRating

	snap := p.Snapshot(map[string]any{"trigger": "manual"})

	worse := 95
	p.ApplyMetrics(CreditMetrics{IndustryRiskScore: &worse})
	p.Recalculate()

	assert.Equal(t, priorScore, snap.Score)
	assert.Equal(t, priorRating, snap.Rating)
	assert.Equal(t, p.ID, snap.CreditProfileID)
}

func TestCreditMetrics_Validate(t *testing.T) {
	bad := 101
	assert.Error(t, CreditMetrics{PaymentHistoryScore: &bad}.Validate())
	assert.Error(t, CreditMetrics{IndustryRiskScore: &bad}.Validate())
	assert.Error(t, CreditMetrics{MarketPositionScore: &bad}.Validate())

	neg := -1
	assert.Error(t, CreditMetrics{BusinessAgeMonths: &neg}.Validate())

	negDTI := dec("-0.1")
	assert.Error(t, CreditMetrics{DebtToIncomeRatio: &negDTI}.Validate())

	ok := 100
	assert.NoError(t, CreditMetrics{PaymentHistoryScore: &ok}.Validate())
	assert.NoError(t, CreditMetrics{}.Validate())
}

// ==================== Invoice ====================

func TestInvoice_Recalculate_WorkedExample(t *testing.T) {
	inv := &Invoice{
		TaxAmount:      amt(t, "6.00"),
		DiscountAmount: money.Zero,
		Items: []InvoiceItem{
			{Quantity: dec("2"), UnitPrice: amt(t, "50.00")},
			{Quantity: dec("1"), UnitPrice: amt(t, "25.00")},
		},
	}

	inv.Recalculate()
	assert.Equal(t, "125", inv.Subtotal.String())
	assert.Equal(t, "131", inv.TotalAmount.String())
	assert.Equal(t, "100", inv.Items[0].Total.String())
	assert.Equal(t, "25", inv.Items[1].Total.String())
}

func TestInvoice_Recalculate_Idempotent(t *testing.T) {
	inv := &Invoice{
		TaxAmount: amt(t, "1.50"),
		Items: []InvoiceItem{
			{Quantity: dec("3"), UnitPrice: amt(t, "9.99"), Total: amt(t, "999")}, // stale stored total
		},
	}

	inv.Recalculate()
	first := inv.TotalAmount
	inv.Recalculate()

	assert.True(t, inv.TotalAmount.Equal(first))
	assert.Equal(t, "29.97", inv.Items[0].Total.String())
}

func TestInvoice_Recalculate_OrderIrrelevant(t *testing.T) {
	a := &Invoice{Items: []InvoiceItem{
		{Quantity: dec("2"), UnitPrice: amt(t, "10")},
		{Quantity: dec("5"), UnitPrice: amt(t, "3")},
	}}
	b := &Invoice{Items: []InvoiceItem{
		{Quantity: dec("5"), UnitPrice: amt(t, "3")},
		{Quantity: dec("2"), UnitPrice: amt(t, "10")},
	}}

	a.Recalculate()
	b.Recalculate()
	assert.True(t, a.Subtotal.Equal(b.Subtotal))
}

func TestInvoice_MarkPaid_Unconditional(t *testing.T) {
	inv := &Invoice{Status: InvoiceSent, TotalAmount: amt(t, "100")}

	// Amount below the total still flips status; there is no partial state.
	inv.MarkPaid(amt(t, "40"), "card")
	assert.Equal(t, InvoicePaid, inv.Status)
	assert.Equal(t, "40", inv.PaidAmount.String())
	assert.Equal(t, "card", inv.PaymentMethod)
	assert.NotNil(t, inv.PaidDate)
}
