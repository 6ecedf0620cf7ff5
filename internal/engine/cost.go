package engine

import "github.com/shopspring/decimal"

// MinCommission is the exchange's minimum brokerage fee per order, in
// currency units.
var MinCommission = decimal.NewFromInt(20)

// CostModel computes the total transaction cost of a trade: brokerage
// commission (with a minimum fee) plus transaction tax on sells.
type CostModel struct {
	commissionRate decimal.Decimal
	taxRate        decimal.Decimal
	discount       decimal.Decimal
}

func NewCostModel(commissionRate, taxRate, discount decimal.Decimal) CostModel {
	return CostModel{
		commissionRate: commissionRate,
		taxRate:        taxRate,
		discount:       discount,
	}
}

// Cost returns commission plus tax for a trade of the given notional amount.
// The minimum fee only applies when the effective commission rate is
// positive, so a zero-cost model prices every trade at exactly zero.
func (c CostModel) Cost(amount decimal.Decimal, isSell bool) decimal.Decimal {
	if amount.Sign() <= 0 {
		return decimal.Zero
	}

	commission := amount.Mul(c.commissionRate).Mul(c.discount)
	if commission.Sign() > 0 && commission.LessThan(MinCommission) {
		commission = MinCommission
	}

	if isSell {
		return commission.Add(amount.Mul(c.taxRate))
	}
	return commission
}
