package affordability

import (
	"fmt"

	"affordability-engine/pkg/constants"
	"affordability-engine/pkg/mathutil"
)

// Decision is the categorical outcome of a rule evaluation.
type Decision string

const (
	DecisionYes         Decision = "YES"
	DecisionConditional Decision = "CONDITIONAL"
	DecisionDefer       Decision = "DEFER"
	DecisionNo          Decision = "NO"
)

// RiskLevel grades the same weighted score on a risk scale.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Rule weights. A zero weight at evaluation time marks the rule as not
// applicable to this purchase and excludes it from scoring.
const (
	weightBuffer            = 0.25
	weightCashflow          = 0.20
	weightDebtToIncome      = 0.15
	weightUtilization       = 0.10
	weightEmergencyFund     = 0.15
	weightPurchaseSize      = 0.10
	weightBufferConsumption = 0.05
	weightLuxury            = 0.05
)

// Rule pass limits.
const (
	bufferMonthsFloor       = 1.0
	dtiLimit                = 0.35
	utilizationLimit        = 0.30
	emergencyFundTarget     = 3.0
	trivialPurchaseRatio    = 0.05
	moderatePurchaseRatio   = 0.25
	largePurchaseRatio      = 0.50
	bufferConsumptionLimit  = 0.25
	luxuryDTIThreshold      = 0.25
	overrideBufferFloor     = 0.5
	overrideEmergencyMonths = 2.0
	lowBufferConfidenceCut  = 0.8
)

// RuleResult is the outcome of one affordability rule.
type RuleResult struct {
	Name        string             `json:"name"`
	Passed      bool               `json:"passed"`
	Weight      float64            `json:"weight"`
	ReasonCodes []string           `json:"reason_codes,omitempty"`
	Explanation string             `json:"explanation,omitempty"`
	Data        map[string]float64 `json:"data,omitempty"`
}

// Evaluation aggregates every rule into a single score, decision, risk level,
// and confidence.
type Evaluation struct {
	Rules         []RuleResult `json:"rules"`
	WeightedScore float64      `json:"weighted_score"`
	Decision      Decision     `json:"decision"`
	RiskLevel     RiskLevel    `json:"risk_level"`
	Confidence    float64      `json:"confidence"`
}

// EvaluateAffordabilityRules runs the fixed rule set against a snapshot and a
// projected purchase impact, aggregates the weighted score, and maps it to a
// decision and risk level with the post-hoc overrides applied.
func EvaluateAffordabilityRules(metrics Metrics, impact Impact, purchaseAmount float64) Evaluation {
	rules := []RuleResult{
		evaluateBuffer(impact),
		evaluateCashflow(metrics, impact),
		evaluateDebtToIncome(metrics, impact),
		evaluateUtilization(metrics, impact),
		evaluateEmergencyFund(metrics),
		evaluatePurchaseSize(metrics, impact, purchaseAmount),
		evaluateBufferConsumption(impact),
		evaluateLuxuryWhileInDebt(metrics),
	}

	var passedWeight, applicableWeight float64
	for _, rule := range rules {
		if rule.Weight == 0 {
			continue
		}
		applicableWeight += rule.Weight
		if rule.Passed {
			passedWeight += rule.Weight
		}
	}

	evaluation := Evaluation{Rules: rules}
	if applicableWeight > 0 {
		evaluation.WeightedScore = passedWeight / applicableWeight
	}

	evaluation.Decision = mapDecision(evaluation.WeightedScore)
	evaluation.RiskLevel = mapRiskLevel(evaluation.WeightedScore)

	// Post-hoc overrides, applied in order after the threshold mapping.
	if impact.ProjectedCashBalance < 0 {
		evaluation.Decision = DecisionNo
	}
	if impact.BufferMonthsRemaining < overrideBufferFloor {
		evaluation.Decision = DecisionNo
	}
	if evaluation.Decision == DecisionYes && metrics.EmergencyFundMonths < overrideEmergencyMonths {
		evaluation.Decision = DecisionConditional
	}

	evaluation.Confidence = evaluation.WeightedScore
	if impact.BufferMonthsRemaining < bufferMonthsFloor && evaluation.Decision != DecisionNo {
		evaluation.Confidence *= lowBufferConfidenceCut
	}
	evaluation.Confidence = mathutil.Clamp(evaluation.Confidence, 0, 1)

	return evaluation
}

func mapDecision(score float64) Decision {
	switch {
	case score >= constants.YesThreshold:
		return DecisionYes
	case score >= constants.ConditionalThreshold:
		return DecisionConditional
	case score >= constants.DeferThreshold:
		return DecisionDefer
	default:
		return DecisionNo
	}
}

func mapRiskLevel(score float64) RiskLevel {
	switch {
	case score >= constants.YesThreshold:
		return RiskLow
	case score >= constants.ConditionalThreshold:
		return RiskModerate
	case score >= constants.DeferThreshold:
		return RiskHigh
	default:
		return RiskCritical
	}
}

func evaluateBuffer(impact Impact) RuleResult {
	result := RuleResult{
		Name:   "sufficient_buffer",
		Weight: weightBuffer,
		Data:   map[string]float64{"buffer_months_remaining": impact.BufferMonthsRemaining},
	}
	if impact.BufferMonthsRemaining >= bufferMonthsFloor {
		result.Passed = true
		result.ReasonCodes = []string{"SUFFICIENT_BUFFER"}
		result.Explanation = fmt.Sprintf("%.1f months of essential spending remain after the purchase", impact.BufferMonthsRemaining)
	} else {
		result.ReasonCodes = []string{"INSUFFICIENT_BUFFER"}
		result.Explanation = fmt.Sprintf("only %.1f months of essential spending would remain", impact.BufferMonthsRemaining)
	}
	return result
}

func evaluateCashflow(metrics Metrics, impact Impact) RuleResult {
	cashflow := metrics.MonthlyCashflow
	if impact.NewMonthlyCashflow != nil {
		cashflow = *impact.NewMonthlyCashflow
	}

	result := RuleResult{
		Name:   "positive_cashflow",
		Weight: weightCashflow,
		Data:   map[string]float64{"monthly_cashflow": cashflow},
	}
	if cashflow > 0 {
		result.Passed = true
		result.ReasonCodes = []string{"POSITIVE_CASHFLOW"}
		result.Explanation = fmt.Sprintf("monthly cashflow stays positive at %.2f", cashflow)
	} else {
		result.ReasonCodes = []string{"NEGATIVE_CASHFLOW"}
		result.Explanation = fmt.Sprintf("monthly cashflow would drop to %.2f", cashflow)
	}
	return result
}

func evaluateDebtToIncome(metrics Metrics, impact Impact) RuleResult {
	dti := metrics.DebtToIncomeRatio
	if impact.NewDebtToIncomeRatio != nil {
		dti = *impact.NewDebtToIncomeRatio
	}

	result := RuleResult{
		Name:   "debt_to_income",
		Weight: weightDebtToIncome,
		Data:   map[string]float64{"debt_to_income_ratio": dti},
	}
	if dti <= dtiLimit {
		result.Passed = true
		result.ReasonCodes = []string{"DTI_WITHIN_LIMIT"}
		result.Explanation = fmt.Sprintf("debt-to-income ratio %.2f within the %.2f limit", dti, dtiLimit)
	} else {
		result.ReasonCodes = []string{"DTI_EXCEEDED"}
		result.Explanation = fmt.Sprintf("debt-to-income ratio %.2f above the %.2f limit", dti, dtiLimit)
	}
	return result
}

func evaluateUtilization(metrics Metrics, impact Impact) RuleResult {
	result := RuleResult{Name: "credit_utilization"}

	// Without any revolving-credit data the rule is not applicable and is
	// excluded from scoring.
	if impact.UtilizationChange == nil && metrics.CreditUtilization == 0 {
		result.ReasonCodes = []string{"UTILIZATION_NOT_APPLICABLE"}
		return result
	}

	utilization := metrics.CreditUtilization
	if impact.UtilizationChange != nil {
		utilization += *impact.UtilizationChange
	}

	result.Weight = weightUtilization
	result.Data = map[string]float64{"credit_utilization": utilization}
	if utilization <= utilizationLimit {
		result.Passed = true
		result.ReasonCodes = []string{"UTILIZATION_WITHIN_LIMIT"}
		result.Explanation = fmt.Sprintf("credit utilization %.0f%% within the %.0f%% limit",
			utilization*constants.PercentageMultiplier, utilizationLimit*constants.PercentageMultiplier)
	} else {
		result.ReasonCodes = []string{"UTILIZATION_EXCEEDED"}
		result.Explanation = fmt.Sprintf("credit utilization would reach %.0f%%",
			utilization*constants.PercentageMultiplier)
	}
	return result
}

func evaluateEmergencyFund(metrics Metrics) RuleResult {
	result := RuleResult{
		Name:   "emergency_fund",
		Weight: weightEmergencyFund,
		Data:   map[string]float64{"emergency_fund_months": metrics.EmergencyFundMonths},
	}
	if metrics.EmergencyFundMonths >= emergencyFundTarget {
		result.Passed = true
		result.ReasonCodes = []string{"EMERGENCY_FUND_FUNDED"}
		result.Explanation = fmt.Sprintf("%.1f months of emergency coverage", metrics.EmergencyFundMonths)
	} else {
		result.ReasonCodes = []string{"EMERGENCY_FUND_LOW"}
		result.Explanation = fmt.Sprintf("emergency fund covers only %.1f months", metrics.EmergencyFundMonths)
	}
	return result
}

func evaluatePurchaseSize(metrics Metrics, impact Impact, purchaseAmount float64) RuleResult {
	ratio := impact.PurchaseToIncomeRatio
	result := RuleResult{
		Name:   "purchase_size",
		Weight: weightPurchaseSize,
		Data: map[string]float64{
			"purchase_amount":          purchaseAmount,
			"purchase_to_income_ratio": ratio,
		},
	}

	switch {
	case ratio <= trivialPurchaseRatio:
		result.Passed = true
		result.ReasonCodes = []string{"PURCHASE_TRIVIAL"}
		result.Explanation = "purchase is small relative to monthly income"
	case ratio <= moderatePurchaseRatio:
		result.Passed = true
		result.ReasonCodes = []string{"PURCHASE_MODERATE"}
		result.Explanation = "purchase is a moderate share of monthly income"
	case ratio <= largePurchaseRatio && metrics.EmergencyFundMonths >= emergencyFundTarget:
		result.Passed = true
		result.ReasonCodes = []string{"PURCHASE_LARGE_COVERED"}
		result.Explanation = "large purchase backed by a funded emergency reserve"
	case ratio <= largePurchaseRatio:
		result.ReasonCodes = []string{"PURCHASE_LARGE_UNCOVERED"}
		result.Explanation = "large purchase without a funded emergency reserve"
	default:
		result.ReasonCodes = []string{"PURCHASE_OVERSIZED"}
		result.Explanation = "purchase exceeds half of monthly income"
	}
	return result
}

func evaluateBufferConsumption(impact Impact) RuleResult {
	result := RuleResult{
		Name:   "buffer_consumption",
		Weight: weightBufferConsumption,
		Data:   map[string]float64{"buffer_consumption_percent": impact.BufferConsumptionPercent},
	}
	if impact.BufferConsumptionPercent <= bufferConsumptionLimit {
		result.Passed = true
		result.ReasonCodes = []string{"BUFFER_LIGHTLY_USED"}
		result.Explanation = fmt.Sprintf("purchase consumes %.0f%% of liquid assets",
			impact.BufferConsumptionPercent*constants.PercentageMultiplier)
	} else {
		result.ReasonCodes = []string{"BUFFER_HEAVILY_USED"}
		result.Explanation = fmt.Sprintf("purchase consumes %.0f%% of liquid assets",
			impact.BufferConsumptionPercent*constants.PercentageMultiplier)
	}
	return result
}

// evaluateLuxuryWhileInDebt always passes; it only attaches an informational
// reason code when discretionary spending happens under a high debt load.
func evaluateLuxuryWhileInDebt(metrics Metrics) RuleResult {
	result := RuleResult{
		Name:   "luxury_while_in_debt",
		Passed: true,
	}
	if metrics.DebtToIncomeRatio > luxuryDTIThreshold {
		result.Weight = weightLuxury
		result.ReasonCodes = []string{"DISCRETIONARY_WHILE_IN_DEBT"}
		result.Explanation = fmt.Sprintf("discretionary purchase while debt-to-income is %.2f", metrics.DebtToIncomeRatio)
		result.Data = map[string]float64{"debt_to_income_ratio": metrics.DebtToIncomeRatio}
	}
	return result
}
