package sellerrisk

import (
	"math"
	"time"

	"github.com/richxcame/review-guard/pkg/models"
)

var typeWeights = map[models.ViolationType]float64{
	models.ViolationFakeProduct:    5,
	models.ViolationDamagedProduct: 3,
	models.ViolationWrongProduct:   4,
	models.ViolationLateDelivery:   2,
	models.ViolationMissingItems:   3,
}

var severityMultipliers = map[models.Severity]float64{
	models.SeverityLow:      0.5,
	models.SeverityMedium:   1,
	models.SeverityHigh:     1.5,
	models.SeverityCritical: 2,
}

var violationFactors = []struct {
	vType  models.ViolationType
	factor string
}{
	{models.ViolationFakeProduct, "Fake products delivered"},
	{models.ViolationDamagedProduct, "Damaged products delivered"},
	{models.ViolationWrongProduct, "Wrong products delivered"},
	{models.ViolationLateDelivery, "Late deliveries"},
	{models.ViolationMissingItems, "Missing items in orders"},
}

const (
	recencyFloor                = 0.5
	recencyWindowDays           = 365.0
	// estimatedOrdersPerViolation stands in for order volume, which is not tracked here.
	estimatedOrdersPerViolation = 10
	minEstimatedOrders          = 100
)

// ComputeDeliveryRisk scores violations by type weight, severity and recency, normalised by the
// total type weight.
func ComputeDeliveryRisk(sellerID string, violations []*models.DeliveryViolation, now time.Time) *DeliveryRisk {
	risk := &DeliveryRisk{
		SellerID:    sellerID,
		ByType:      make(map[models.ViolationType]int, len(models.ViolationTypes)),
		BySeverity:  make(map[models.Severity]int, len(models.Severities)),
		RiskFactors: []string{},
		ComputedAt:  now,
	}
	for _, t := range models.ViolationTypes {
		risk.ByType[t] = 0
	}
	for _, s := range models.Severities {
		risk.BySeverity[s] = 0
	}

	n := len(violations)
	if n == 0 {
		return risk
	}

	var total, totalWeight float64
	for _, v := range violations {
		risk.ByType[v.Type]++
		risk.BySeverity[v.Severity]++

		weight, ok := typeWeights[v.Type]
		if !ok {
			weight = 1
		}
		severity, ok := severityMultipliers[v.Severity]
		if !ok {
			severity = 1
		}
		days := now.Sub(v.OccurredAt).Hours() / 24
		recency := math.Max(recencyFloor, 1-days/recencyWindowDays)

		total += weight * severity * recency * 10
		totalWeight += weight
	}

	risk.TotalViolations = n
	risk.RiskScore = int(math.Round(math.Min(100, total/totalWeight)))

	orders := n * estimatedOrdersPerViolation
	if orders < minEstimatedOrders {
		orders = minEstimatedOrders
	}
	risk.ViolationRate = math.Min(100, float64(n)/float64(orders)*100)

	for _, f := range violationFactors {
		if risk.ByType[f.vType] > 0 {
			risk.RiskFactors = append(risk.RiskFactors, f.factor)
		}
	}
	return risk
}
