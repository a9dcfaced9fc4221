package domain

import (
	"math"
	"time"
)

// PoojaMaterialsFactor доля возврата, остающаяся после удержания стоимости материалов пуджи
const PoojaMaterialsFactor = 0.8

// PoojaFullRefundHours граница, после которой удерживаются материалы пуджи
const PoojaFullRefundHours = 48

// RefundQuote результат расчета возврата при отмене
type RefundQuote struct {
	HoursRemaining    int
	Percentage        float64
	OriginalAmount    float64
	RefundAmount      float64
	CancellationFee   float64
	PolicyApplied     string
	MaterialsDeducted bool
}

type refundTier struct {
	minHours    int
	percentage  float64
	description string
}

// Тиры упорядочены по убыванию minHours, последний тир ловит все остальное
var refundTiers = map[BookingType][]refundTier{
	TypeTempleVisit: {
		{minHours: 24, percentage: 100, description: "Temple visit cancelled 24+ hours in advance: full refund"},
		{minHours: 1, percentage: 50, description: "Temple visit cancelled 1-24 hours in advance: 50% refund"},
		{minHours: math.MinInt, percentage: 0, description: "Temple visit cancelled less than 1 hour in advance: no refund"},
	},
	TypePooja: {
		{minHours: 48, percentage: 100, description: "Pooja cancelled 48+ hours in advance: full refund"},
		{minHours: 24, percentage: 75, description: "Pooja cancelled 24-48 hours in advance: 75% refund"},
		{minHours: 1, percentage: 50, description: "Pooja cancelled 1-24 hours in advance: 50% refund"},
		{minHours: math.MinInt, percentage: 0, description: "Pooja cancelled less than 1 hour in advance: no refund"},
	},
	TypeConsultation: {
		{minHours: 24, percentage: 100, description: "Consultation cancelled 24+ hours in advance: full refund"},
		{minHours: 2, percentage: 50, description: "Consultation cancelled 2-24 hours in advance: 50% refund"},
		{minHours: math.MinInt, percentage: 0, description: "Consultation cancelled less than 2 hours in advance: no refund"},
	},
}

const defaultRefundDescription = "Standard cancellation policy: 50% refund"

// HoursRemaining целые часы до начала, округление вниз. Для прошедших бронирований отрицательно.
func HoursRemaining(now, scheduled time.Time) int {
	return int(math.Floor(scheduled.Sub(now).Hours()))
}

// RefundPercentage процент возврата для типа бронирования и оставшихся часов
func RefundPercentage(bookingType BookingType, hoursRemaining int) (float64, string, bool) {
	tiers, ok := refundTiers[bookingType]
	if !ok {
		return 50, defaultRefundDescription, false
	}

	var tier refundTier
	for _, t := range tiers {
		if hoursRemaining >= t.minHours {
			tier = t
			break
		}
	}

	if bookingType == TypePooja && hoursRemaining < PoojaFullRefundHours {
		return tier.percentage * PoojaMaterialsFactor,
			tier.description + " (20% of the amount retained for pooja materials)", true
	}

	return tier.percentage, tier.description, false
}

// CalculateRefund считает возврат без округления, округление остается слою форматирования
func CalculateRefund(bookingType BookingType, amount float64, hoursRemaining int) RefundQuote {
	pct, description, deducted := RefundPercentage(bookingType, hoursRemaining)
	refund := amount * pct / 100

	return RefundQuote{
		HoursRemaining:    hoursRemaining,
		Percentage:        pct,
		OriginalAmount:    amount,
		RefundAmount:      refund,
		CancellationFee:   amount - refund,
		PolicyApplied:     description,
		MaterialsDeducted: deducted,
	}
}
