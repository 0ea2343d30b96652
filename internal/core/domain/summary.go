package domain

type (
	// A Pricing holds the checkout rules applied on top of the cart total.
	Pricing struct {
		FreeShippingThreshold float64
		ShippingFee           float64
		TaxRate               float64
	}

	Summary struct {
		Subtotal float64
		Shipping float64
		Tax      float64
		Total    float64
	}
)

func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: 50,
		ShippingFee:           9.99,
		TaxRate:               0.08,
	}
}

// Summarize applies the pricing rules to the subtotal.
//
// Shipping is free above the threshold and for an empty cart.
func (p Pricing) Summarize(subtotal float64, empty bool) Summary {
	s := Summary{Subtotal: subtotal}
	if !empty && subtotal <= p.FreeShippingThreshold {
		s.Shipping = p.ShippingFee
	}
	s.Tax = subtotal * p.TaxRate
	s.Total = s.Subtotal + s.Shipping + s.Tax
	return s
}
