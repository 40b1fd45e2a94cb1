package derive

import (
	"math"

	"github.com/sells-group/cobenefits-atlas/internal/model"
)

// FindCategory returns the co-benefit with the given identifier.
func FindCategory(list []model.CoBenefit, id string) (model.CoBenefit, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return model.CoBenefit{}, false
}

// CategoryTotal returns the stored total of the category with the given
// identifier, or 0 when it is absent. The zero is substituted for the
// looked-up total itself, before any scaling, so a missing category and a
// category whose total is exactly 0 produce the same downstream output.
func CategoryTotal(list []model.CoBenefit, id string) float64 {
	c, ok := FindCategory(list, id)
	if !ok || math.IsNaN(c.Total) {
		return 0
	}
	return c.Total
}

// CategoryBillions is CategoryTotal converted from thousands to billions.
func CategoryBillions(list []model.CoBenefit, id string) float64 {
	return CategoryTotal(list, id) / 1000
}

// NoiseMagnitude returns the absolute noise total. The source may store it
// as a negative cost.
func NoiseMagnitude(list []model.CoBenefit) float64 {
	return math.Abs(CategoryTotal(list, model.CoBenefitNoise))
}
