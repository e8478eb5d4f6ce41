package metrics

import "math"

// CostParams are the ownership-cost inputs for one starting method. Pure
// bookkeeping over the simulation's energy figure; no physics.
type CostParams struct {
	InstalledCost    float64 // USD
	LossFraction     float64 // continuous losses while running, fraction of rated power
	AnnualHours      float64 // running hours per year
	EnergyCostPerKWh float64 // USD
	StartsPerDay     float64
}

// CostProjection is the annualized cost breakdown for one method.
type CostProjection struct {
	Installed      float64
	AnnualStartup  float64 // energy cost of starts
	AnnualLosses   float64 // continuous device losses
	AnnualTotal    float64
	StartsPerYear  float64
	StartEnergyKWh float64
}

// Project turns a per-start energy figure into annual operating costs for a
// machine of the given rated power (kW).
func Project(ratedPowerKW, startEnergyKWh float64, p CostParams) CostProjection {
	starts := p.StartsPerDay * 365
	c := CostProjection{
		Installed:      p.InstalledCost,
		StartsPerYear:  starts,
		StartEnergyKWh: startEnergyKWh,
	}
	c.AnnualStartup = startEnergyKWh * p.EnergyCostPerKWh * starts
	c.AnnualLosses = p.LossFraction * ratedPowerKW * p.AnnualHours * p.EnergyCostPerKWh
	c.AnnualTotal = c.AnnualStartup + c.AnnualLosses
	return c
}

// PaybackYears is how long the premium method's extra installed cost takes to
// equal the operating-cost gap between the two methods. +Inf when the premium
// method saves nothing on operation.
func PaybackYears(premium, baseline CostProjection) float64 {
	extra := premium.Installed - baseline.Installed
	savings := baseline.AnnualTotal - premium.AnnualTotal
	if savings <= 0 {
		return math.Inf(1)
	}
	return extra / savings
}
