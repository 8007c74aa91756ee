package domain

import "math"

// Bandas de tolerancia alrededor de la igualdad exacta entre el precio
// implícito y las odds del apostador. Absorben el ruido de redondeo del
// exchange antes de declarar una apuesta con o sin valor.
const (
	valueBand      = 0.9999
	twoPercentBand = 1.0199
)

// ValueDecision clasifica una apuesta comparando el precio lay implícito
// contra las odds ofrecidas por el bookmaker.
type ValueDecision int

const (
	NotValue ValueDecision = iota
	TwoPercent
	Value
)

func (d ValueDecision) String() string {
	switch d {
	case Value:
		return "VALUE"
	case TwoPercent:
		return "2PC"
	}
	return "NOT VALUE"
}

// Classify compara el precio agregado contra las odds del apostador.
//
//	price <  0.9999 × odds → VALUE
//	price <= 1.0199 × odds → 2PC
//	resto                  → NOT VALUE
func Classify(price, odds float64) ValueDecision {
	switch {
	case price < valueBand*odds:
		return Value
	case price <= twoPercentBand*odds:
		return TwoPercent
	}
	return NotValue
}

// CombineLayPrices agrega precios lay individuales de varios resultados
// exactos en un único precio implícito, sumando probabilidades:
//
//	combined = 1 / Σ(1/pᵢ)
//
// El resultado se redondea hacia arriba al 0.1 más cercano. Devuelve
// false si no hay ningún precio.
func CombineLayPrices(prices []float64) (float64, bool) {
	if len(prices) == 0 {
		return 0, false
	}
	total := 0.0
	for _, p := range prices {
		total += 1.0 / p
	}
	combined := 1.0 / total
	return math.Ceil(combined*10) / 10.0, true
}

// MultiplyLayPrices multiplica los precios lay de varios equipos en un
// precio acumulado (apuestas combinadas sobre más de un partido).
// Devuelve el producto sin redondear: la clasificación de valor compara
// contra el precio exacto, el redondeo es solo para presentación.
// Devuelve false si no hay ningún precio.
func MultiplyLayPrices(prices []float64) (float64, bool) {
	if len(prices) == 0 {
		return 0, false
	}
	product := 1.0
	for _, p := range prices {
		product *= p
	}
	return product, true
}

// RoundPrice redondea un precio para presentación y guardado: primero a
// 3 decimales y después a 2, igual que la línea guardada.
func RoundPrice(p float64) float64 {
	p = math.Round(p*1000) / 1000
	return math.Round(p*100) / 100
}
