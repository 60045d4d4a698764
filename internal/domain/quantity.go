package domain

import "github.com/shopspring/decimal"

// Quantity нормализованная пара штуки/коробки одной позиции
type Quantity struct {
	Pcs int64 `json:"qty_in_pcs"`
	Ctn int64 `json:"qty_in_ctn"`
}

// IsZero true, когда позиция пуста
func (q Quantity) IsZero() bool { return q.Pcs == 0 && q.Ctn == 0 }

// EditedField какое поле количества редактировал пользователь
type EditedField string

const (
	EditPcs EditedField = "pcs"
	EditCtn EditedField = "ctn"
)

// Normalize сводит редактируемое поле и фиксированное к канонической паре:
// излишек штук переносится в коробки, 0 <= Pcs < cartonSize.
// cartonSize == nil — товар поштучный: коробки всегда 0, штуки без переноса.
// Отрицательное значение не принимается: возвращается прежняя пара и ok=false.
func Normalize(cartonSize *int64, field EditedField, raw int64, prev Quantity) (Quantity, bool) {
	if raw < 0 {
		return prev, false
	}
	if cartonSize == nil {
		if field == EditCtn {
			// carton edit is a no-op for piece-only products
			return Quantity{Pcs: prev.Pcs, Ctn: 0}, true
		}
		return Quantity{Pcs: raw, Ctn: 0}, true
	}
	size := *cartonSize
	if size <= 0 {
		return prev, false
	}
	var total int64
	switch field {
	case EditCtn:
		// keep only the piece remainder on the fixed side
		total = (prev.Pcs % size) + raw*size
	default:
		total = raw + prev.Ctn*size
	}
	return Quantity{Pcs: total % size, Ctn: total / size}, true
}

// LineTotal сумма позиции: (pcs + ctn*size) * rate. Для поштучного товара size = 1.
func LineTotal(cartonSize *int64, q Quantity, rate decimal.Decimal) decimal.Decimal {
	size := int64(1)
	if cartonSize != nil {
		size = *cartonSize
	}
	units := q.Pcs + q.Ctn*size
	return rate.Mul(decimal.NewFromInt(units))
}
