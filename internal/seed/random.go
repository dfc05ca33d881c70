package seed

// Параметры 48-битного линейного конгруэнтного генератора.
// Совпадают с классическим генератором java.util.Random: на нём построены
// все ранее сгенерированные миры, поэтому последовательность должна
// воспроизводиться бит-в-бит.
const (
	multiplier = 0x5DEECE66D
	addend     = 0xB
	mask       = (1 << 48) - 1
)

// JavaRandom - детерминированный поток псевдослучайных чисел.
// Не потокобезопасен.
type JavaRandom struct {
	state uint64
}

// NewJavaRandom создаёт генератор с указанным сидом
func NewJavaRandom(seed int64) *JavaRandom {
	r := &JavaRandom{}
	r.SetSeed(seed)
	return r
}

// SetSeed сбрасывает состояние генератора
func (r *JavaRandom) SetSeed(seed int64) {
	r.state = (uint64(seed) ^ multiplier) & mask
}

func (r *JavaRandom) next(bits uint) int32 {
	r.state = (r.state*multiplier + addend) & mask
	return int32(uint32(r.state >> (48 - bits)))
}

// NextInt возвращает следующие 32 бита как знаковое число
func (r *JavaRandom) NextInt() int32 {
	return r.next(32)
}

// NextLong возвращает 64-битное значение из двух последовательных 32-битных выборок.
// Младшая половина прибавляется со знаком.
func (r *JavaRandom) NextLong() int64 {
	hi := int64(r.next(32))
	lo := int64(r.next(32))
	return (hi << 32) + lo
}

// NextDouble возвращает значение в [0, 1) с 53 битами точности
func (r *JavaRandom) NextDouble() float64 {
	hi := int64(r.next(26))
	lo := int64(r.next(27))
	return float64((hi<<27)+lo) * (1.0 / (1 << 53))
}
