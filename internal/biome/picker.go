package biome

import (
	"fmt"
	"sort"
)

// Picker выбирает биом по весам.
//
// Записи упорядочиваются по ID перед построением накопленных весов, поэтому
// результат Pick не зависит от порядка добавления. После Rebuild пикер
// только читается и безопасен для конкурентного использования.
type Picker struct {
	fallback   *Definition
	entries    []*Definition
	cumulative []float64
	total      float64
	dirty      bool
}

// NewPicker создаёт пустой пикер с биомом по умолчанию (может быть nil)
func NewPicker(fallback *Definition) *Picker {
	return &Picker{fallback: fallback}
}

// NewPickerFromRegistry собирает пикер из биомов реестра.
// Если ids пуст, используются все биомы MapRegistry.
func NewPickerFromRegistry(reg Registry, ids []string, fallbackID string) (*Picker, error) {
	if len(ids) == 0 {
		if mr, ok := reg.(*MapRegistry); ok {
			ids = mr.IDs()
		}
	}

	var fallback *Definition
	if fallbackID != "" {
		d, ok := reg.Lookup(fallbackID)
		if !ok {
			return nil, fmt.Errorf("fallback biome %q not found", fallbackID)
		}
		fallback = d
	}

	p := NewPicker(fallback)
	for _, id := range ids {
		d, ok := reg.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("biome %q not found", id)
		}
		p.Add(d)
	}
	p.Rebuild()

	if p.Len() == 0 && fallback == nil {
		return nil, fmt.Errorf("picker has no biomes with positive weight")
	}
	return p, nil
}

// Add добавляет биом. Биомы с неположительным весом игнорируются.
func (p *Picker) Add(d *Definition) {
	if d == nil || d.Weight <= 0 {
		return
	}
	p.entries = append(p.entries, d)
	p.dirty = true
}

// Rebuild пересчитывает накопленные веса. Вызывается после последнего Add.
func (p *Picker) Rebuild() {
	sort.SliceStable(p.entries, func(i, j int) bool {
		return p.entries[i].Key < p.entries[j].Key
	})

	p.cumulative = make([]float64, len(p.entries))
	p.total = 0
	for i, d := range p.entries {
		p.total += d.Weight
		p.cumulative[i] = p.total
	}
	p.dirty = false
}

// Len возвращает количество биомов, участвующих в выборе
func (p *Picker) Len() int {
	return len(p.entries)
}

// Fallback возвращает биом по умолчанию
func (p *Picker) Fallback() *Definition {
	return p.fallback
}

// Pick выбирает биом для значения r из [0, 1); r за пределами диапазона ограничивается
func (p *Picker) Pick(r float64) Resolved {
	if p.dirty {
		panic("biome: Picker.Pick called before Rebuild")
	}
	if len(p.entries) == 0 {
		if p.fallback == nil {
			return nil
		}
		return p.fallback
	}

	if r < 0 {
		r = 0
	}
	target := r * p.total
	i := sort.Search(len(p.cumulative), func(i int) bool {
		return p.cumulative[i] > target
	})
	if i >= len(p.entries) {
		i = len(p.entries) - 1
	}
	return p.entries[i]
}
