package biome

// Resolved - выбранный биом, каким его видит генератор.
// Идентичность сравнивается через ID.
type Resolved interface {
	ID() string
	// IsVertical сообщает, что биом, выбранный на любом слое колонки,
	// должен присутствовать на всех слоях этой колонки.
	IsVertical() bool
}

// Definition описывает биом, доступный для выбора
type Definition struct {
	Key      string  `yaml:"id" json:"id"`
	Weight   float64 `yaml:"weight" json:"weight"`
	Vertical bool    `yaml:"vertical" json:"vertical"`
}

// ID реализует Resolved
func (d *Definition) ID() string {
	return d.Key
}

// IsVertical реализует Resolved
func (d *Definition) IsVertical() bool {
	return d.Vertical
}

// Same сравнивает два биома по идентичности (nil равен только nil)
func Same(a, b Resolved) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID() == b.ID()
}
