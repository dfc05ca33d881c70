package biome

import (
	"fmt"
	"sort"
	"sync"
)

// Registry - возможность поиска определения биома по идентификатору.
// Передаётся явно вместо глобального реестра.
type Registry interface {
	Lookup(id string) (*Definition, bool)
}

// MapRegistry - потокобезопасный реестр в памяти
type MapRegistry struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

// NewMapRegistry создаёт реестр и регистрирует переданные определения
func NewMapRegistry(defs ...*Definition) (*MapRegistry, error) {
	r := &MapRegistry{defs: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register добавляет определение. Пустые и повторяющиеся идентификаторы отклоняются.
func (r *MapRegistry) Register(d *Definition) error {
	if d == nil || d.Key == "" {
		return fmt.Errorf("biome definition must have an id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[d.Key]; exists {
		return fmt.Errorf("biome %q already registered", d.Key)
	}
	r.defs[d.Key] = d
	return nil
}

// Lookup реализует Registry
func (r *MapRegistry) Lookup(id string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.defs[id]
	return d, ok
}

// IDs возвращает отсортированный список зарегистрированных идентификаторов
func (r *MapRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len возвращает количество зарегистрированных биомов
func (r *MapRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}
